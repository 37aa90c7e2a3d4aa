package entity

// Vote is a membership record: its presence means UserID voted for PostID.
type Vote struct {
	UserID string
	PostID string
}

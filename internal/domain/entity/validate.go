package entity

import (
	"strings"

	"github.com/oksasatya/go-posts-api/pkg/apperror"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

func invalidField(name string) error {
	return apperror.Validation("invalid value for field " + name)
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validPassword(p string) error {
	if p == "" {
		return invalidField("password")
	}
	if len(p) > MaxPasswordBytes {
		return apperror.Validation("password must be at most 72 bytes")
	}
	return nil
}

func (in UserInput) Validate() error {
	if NormalizeEmail(in.Email) == "" {
		return invalidField("email")
	}
	return validPassword(in.Password)
}

func (p UserPatch) Validate() error {
	if p.Email != nil && NormalizeEmail(*p.Email) == "" {
		return invalidField("email")
	}
	if p.Password != nil {
		return validPassword(*p.Password)
	}
	return nil
}

func (in PostInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return invalidField("title")
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalidField("content")
	}
	return nil
}

func (p PostPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return invalidField("title")
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		return invalidField("content")
	}
	return nil
}

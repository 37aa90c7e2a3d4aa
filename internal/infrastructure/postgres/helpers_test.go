package postgres

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

const (
	testUserID  = "6f1c1f3e-2b7a-4c55-9d5e-1f2f3a4b5c6d"
	otherUserID = "0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d"
	testPostID  = "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d6e"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var (
	userCols = []string{"id", "email", "password", "avatar_url", "created_at", "updated_at"}
	postCols = []string{"id", "title", "content", "published", "user_id", "created_at", "updated_at"}
)

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("sql expectations: %v", err)
		}
		mock.Close()
	})
	return mock
}

func postRow(id, title, owner string) *pgxmock.Rows {
	return pgxmock.NewRows(postCols).AddRow(id, title, "content", true, owner, testTime, testTime)
}

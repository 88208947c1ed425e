package attachments

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/interviewqs/backend/internal/server/models"
)

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewPostgresRepository(db), mock, func() { db.Close() }
}

func TestCreate(t *testing.T) {
	repo, mock, closeFn := newMock(t)
	defer closeFn()

	mock.ExpectQuery("INSERT INTO attachments").
		WithArgs(int64(7), "posts/2026/1/20/abc", "http://s3/attachments/posts/2026/1/20/abc", "01/20/2026").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	id, err := repo.Create(context.Background(), &models.Attachment{
		PostID:     7,
		StorageKey: "posts/2026/1/20/abc",
		URL:        "http://s3/attachments/posts/2026/1/20/abc",
		CreateDate: "01/20/2026",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
}

func TestListByPost(t *testing.T) {
	repo, mock, closeFn := newMock(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"id", "post_id", "storage_key", "url", "create_date"}).
		AddRow(int64(1), int64(7), "k1", "u1", "01/20/2026").
		AddRow(int64(2), int64(7), "k2", "u2", "01/20/2026")
	mock.ExpectQuery("SELECT (.+) FROM attachments").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	result, err := repo.ListByPost(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByPost error: %v", err)
	}
	if len(result) != 2 || result[1].StorageKey != "k2" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestDeleteByPost(t *testing.T) {
	repo, mock, closeFn := newMock(t)
	defer closeFn()

	rows := sqlmock.NewRows([]string{"storage_key"}).AddRow("k1").AddRow("k2")
	mock.ExpectQuery("DELETE FROM attachments").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	keys, err := repo.DeleteByPost(context.Background(), 7)
	if err != nil {
		t.Fatalf("DeleteByPost error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "k1" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

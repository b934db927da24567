package files

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/dmitrijs2005/filehost/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

var (
	now     = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	columns = []string{"id", "user_id", "stored_name", "original_name", "media_type", "size_bytes", "storage_path", "created_at"}
)

const selectColumns = `SELECT\s+id,\s*user_id,\s*stored_name,\s*original_name,\s*media_type,\s*size_bytes,\s*storage_path,\s*created_at\s+FROM\s+files\s+`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+files\s*\(user_id,\s*stored_name,\s*original_name,\s*media_type,\s*size_bytes,\s*storage_path,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*RETURNING\s+id\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(1), "u.txt", "a.txt", "text/plain", int64(10), "/up/u.txt", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	got, err := repo.Create(context.Background(), &models.File{
		UserID:       1,
		StoredName:   "u.txt",
		OriginalName: "a.txt",
		MediaType:    "text/plain",
		Size:         10,
		StoragePath:  "/up/u.txt",
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("id = %d, want 9", got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+files`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.File{UserID: 1, CreatedAt: now})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListByOwner_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^` + selectColumns + `WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s*$`

	rows := sqlmock.NewRows(columns).
		AddRow(int64(2), int64(1), "b.bin", "b.bin", "application/octet-stream", int64(3), "/up/b.bin", now.Add(time.Minute)).
		AddRow(int64(1), int64(1), "a.txt", "a.txt", "text/plain", int64(10), "/up/a.txt", now)
	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got[1].Size != 10 || got[1].MediaType != "text/plain" {
		t.Fatalf("unexpected row: %+v", got[1])
	}
}

func TestListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^` + selectColumns).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.ListByOwner(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestListByOwner_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^` + selectColumns).
		WillReturnError(errors.New("boom"))

	if _, err := repo.ListByOwner(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestListByOwner_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), int64(1), "a", "a", "t", int64(1), "/a", now).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(`(?s)^` + selectColumns).WillReturnRows(rows)

	if _, err := repo.ListByOwner(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetByIDAndOwner_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^` + selectColumns + `WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`

	mock.ExpectQuery(q).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(7), int64(1), "s.txt", "a.txt", "text/plain", int64(10), "/up/s.txt", now))

	got, err := repo.GetByIDAndOwner(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StoredName != "s.txt" || got.OriginalName != "a.txt" || got.StoragePath != "/up/s.txt" {
		t.Fatalf("unexpected file: %+v", got)
	}
}

func TestGetByIDAndOwner_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^` + selectColumns).
		WithArgs(int64(7), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByIDAndOwner(context.Background(), 7, 2)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDeleteByIDAndOwner(t *testing.T) {
	q := `(?s)^DELETE\s+FROM\s+files\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
		anyErr  bool
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1)},
		{name: "not found", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
		{name: "too many", result: sqlmock.NewResult(0, 2), anyErr: true},
		{name: "exec error", execErr: errors.New("boom"), anyErr: true},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("ra")), anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(q).WithArgs(int64(7), int64(1))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.DeleteByIDAndOwner(context.Background(), 7, 1)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			case tt.anyErr:
				if err == nil {
					t.Fatalf("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestListStoredNames(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*stored_name,\s*storage_path\s+FROM\s+files$`

	mock.ExpectQuery(q).
		WillReturnRows(sqlmock.NewRows([]string{"id", "stored_name", "storage_path"}).
			AddRow(int64(1), "a.txt", "/up/a.txt").
			AddRow(int64(2), "b", "/up/b"))

	got, err := repo.ListStoredNames(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].StoredName != "a.txt" || got[1].StoragePath != "/up/b" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

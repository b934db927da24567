package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/dmitrijs2005/filehost/internal/dbx"
	"github.com/dmitrijs2005/filehost/internal/server/models"
)

// SQLRepository stores file metadata in PostgreSQL or SQLite. Every read and
// delete is scoped by owner; a row belonging to someone else is treated as
// missing.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (user_id, stored_name, original_name, media_type, size_bytes, storage_path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.StoredName, file.OriginalName, file.MediaType, file.Size, file.StoragePath, file.CreatedAt).Scan(&file.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// ListByOwner returns the owner's files, newest first. The result is never
// nil.
func (r *SQLRepository) ListByOwner(ctx context.Context, userID int64) ([]*models.File, error) {
	query :=
		`SELECT id, user_id, stored_name, original_name, media_type, size_bytes, storage_path, created_at FROM files
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		item := &models.File{}
		if err := scanFile(rows, item); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) GetByIDAndOwner(ctx context.Context, id, userID int64) (*models.File, error) {
	query :=
		`SELECT id, user_id, stored_name, original_name, media_type, size_bytes, storage_path, created_at FROM files
		 WHERE id = $1 AND user_id = $2
		 `

	item := &models.File{}
	if err := scanFile(r.db.QueryRowContext(ctx, query, id, userID), item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

// DeleteByIDAndOwner removes one row. Zero affected rows means the file is
// gone or belongs to someone else and yields common.ErrorNotFound.
func (r *SQLRepository) DeleteByIDAndOwner(ctx context.Context, id, userID int64) error {

	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// ListStoredNames returns the stored name and storage path of every file of
// every user. Only those two fields are filled.
func (r *SQLRepository) ListStoredNames(ctx context.Context) ([]*models.File, error) {
	query := `SELECT id, stored_name, storage_path FROM files`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select stored names: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		item := &models.File{}
		if err := rows.Scan(&item.ID, &item.StoredName, &item.StoragePath); err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner, f *models.File) error {
	return s.Scan(&f.ID, &f.UserID, &f.StoredName, &f.OriginalName, &f.MediaType, &f.Size, &f.StoragePath, &f.CreatedAt)
}

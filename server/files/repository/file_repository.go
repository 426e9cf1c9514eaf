package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"files_manager/server/files/domain"
)

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

func (r *FileRepository) Create(ctx context.Context, rec domain.FileRecord) (domain.FileRecord, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO files(user_id, name, type, parent_id, is_public, local_path)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING file_id, created_at
	`, rec.UserID, rec.Name, rec.Type, rec.ParentID.String(), rec.IsPublic, nullableText(rec.LocalPath)).Scan(&rec.ID, &rec.CreatedAt)
	return rec, err
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (domain.FileRecord, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT file_id, user_id, name, type, parent_id, is_public, COALESCE(local_path, ''), created_at
		FROM files
		WHERE file_id=$1
	`, id))
}

func (r *FileRepository) GetByIDAndUser(ctx context.Context, id, userID string) (domain.FileRecord, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
		SELECT file_id, user_id, name, type, parent_id, is_public, COALESCE(local_path, ''), created_at
		FROM files
		WHERE file_id=$1 AND user_id=$2
	`, id, userID))
}

func (r *FileRepository) ListByParent(ctx context.Context, userID string, parentID domain.ParentID, limit, offset int) ([]domain.FileRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT file_id, user_id, name, type, parent_id, is_public, COALESCE(local_path, ''), created_at
		FROM files
		WHERE user_id=$1 AND parent_id=$2
		LIMIT $3 OFFSET $4
	`, userID, parentID.String(), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.FileRecord, 0)
	for rows.Next() {
		var rec domain.FileRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Type, &rec.ParentID, &rec.IsPublic, &rec.LocalPath, &rec.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *FileRepository) scanOne(row rowScanner) (domain.FileRecord, error) {
	var rec domain.FileRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Type, &rec.ParentID, &rec.IsPublic, &rec.LocalPath, &rec.CreatedAt)
	return rec, err
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

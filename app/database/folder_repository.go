package database

import (
	"context"
	"database/sql"
	"fmt"
)

var _ FolderRepository = (*FolderRepo)(nil)

// FolderRepo handles database operations for folders.
type FolderRepo struct {
	db *DB
}

func NewFolderRepository(db *DB) *FolderRepo {
	return &FolderRepo{db: db}
}

func (r *FolderRepo) GetByName(ctx context.Context, userID, name string) (*Folder, error) {
	var folder Folder
	err := r.db.QueryRowContext(ctx, `
		SELECT folderid, userid, name FROM folder
		WHERE userid = $1 AND name = $2
	`, userID, name).Scan(&folder.ID, &folder.UserID, &folder.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder by name: %w", err)
	}

	return &folder, nil
}

func (r *FolderRepo) ListNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM folder WHERE userid = $1 ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folder rows: %w", err)
	}

	return names, nil
}

func (r *FolderRepo) ListAll(ctx context.Context) ([]Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT folderid, userid, name FROM folder
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list all folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		var folder Folder
		if err := rows.Scan(&folder.ID, &folder.UserID, &folder.Name); err != nil {
			return nil, fmt.Errorf("failed to scan folder row: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folder rows: %w", err)
	}

	return folders, nil
}

func (r *FolderRepo) Exists(ctx context.Context, userID, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM folder WHERE userid = $1 AND name = $2)
	`, userID, name).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check folder existence: %w", err)
	}

	return exists, nil
}

func (r *FolderRepo) Create(ctx context.Context, folder Folder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folder (folderid, userid, name) VALUES ($1, $2, $3)
	`, folder.ID, folder.UserID, folder.Name)

	if err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	return nil
}

func (r *FolderRepo) Delete(ctx context.Context, folderID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM folder WHERE folderid = $1 AND userid = $2
	`, folderID, userID)

	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	return nil
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// Refresher runs the ingestion pipeline for one folder.
type Refresher interface {
	Refresh(ctx context.Context, userID, folderName string) error
}

type RefreshFolderTask struct {
	Task
	UserID     string
	FolderName string
	refresher  Refresher
}

func NewRefreshFolderTask(userID, folderName string, refresher Refresher) *RefreshFolderTask {
	return &RefreshFolderTask{
		Task:       NewTask(TaskTypeRefreshFolder),
		UserID:     userID,
		FolderName: folderName,
		refresher:  refresher,
	}
}

func (t *RefreshFolderTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.refresher.Refresh(ctx, t.UserID, t.FolderName); err != nil {
		return fmt.Errorf("failed to refresh folder: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshFolder",
		"folder", t.FolderName,
		"duration", t.GetDuration())

	return nil
}

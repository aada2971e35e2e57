package files

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, f *models.File) error
	// Get returns common.ErrNotFound when no file has the id. The payload
	// column is read only when withContent is set.
	Get(ctx context.Context, id string, withContent bool) (*models.File, error)
	ListByFolder(ctx context.Context, folderID *string) ([]models.File, error)
	ListAll(ctx context.Context) ([]models.File, error)
	// Rename returns common.ErrNotFound when no file has the id.
	Rename(ctx context.Context, id, name string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByFolders(ctx context.Context, folderIDs []string) (int64, error)
	ContentKeysByFolders(ctx context.Context, folderIDs []string) ([]string, error)
	Totals(ctx context.Context) (count int, bytes int64, err error)
}

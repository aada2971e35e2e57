package folders

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/models"
)

// Link is the (id, parent) pair used to walk the tree without loading names.
type Link struct {
	ID       string
	ParentID *string
}

type Repository interface {
	Insert(ctx context.Context, f *models.Folder) error
	// GetByID returns common.ErrNotFound when no folder has the id.
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	ListByParent(ctx context.Context, parentID *string) ([]models.Folder, error)
	ListAll(ctx context.Context) ([]models.Folder, error)
	Links(ctx context.Context) ([]Link, error)
	// Rename returns common.ErrNotFound when no folder has the id.
	Rename(ctx context.Context, id, name string, updatedAt time.Time) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	Count(ctx context.Context) (int, error)
}

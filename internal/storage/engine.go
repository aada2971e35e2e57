package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/blobstore"
	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/logging"
	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/repositories/repomanager"
	"github.com/google/uuid"
)

// ContentStore holds file payloads outside the database.
type ContentStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type Engine struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	content ContentStore
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Engine)

func WithContentStore(cs ContentStore) Option {
	return func(e *Engine) { e.content = cs }
}

func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

func New(db *sql.DB, dialect dbx.Dialect, opts ...Option) *Engine {
	e := &Engine{
		db:     db,
		repos:  repomanager.New(dialect),
		logger: logging.Discard(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// timestamp is the creation/update time stored on records. Postgres keeps
// microseconds, so truncate to keep values identical across dialects.
func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

func (e *Engine) ListFoldersByParent(ctx context.Context, parentID *string) ([]models.Folder, error) {
	return e.repos.Folders(e.db).ListByParent(ctx, parentID)
}

func (e *Engine) ListFilesByFolder(ctx context.Context, folderID *string) ([]models.File, error) {
	return e.repos.Files(e.db).ListByFolder(ctx, folderID)
}

func (e *Engine) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	return e.repos.Folders(e.db).GetByID(ctx, id)
}

// GetFileInfo returns the record without its payload.
func (e *Engine) GetFileInfo(ctx context.Context, id string) (*models.File, error) {
	return e.repos.Files(e.db).Get(ctx, id, false)
}

// GetFile returns the record with its payload loaded.
func (e *Engine) GetFile(ctx context.Context, id string) (*models.File, error) {
	f, err := e.repos.Files(e.db).Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if f.ContentKey == nil {
		return f, nil
	}

	if e.content == nil {
		return nil, fmt.Errorf("file %s: payload is in a content store that is not configured", id)
	}
	data, err := e.content.Get(ctx, *f.ContentKey)
	if err != nil {
		return nil, fmt.Errorf("load content for file %s: %w", id, err)
	}
	f.Content = data
	return f, nil
}

func (e *Engine) CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	now := e.timestamp()
	f := &models.Folder{
		ID:        e.newID(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.repos.Folders(e.db).Insert(ctx, f); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	e.logger.Info(ctx, "folder created", "folder_id", f.ID, "parent_id", deref(parentID))
	return f, nil
}

// CreateFile stores a new PDF record. With a content store configured the
// payload is written there first and removed again if the insert fails.
func (e *Engine) CreateFile(ctx context.Context, nf models.NewFile) (*models.File, error) {
	now := e.timestamp()
	f := &models.File{
		ID:        e.newID(),
		Name:      nf.Name,
		Kind:      models.FileKindPDF,
		Size:      nf.Size,
		Content:   nf.Content,
		FolderID:  nf.FolderID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if e.content != nil {
		key := blobstore.Key(f.ID, now)
		if err := e.content.Put(ctx, key, nf.Content); err != nil {
			return nil, fmt.Errorf("create file: %w", err)
		}
		f.ContentKey = &key
	}

	if err := e.repos.Files(e.db).Insert(ctx, f); err != nil {
		if f.ContentKey != nil {
			e.removeObjects(ctx, []string{*f.ContentKey})
		}
		return nil, fmt.Errorf("create file: %w", err)
	}

	e.logger.Info(ctx, "file created", "file_id", f.ID, "folder_id", deref(nf.FolderID), "size", f.Size)
	return f, nil
}

func (e *Engine) UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) (*models.Folder, error) {
	var updated *models.Folder

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.repos.Folders(tx)

		f, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			f.Name = *upd.Name
		}
		f.UpdatedAt = e.timestamp()

		if err := repo.Rename(ctx, id, f.Name, f.UpdatedAt); err != nil {
			return err
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}

	e.logger.Info(ctx, "folder updated", "folder_id", id)
	return updated, nil
}

func (e *Engine) UpdateFile(ctx context.Context, id string, upd models.FileUpdate) (*models.File, error) {
	var updated *models.File

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.repos.Files(tx)

		f, err := repo.Get(ctx, id, false)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			f.Name = *upd.Name
		}
		f.UpdatedAt = e.timestamp()

		if err := repo.Rename(ctx, id, f.Name, f.UpdatedAt); err != nil {
			return err
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update file: %w", err)
	}

	e.logger.Info(ctx, "file updated", "file_id", id)
	return updated, nil
}

// DeleteFile reports whether a record existed.
func (e *Engine) DeleteFile(ctx context.Context, id string) (bool, error) {
	var (
		existed bool
		key     *string
	)

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := e.repos.Files(tx)

		f, err := repo.Get(ctx, id, false)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		key = f.ContentKey

		existed, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete file: %w", err)
	}
	if !existed {
		return false, nil
	}

	if key != nil {
		e.removeObjects(ctx, []string{*key})
	}
	e.logger.Info(ctx, "file deleted", "file_id", id)
	return true, nil
}

func (e *Engine) Stats(ctx context.Context) (models.Stats, error) {
	folders, err := e.repos.Folders(e.db).Count(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	files, total, err := e.repos.Files(e.db).Totals(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.Stats{Folders: folders, Files: files, TotalBytes: total}, nil
}

// removeObjects deletes payload objects after their rows are gone. Failures
// leave an orphaned object behind, which is only logged.
func (e *Engine) removeObjects(ctx context.Context, keys []string) {
	if e.content == nil {
		return
	}
	for _, k := range keys {
		if err := e.content.Delete(ctx, k); err != nil {
			e.logger.Warn(ctx, "orphaned content object", "key", k, "error", err)
		}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package state

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/logging"
	"github.com/dmitrijs2005/dataroom/internal/models"
)

// Engine is the part of storage.Engine the store drives.
type Engine interface {
	ListFoldersByParent(ctx context.Context, parentID *string) ([]models.Folder, error)
	ListFilesByFolder(ctx context.Context, folderID *string) ([]models.File, error)
	GetFolder(ctx context.Context, id string) (*models.Folder, error)
	GetFile(ctx context.Context, id string) (*models.File, error)
	GetFileInfo(ctx context.Context, id string) (*models.File, error)
	CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error)
	CreateFile(ctx context.Context, nf models.NewFile) (*models.File, error)
	UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) (*models.Folder, error)
	UpdateFile(ctx context.Context, id string, upd models.FileUpdate) (*models.File, error)
	DeleteFolder(ctx context.Context, id string) (bool, error)
	DeleteFile(ctx context.Context, id string) (bool, error)
	GetFullPath(ctx context.Context, folderID *string) ([]models.Folder, error)
	SearchItems(ctx context.Context, query string, scope *string) (models.Contents, error)
}

// Gate decides whether commands may run at all.
type Gate interface {
	IsAuthenticated(ctx context.Context) bool
}

// Snapshot is a copy of the store's state at one moment.
type Snapshot struct {
	CurrentFolderID *string
	Children        models.Contents
	Breadcrumbs     []models.Breadcrumb
	SearchOverride  *models.Contents
	IsLoading       bool
	IsSearching     bool
	IsUploading     bool
	LastError       string
}

type Option func(*Store)

// WithGate makes every command fail with common.ErrUnauthorized while g
// reports no authenticated session.
func WithGate(g Gate) Option {
	return func(s *Store) { s.gate = g }
}

type Store struct {
	engine Engine
	logger logging.Logger
	gate   Gate

	mu             sync.Mutex
	currentFolder  *string
	children       models.Contents
	breadcrumbs    []models.Breadcrumb
	searchOverride *models.Contents
	// Counters rather than booleans: overlapping commands each hold their
	// flag until the last one finishes.
	loading   int
	searching int
	uploading int
	lastError string

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func New(engine Engine, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{
		engine: engine,
		logger: logger,
		subs:   make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe registers fn for every state change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// update applies fn under the state lock and then notifies subscribers
// outside of it.
func (s *Store) update(fn func(s *Store)) {
	s.mu.Lock()
	fn(s)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, f := range s.subs {
		fns = append(fns, f)
	}
	s.subMu.Unlock()

	for _, f := range fns {
		f(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		CurrentFolderID: copyID(s.currentFolder),
		Children:        s.children.Clone(),
		IsLoading:       s.loading > 0,
		IsSearching:     s.searching > 0,
		IsUploading:     s.uploading > 0,
		LastError:       s.lastError,
		Breadcrumbs:     slices.Clone(s.breadcrumbs),
	}
	if s.searchOverride != nil {
		o := s.searchOverride.Clone()
		snap.SearchOverride = &o
	}
	return snap
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// DisplayData returns the search results while a search is active and the
// current folder's children otherwise.
func (s *Store) DisplayData() models.Contents {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searchOverride != nil {
		return s.searchOverride.Clone()
	}
	return s.children.Clone()
}

// ExistingNames lists the current folder's folder names followed by its
// file names.
func (s *Store) ExistingNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contentNames(s.children, "")
}

func (s *Store) CurrentFolderID() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyID(s.currentFolder)
}

func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.update(func(s *Store) { s.lastError = err.Error() })
	s.logger.Warn(ctx, op+" failed", "error", err)
	return err
}

func (s *Store) checkGate(ctx context.Context, op string) error {
	if s.gate == nil || s.gate.IsAuthenticated(ctx) {
		return nil
	}
	return s.fail(ctx, op, common.ErrUnauthorized)
}

// GetFile returns a file with its payload.
func (s *Store) GetFile(ctx context.Context, id string) (*models.File, error) {
	if err := s.checkGate(ctx, "get file"); err != nil {
		return nil, err
	}
	return s.engine.GetFile(ctx, id)
}

func contentNames(c models.Contents, excludeID string) []string {
	names := make([]string, 0, len(c.Folders)+len(c.Files))
	for _, f := range c.Folders {
		if f.ID != excludeID {
			names = append(names, f.Name)
		}
	}
	for _, f := range c.Files {
		if f.ID != excludeID {
			names = append(names, f.Name)
		}
	}
	return names
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameScope(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

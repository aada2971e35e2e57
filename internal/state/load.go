package state

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dataroom/internal/models"
	"golang.org/x/sync/errgroup"
)

// fetchContents reads a folder's subfolders and files concurrently.
func (s *Store) fetchContents(ctx context.Context, folderID *string) (models.Contents, error) {
	var c models.Contents

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		folders, err := s.engine.ListFoldersByParent(gctx, folderID)
		c.Folders = folders
		return err
	})
	g.Go(func() error {
		files, err := s.engine.ListFilesByFolder(gctx, folderID)
		c.Files = files
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Contents{}, err
	}
	return c, nil
}

// LoadFolderContents replaces the displayed children with a fresh read of
// folderID (nil is the root) and makes it the current folder. An active
// search is cleared on success.
func (s *Store) LoadFolderContents(ctx context.Context, folderID *string) error {
	if err := s.checkGate(ctx, "load folder"); err != nil {
		return err
	}

	// Registered first so the flag is released even if a subscriber panics.
	defer s.update(func(s *Store) { s.loading-- })
	s.update(func(s *Store) {
		s.loading++
		s.lastError = ""
	})

	c, err := s.fetchContents(ctx, folderID)
	if err != nil {
		return s.fail(ctx, "load folder", err)
	}

	target := copyID(folderID)
	s.update(func(s *Store) {
		s.children = c
		s.currentFolder = target
		s.searchOverride = nil
	})
	return nil
}

// Reload re-reads the current folder.
func (s *Store) Reload(ctx context.Context) error {
	return s.LoadFolderContents(ctx, s.CurrentFolderID())
}

// UpdateBreadcrumbs rebuilds the trail from the root to folderID.
func (s *Store) UpdateBreadcrumbs(ctx context.Context, folderID *string) error {
	if err := s.checkGate(ctx, "update breadcrumbs"); err != nil {
		return err
	}

	if folderID == nil {
		s.update(func(s *Store) { s.breadcrumbs = []models.Breadcrumb{} })
		return nil
	}

	path, err := s.engine.GetFullPath(ctx, folderID)
	if err != nil {
		return s.fail(ctx, "update breadcrumbs", err)
	}

	crumbs := make([]models.Breadcrumb, 0, len(path))
	var b strings.Builder
	for _, f := range path {
		b.WriteString("/")
		b.WriteString(f.Name)
		crumbs = append(crumbs, models.Breadcrumb{ID: f.ID, Name: f.Name, Path: b.String()})
	}

	s.update(func(s *Store) { s.breadcrumbs = crumbs })
	return nil
}

func (s *Store) RefreshBreadcrumbs(ctx context.Context) error {
	return s.UpdateBreadcrumbs(ctx, s.CurrentFolderID())
}

// Navigate opens folderID: its contents first, then its breadcrumbs.
func (s *Store) Navigate(ctx context.Context, folderID *string) error {
	if err := s.LoadFolderContents(ctx, folderID); err != nil {
		return err
	}
	return s.UpdateBreadcrumbs(ctx, folderID)
}

// SearchItems runs a case-insensitive name search over the whole tree and
// shows the results in place of the current folder. A blank query clears
// the search without touching storage.
func (s *Store) SearchItems(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		s.ClearSearch()
		return nil
	}
	if err := s.checkGate(ctx, "search"); err != nil {
		return err
	}

	defer s.update(func(s *Store) { s.searching-- })
	s.update(func(s *Store) {
		s.searching++
		s.lastError = ""
	})

	res, err := s.engine.SearchItems(ctx, query, nil)
	if err != nil {
		return s.fail(ctx, "search", err)
	}

	s.update(func(s *Store) { s.searchOverride = &res })
	s.logger.Debug(ctx, "search done", "query", query, "folders", len(res.Folders), "files", len(res.Files))
	return nil
}

func (s *Store) ClearSearch() {
	s.update(func(s *Store) { s.searchOverride = nil })
}

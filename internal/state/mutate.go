package state

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/naming"
)

// siblingNames lists the names in scope except the record excludeID. The
// displayed children are used when scope is the current folder.
func (s *Store) siblingNames(ctx context.Context, scope *string, excludeID string) ([]string, error) {
	s.mu.Lock()
	if sameScope(scope, s.currentFolder) {
		names := contentNames(s.children, excludeID)
		s.mu.Unlock()
		return names, nil
	}
	s.mu.Unlock()

	c, err := s.fetchContents(ctx, scope)
	if err != nil {
		return nil, err
	}
	return contentNames(c, excludeID), nil
}

// targetScope resolves a nil folder id to the current folder.
func (s *Store) targetScope(id *string) *string {
	if id != nil {
		return copyID(id)
	}
	return s.CurrentFolderID()
}

func (s *Store) validateIn(ctx context.Context, op, name string, scope *string, excludeID string) error {
	existing, err := s.siblingNames(ctx, scope, excludeID)
	if err != nil {
		return s.fail(ctx, op, err)
	}
	if err := naming.ValidateName(name, existing); err != nil {
		return s.fail(ctx, op, err)
	}
	return nil
}

// CreateFolder creates a folder in the current folder.
func (s *Store) CreateFolder(ctx context.Context, name string) error {
	return s.CreateFolderIn(ctx, name, nil)
}

// CreateFolderIn creates a folder under parentID, or under the current
// folder when parentID is nil.
func (s *Store) CreateFolderIn(ctx context.Context, name string, parentID *string) error {
	if err := s.checkGate(ctx, "create folder"); err != nil {
		return err
	}

	target := s.targetScope(parentID)
	name = strings.TrimSpace(name)
	if err := s.validateIn(ctx, "create folder", name, target, ""); err != nil {
		return err
	}

	if _, err := s.engine.CreateFolder(ctx, name, target); err != nil {
		return s.fail(ctx, "create folder", err)
	}
	return s.Reload(ctx)
}

func (s *Store) UpdateFolder(ctx context.Context, id string, upd models.FolderUpdate) error {
	if err := s.checkGate(ctx, "update folder"); err != nil {
		return err
	}

	if upd.Name != nil {
		folder, err := s.engine.GetFolder(ctx, id)
		if err != nil {
			return s.fail(ctx, "update folder", err)
		}
		name := strings.TrimSpace(*upd.Name)
		if err := s.validateIn(ctx, "update folder", name, folder.ParentID, id); err != nil {
			return err
		}
		upd.Name = &name
	}

	if _, err := s.engine.UpdateFolder(ctx, id, upd); err != nil {
		return s.fail(ctx, "update folder", err)
	}
	return s.Reload(ctx)
}

// DeleteFolder removes a folder with everything beneath it and reports
// whether it existed.
func (s *Store) DeleteFolder(ctx context.Context, id string) (bool, error) {
	if err := s.checkGate(ctx, "delete folder"); err != nil {
		return false, err
	}

	existed, err := s.engine.DeleteFolder(ctx, id)
	if err != nil {
		return false, s.fail(ctx, "delete folder", err)
	}
	return existed, s.Reload(ctx)
}

// CreateFile stores a file in nf.FolderID, or in the current folder when
// that is nil.
func (s *Store) CreateFile(ctx context.Context, nf models.NewFile) error {
	if err := s.checkGate(ctx, "create file"); err != nil {
		return err
	}

	nf.FolderID = s.targetScope(nf.FolderID)
	nf.Name = strings.TrimSpace(nf.Name)
	if err := s.validateIn(ctx, "create file", nf.Name, nf.FolderID, ""); err != nil {
		return err
	}
	if nf.Size == 0 {
		nf.Size = int64(len(nf.Content))
	}

	if _, err := s.engine.CreateFile(ctx, nf); err != nil {
		return s.fail(ctx, "create file", err)
	}
	return s.Reload(ctx)
}

func (s *Store) UpdateFile(ctx context.Context, id string, upd models.FileUpdate) error {
	if err := s.checkGate(ctx, "update file"); err != nil {
		return err
	}

	if upd.Name != nil {
		scope, err := s.fileScope(ctx, id)
		if err != nil {
			return s.fail(ctx, "update file", err)
		}
		name := strings.TrimSpace(*upd.Name)
		if err := s.validateIn(ctx, "update file", name, scope, id); err != nil {
			return err
		}
		upd.Name = &name
	}

	if _, err := s.engine.UpdateFile(ctx, id, upd); err != nil {
		return s.fail(ctx, "update file", err)
	}
	return s.Reload(ctx)
}

// fileScope finds the folder holding file id, preferring the displayed
// data over a metadata lookup.
func (s *Store) fileScope(ctx context.Context, id string) (*string, error) {
	s.mu.Lock()
	lists := [][]models.File{s.children.Files}
	if s.searchOverride != nil {
		lists = append(lists, s.searchOverride.Files)
	}
	for _, files := range lists {
		for _, f := range files {
			if f.ID == id {
				scope := copyID(f.FolderID)
				s.mu.Unlock()
				return scope, nil
			}
		}
	}
	s.mu.Unlock()

	f, err := s.engine.GetFileInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.FolderID, nil
}

func (s *Store) DeleteFile(ctx context.Context, id string) (bool, error) {
	if err := s.checkGate(ctx, "delete file"); err != nil {
		return false, err
	}

	existed, err := s.engine.DeleteFile(ctx, id)
	if err != nil {
		return false, s.fail(ctx, "delete file", err)
	}
	return existed, s.Reload(ctx)
}

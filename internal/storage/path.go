package storage

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/models"
)

// GetFullPath returns the ancestors of folderID, root first, ending with
// the folder itself. A nil id yields an empty path. A missing ancestor ends
// the walk and the part collected so far is returned; a repeated id (a
// corrupted parent chain) does the same.
func (e *Engine) GetFullPath(ctx context.Context, folderID *string) ([]models.Folder, error) {
	path := []models.Folder{}
	if folderID == nil {
		return path, nil
	}

	repo := e.repos.Folders(e.db)
	visited := map[string]bool{}

	for id := folderID; id != nil; {
		if visited[*id] {
			e.logger.Warn(ctx, "cycle in folder parents", "folder_id", *id)
			break
		}
		visited[*id] = true

		f, err := repo.GetByID(ctx, *id)
		if errors.Is(err, common.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		path = append(path, *f)
		id = f.ParentID
	}

	slices.Reverse(path)
	return path, nil
}

// SearchItems returns every folder and file whose name contains query,
// ignoring case. A non-nil scope keeps only direct children of that folder.
func (e *Engine) SearchItems(ctx context.Context, query string, scope *string) (models.Contents, error) {
	allFolders, err := e.repos.Folders(e.db).ListAll(ctx)
	if err != nil {
		return models.Contents{}, err
	}
	allFiles, err := e.repos.Files(e.db).ListAll(ctx)
	if err != nil {
		return models.Contents{}, err
	}

	q := strings.ToLower(query)
	result := models.Contents{Folders: []models.Folder{}, Files: []models.File{}}

	for _, f := range allFolders {
		if inScope(f.ParentID, scope) && strings.Contains(strings.ToLower(f.Name), q) {
			result.Folders = append(result.Folders, f)
		}
	}
	for _, f := range allFiles {
		if inScope(f.FolderID, scope) && strings.Contains(strings.ToLower(f.Name), q) {
			result.Files = append(result.Files, f)
		}
	}

	e.logger.Debug(ctx, "search", "query", query, "folders", len(result.Folders), "files", len(result.Files))
	return result, nil
}

func inScope(parent, scope *string) bool {
	if scope == nil {
		return true
	}
	return parent != nil && *parent == *scope
}

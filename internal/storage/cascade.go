package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dataroom/internal/common"
	"github.com/dmitrijs2005/dataroom/internal/dbx"
	"github.com/dmitrijs2005/dataroom/internal/repositories/folders"
)

// deleteBatchSize bounds the number of ids bound into one IN list.
const deleteBatchSize = 500

// isProtected reports ids DeleteFolder refuses outright.
func isProtected(id string) bool {
	return id == "" || id == common.RootFolderID
}

// DeleteFolder removes the folder, every folder nested under it and every
// file in any of them, in one transaction. It returns false without error
// when the id is protected or unknown.
func (e *Engine) DeleteFolder(ctx context.Context, id string) (bool, error) {
	if isProtected(id) {
		e.logger.Warn(ctx, "refusing to delete protected folder", "folder_id", id)
		return false, nil
	}

	var (
		closure []string
		keys    []string
	)

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		folderRepo := e.repos.Folders(tx)
		fileRepo := e.repos.Files(tx)

		links, err := folderRepo.Links(ctx)
		if err != nil {
			return err
		}

		closure = descendants(id, links)
		if closure == nil {
			return nil
		}

		for _, batch := range chunk(closure, deleteBatchSize) {
			k, err := fileRepo.ContentKeysByFolders(ctx, batch)
			if err != nil {
				return err
			}
			keys = append(keys, k...)

			if _, err := fileRepo.DeleteByFolders(ctx, batch); err != nil {
				return err
			}
		}

		// Deepest folders first so no surviving row references a deleted one.
		ordered := make([]string, len(closure))
		for i, fid := range closure {
			ordered[len(closure)-1-i] = fid
		}
		for _, batch := range chunk(ordered, deleteBatchSize) {
			if _, err := folderRepo.DeleteMany(ctx, batch); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}
	if closure == nil {
		return false, nil
	}

	e.removeObjects(ctx, keys)
	e.logger.Info(ctx, "folder deleted", "folder_id", id, "folders", len(closure), "objects", len(keys))
	return true, nil
}

// descendants returns root followed by every folder below it in
// breadth-first order, or nil when root is not among links. It walks an
// explicit FIFO worklist so tree depth does not grow the stack.
func descendants(root string, links []folders.Link) []string {
	children := make(map[string][]string, len(links))
	found := false
	for _, l := range links {
		if l.ID == root {
			found = true
		}
		if l.ParentID != nil {
			children[*l.ParentID] = append(children[*l.ParentID], l.ID)
		}
	}
	if !found {
		return nil
	}

	seen := map[string]bool{root: true}
	order := []string{root}
	for i := 0; i < len(order); i++ {
		for _, child := range children[order[i]] {
			if seen[child] {
				continue
			}
			seen[child] = true
			order = append(order, child)
		}
	}
	return order
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

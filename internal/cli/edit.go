package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/dataroom/internal/models"
)

func (a *App) Mkdir(ctx context.Context, name string) error {
	if err := a.store.CreateFolder(ctx, name); err != nil {
		return err
	}
	return a.List(ctx)
}

// Rename renames a folder or file shown in the current listing. Folders
// are matched first.
func (a *App) Rename(ctx context.Context, oldName, newName string) error {
	shown := a.store.DisplayData()

	if folder, ok := findFolder(shown, oldName); ok {
		if err := a.store.UpdateFolder(ctx, folder.ID, models.FolderUpdate{Name: &newName}); err != nil {
			return err
		}
		// The renamed folder may be on the breadcrumb trail.
		if err := a.store.RefreshBreadcrumbs(ctx); err != nil {
			return err
		}
		return a.List(ctx)
	}

	if file, ok := findFile(shown, oldName); ok {
		if err := a.store.UpdateFile(ctx, file.ID, models.FileUpdate{Name: &newName}); err != nil {
			return err
		}
		return a.List(ctx)
	}

	return fmt.Errorf("nothing named %q here", oldName)
}

// Rm deletes a folder, with everything beneath it, or a file.
func (a *App) Rm(ctx context.Context, name string) error {
	shown := a.store.DisplayData()

	if folder, ok := findFolder(shown, name); ok {
		existed, err := a.store.DeleteFolder(ctx, folder.ID)
		if err != nil {
			return err
		}
		if existed {
			fmt.Fprintf(a.out, "Deleted folder %s and its contents\n", name)
		}
		return a.List(ctx)
	}

	if file, ok := findFile(shown, name); ok {
		existed, err := a.store.DeleteFile(ctx, file.ID)
		if err != nil {
			return err
		}
		if existed {
			fmt.Fprintf(a.out, "Deleted %s\n", name)
		}
		return a.List(ctx)
	}

	return fmt.Errorf("nothing named %q here", name)
}

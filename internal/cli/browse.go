package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/naming"
)

// List prints the search results while a search is active, otherwise the
// current folder.
func (a *App) List(ctx context.Context) error {
	snap := a.store.Snapshot()
	if snap.SearchOverride != nil {
		fmt.Fprintln(a.out, "Search results (type 'clear' to go back):")
	}
	renderContents(a.out, a.store.DisplayData(), a.now())
	return nil
}

func renderContents(w io.Writer, c models.Contents, now time.Time) {
	if c.IsEmpty() {
		fmt.Fprintln(w, "  (empty)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range c.Folders {
		fmt.Fprintf(tw, "  [dir]\t%s\t\t%s\n", f.Name, naming.FormatAge(f.UpdatedAt, now))
	}
	for _, f := range c.Files {
		fmt.Fprintf(tw, "  [%s]\t%s\t%s\t%s\n",
			naming.FileKindFor(f.Name), f.Name, naming.FormatSize(f.Size), naming.FormatAge(f.UpdatedAt, now))
	}
	_ = tw.Flush()
}

// Cd opens a subfolder of the current folder by name, its parent with
// "..", or the root with "/".
func (a *App) Cd(ctx context.Context, target string) error {
	var dest *string

	switch target {
	case "/":
	case "..":
		crumbs := a.store.Snapshot().Breadcrumbs
		if len(crumbs) >= 2 {
			id := crumbs[len(crumbs)-2].ID
			dest = &id
		}
	default:
		folder, ok := findFolder(a.store.Snapshot().Children, target)
		if !ok {
			return fmt.Errorf("no folder named %q here", target)
		}
		dest = &folder.ID
	}

	if err := a.store.Navigate(ctx, dest); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) Pwd(ctx context.Context) error {
	fmt.Fprintln(a.out, a.currentPath())
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	if err := a.store.SearchItems(ctx, query); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) Clear(ctx context.Context) error {
	a.store.ClearSearch()
	return a.List(ctx)
}

func (a *App) Stats(ctx context.Context) error {
	st, err := a.stats.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d folders, %d files, %s total\n", st.Folders, st.Files, naming.FormatSize(st.TotalBytes))
	return nil
}

func findFolder(c models.Contents, name string) (models.Folder, bool) {
	for _, f := range c.Folders {
		if f.Name == name {
			return f, true
		}
	}
	return models.Folder{}, false
}

func findFile(c models.Contents, name string) (models.File, bool) {
	for _, f := range c.Files {
		if f.Name == name {
			return f, true
		}
	}
	return models.File{}, false
}

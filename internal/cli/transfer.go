package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dataroom/internal/filex"
	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/naming"
)

// Upload stores local files in the current folder. Paths that cannot be
// opened are reported and skipped; the rest are uploaded as one batch.
func (a *App) Upload(ctx context.Context, paths []string) error {
	var (
		sources []models.UploadSource
		openErr []error
	)
	for _, p := range paths {
		f, err := filex.OpenLocal(p)
		if err != nil {
			fmt.Fprintf(a.out, "  skipped %s: %v\n", p, err)
			openErr = append(openErr, err)
			continue
		}
		sources = append(sources, f)
	}

	report, err := a.store.UploadFiles(ctx, sources)
	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(a.out, "  failed %s: %v\n", res.Requested, res.Err)
		case res.Stored != res.Requested:
			fmt.Fprintf(a.out, "  uploaded %s as %s (%s)\n", res.Requested, res.Stored, naming.FormatSize(res.File.Size))
		default:
			fmt.Fprintf(a.out, "  uploaded %s (%s)\n", res.Stored, naming.FormatSize(res.File.Size))
		}
	}

	if lerr := a.List(ctx); lerr != nil {
		return lerr
	}
	if failed := report.Failed() + len(openErr); failed > 0 {
		return fmt.Errorf("%d of %d files not uploaded", failed, len(paths))
	}
	return err
}

// Export writes a file from the current listing to dest, or to the
// configured export directory when dest is empty. Existing files are not
// overwritten.
func (a *App) Export(ctx context.Context, name, dest string) error {
	file, ok := findFile(a.store.DisplayData(), name)
	if !ok {
		return fmt.Errorf("no file named %q here", name)
	}
	if dest == "" {
		dest = a.exportDir
	}
	if dest == "" {
		return errors.New("no export directory configured")
	}

	full, err := a.store.GetFile(ctx, file.ID)
	if err != nil {
		return err
	}

	path, err := filex.WriteExport(dest, full.Name, full.Content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %s to %s\n", name, path)
	return nil
}

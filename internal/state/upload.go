package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/naming"
)

// UploadError is the failure of a single file in a batch upload.
type UploadError struct {
	Name string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %q: %v", e.Name, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// UploadResult describes one source. Stored is the name actually used,
// which differs from Requested when the name was already taken.
type UploadResult struct {
	Requested string
	Stored    string
	File      *models.File
	Err       error
}

type UploadReport struct {
	Results []UploadResult
}

// Stored returns the files that were created.
func (r UploadReport) Stored() []*models.File {
	var out []*models.File
	for _, res := range r.Results {
		if res.Err == nil && res.File != nil {
			out = append(out, res.File)
		}
	}
	return out
}

func (r UploadReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// UploadFiles stores every source in the current folder one after another,
// renaming on collision ("report.pdf" becomes "report (1).pdf"). A failing
// source does not stop the batch; the returned error joins the per-file
// failures. The folder is reloaded once at the end.
func (s *Store) UploadFiles(ctx context.Context, sources []models.UploadSource) (UploadReport, error) {
	var report UploadReport

	if err := s.checkGate(ctx, "upload"); err != nil {
		return report, err
	}
	if len(sources) == 0 {
		return report, nil
	}

	defer s.update(func(s *Store) { s.uploading-- })
	s.update(func(s *Store) {
		s.uploading++
		s.lastError = ""
	})

	folderID := s.CurrentFolderID()
	taken := s.ExistingNames()

	var errs []error
	for _, src := range sources {
		res := s.uploadOne(ctx, src, folderID, taken)
		if res.Err != nil {
			errs = append(errs, &UploadError{Name: res.Requested, Err: res.Err})
			s.logger.Warn(ctx, "upload failed", "name", res.Requested, "error", res.Err)
		} else {
			taken = append(taken, res.Stored)
		}
		report.Results = append(report.Results, res)
	}

	if err := s.Reload(ctx); err != nil {
		errs = append(errs, err)
	}

	if failed := report.Failed(); failed > 0 {
		msg := fmt.Sprintf("%d of %d files failed to upload", failed, len(sources))
		s.update(func(s *Store) { s.lastError = msg })
	}

	s.logger.Info(ctx, "upload finished", "count", len(sources), "failed", report.Failed())
	return report, errors.Join(errs...)
}

func (s *Store) uploadOne(ctx context.Context, src models.UploadSource, folderID *string, taken []string) UploadResult {
	res := UploadResult{Requested: src.Name()}

	data, err := src.ReadContent()
	if err != nil {
		res.Err = fmt.Errorf("read content: %w", err)
		return res
	}

	name := naming.GenerateUniqueFileName(src.Name(), taken)
	if err := naming.ValidateFormat(name); err != nil {
		res.Err = err
		return res
	}
	res.Stored = name

	f, err := s.engine.CreateFile(ctx, models.NewFile{
		Name:     name,
		Content:  data,
		Size:     int64(len(data)),
		FolderID: folderID,
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.File = f
	return res
}

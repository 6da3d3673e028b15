package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jask/quarta/internal/database/repository"
	"github.com/jask/quarta/internal/dataframe"
	"github.com/jask/quarta/internal/logger"
)

// DefaultImportConcurrency bounds ImportFiles when Concurrency is unset.
const DefaultImportConcurrency = 4

// ImportedSheet is one file that was stored.
type ImportedSheet struct {
	Path   string
	Sheet  repository.Sheet
	Report *dataframe.ParseReport
}

type IngestResult struct {
	Imported int
	Skipped  int
	Sheets   []ImportedSheet
	Errors   []error
}

// ImportFiles uploads each CSV file as its own sheet, named after the file.
// Files are read and parsed concurrently, one frame per file. Unreadable files
// are counted as skipped; other per-file failures land in Errors. Results keep
// the order of paths. Each file outcome is logged through the logger carried
// by ctx.
func (s *SheetService) ImportFiles(ctx context.Context, paths []string) (IngestResult, error) {
	type outcome struct {
		sheet ImportedSheet
		err   error
	}
	outcomes := make([]outcome, len(paths))

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultImportConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			log := logger.FromContext(gctx).With().Str("path", path).Logger()

			data, err := os.ReadFile(path)
			if err != nil {
				outcomes[i].err = fmt.Errorf("%s: %w", path, err)
				log.Warn().Err(err).Msg("import failed")
				return nil
			}
			sheet, report, err := s.Upload(gctx, sheetName(path), string(data))
			if err != nil {
				outcomes[i].err = fmt.Errorf("%s: %w", path, err)
				log.Warn().Err(err).Msg("import failed")
				return nil
			}
			outcomes[i].sheet = ImportedSheet{Path: path, Sheet: sheet, Report: report}
			log.Info().
				Str("sheet", sheet.ID).
				Int("rows_parsed", report.RowsParsed).
				Int("rows_skipped", report.RowsSkipped).
				Msg("file imported")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return IngestResult{}, err
	}

	var res IngestResult
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			res.Imported++
			res.Sheets = append(res.Sheets, o.sheet)
		case isUnreadable(o.err):
			res.Skipped++
			res.Errors = append(res.Errors, o.err)
		default:
			res.Errors = append(res.Errors, o.err)
		}
	}
	return res, nil
}

func sheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isUnreadable(err error) bool {
	return errors.Is(err, ErrUnreadableSheet)
}

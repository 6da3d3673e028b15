package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jask/quarta/internal/database"
	"github.com/jask/quarta/internal/database/repository"
	"github.com/jask/quarta/internal/dataframe"
)

// ErrUnreadableSheet means a CSV produced no usable rows.
var ErrUnreadableSheet = errors.New("could not read file")

// SheetService stores uploaded sheets and opens them for analysis.
type SheetService struct {
	Sheets       *repository.SheetRepo
	FrameOptions []dataframe.Option
	Concurrency  int
	Log          zerolog.Logger

	// Clock defaults to database.Now.
	Clock func() time.Time
}

// Session is an opened sheet with its parsed frame. Report is nil when the
// stored content has no usable rows.
type Session struct {
	Sheet  repository.Sheet
	Frame  *dataframe.DataFrame
	Report *dataframe.ParseReport
}

// Close releases the frame.
func (s *Session) Close() {
	if s.Frame != nil {
		s.Frame.Close()
		s.Frame = nil
	}
}

func (s *SheetService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC().Truncate(time.Second)
	}
	return database.Now()
}

func (s *SheetService) newFrame() *dataframe.DataFrame {
	return dataframe.New(s.FrameOptions...)
}

// Upload validates content by parsing it and stores it as a new sheet. A blank
// name becomes the upload time.
func (s *SheetService) Upload(ctx context.Context, name, content string) (repository.Sheet, *dataframe.ParseReport, error) {
	frame := s.newFrame()
	report := frame.ParseCSV(content)
	frame.Close()
	if report == nil {
		return repository.Sheet{}, nil, ErrUnreadableSheet
	}

	now := s.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = now.Format(time.RFC3339)
	}
	sheet := repository.Sheet{
		ID:           uuid.NewString(),
		Name:         name,
		Content:      content,
		CreatedAt:    now,
		LastOpenedAt: now,
	}
	if err := s.Sheets.Insert(ctx, sheet); err != nil {
		return repository.Sheet{}, nil, err
	}
	s.Log.Info().
		Str("sheet", sheet.ID).
		Str("name", sheet.Name).
		Int("rows", report.RowsParsed).
		Int("skipped", report.RowsSkipped).
		Msg("sheet uploaded")
	return sheet, report, nil
}

// Open loads a sheet, marks it opened and parses it into a fresh frame.
func (s *SheetService) Open(ctx context.Context, id string) (*Session, error) {
	sheet, err := s.Sheets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.Sheets.TouchOpened(ctx, id, now); err != nil {
		return nil, err
	}
	sheet.LastOpenedAt = now

	frame := s.newFrame()
	report := frame.ParseCSV(sheet.Content)
	if report == nil {
		s.Log.Warn().Str("sheet", id).Msg("stored sheet has no usable rows")
	}
	return &Session{Sheet: sheet, Frame: frame, Report: report}, nil
}

func (s *SheetService) List(ctx context.Context) ([]repository.SheetSummary, error) {
	return s.Sheets.List(ctx)
}

func (s *SheetService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename sheet %s: name cannot be empty", id)
	}
	return s.Sheets.Rename(ctx, id, name)
}

func (s *SheetService) Delete(ctx context.Context, id string) error {
	if err := s.Sheets.Delete(ctx, id); err != nil {
		return err
	}
	s.Log.Info().Str("sheet", id).Msg("sheet deleted")
	return nil
}

package minutes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"minutes-backend/internal/export"
	"minutes-backend/internal/extract"
	"minutes-backend/internal/shared/metrics"
	"minutes-backend/internal/shared/storage/object"
	"minutes-backend/internal/shared/telemetry"
	"minutes-backend/internal/shared/util"
)

const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 50
)

// Service runs the extract, fill and export pipeline. Each call is independent;
// only the run log outlives a call.
type Service struct {
	Repo    RunRepo
	Archive object.ObjectStore
	Now     func() time.Time
	NewID   func() string
}

// NewService constructs a Service. archive may be nil.
func NewService(repo RunRepo, archive object.ObjectStore) *Service {
	return &Service{Repo: repo, Archive: archive}
}

// Generate extracts the transcript from up and fills the template.
func (s *Service) Generate(ctx context.Context, up extract.Upload) (Minutes, error) {
	run := s.startRun(ActionPreview, up)
	m, err := s.compose(ctx, up, &run)
	s.finishRun(ctx, &run, err)
	return m, err
}

// Export runs the whole pipeline and renders the result in format f. The
// returned document body is positioned at offset zero.
func (s *Service) Export(ctx context.Context, up extract.Upload, f export.Format) (export.Document, Minutes, error) {
	run := s.startRun(Action(f), up)
	doc, m, err := s.export(ctx, up, f, &run)
	s.finishRun(ctx, &run, err)
	return doc, m, err
}

func (s *Service) export(ctx context.Context, up extract.Upload, f export.Format, run *Run) (export.Document, Minutes, error) {
	if f != export.FormatDOCX && f != export.FormatPDF {
		return export.Document{}, Minutes{}, fmt.Errorf("%w: %q", export.ErrUnknownFormat, f)
	}
	m, err := s.compose(ctx, up, run)
	if err != nil {
		return export.Document{}, m, err
	}
	doc, err := export.Render(f, m.Text)
	if err != nil {
		return export.Document{}, m, fmt.Errorf("render %s: %w", f, err)
	}
	run.OutputBytes = doc.Size()
	s.archive(ctx, doc, run)
	return doc, m, nil
}

// Runs lists the audit log newest first. limit is clamped to MaxRunsLimit.
func (s *Service) Runs(ctx context.Context, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	if limit > MaxRunsLimit {
		limit = MaxRunsLimit
	}
	if offset < 0 {
		offset = 0
	}
	if s.Repo == nil {
		return []Run{}, nil
	}
	return s.Repo.List(ctx, limit, offset)
}

// Run returns one audit record.
func (s *Service) Run(ctx context.Context, runID string) (Run, error) {
	if s.Repo == nil {
		return Run{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, runID)
}

func (s *Service) compose(ctx context.Context, up extract.Upload, run *Run) (Minutes, error) {
	res, err := extract.Extract(ctx, up)
	run.DetectedType = res.DetectedType
	metrics.IncSourceKind(string(res.Kind))
	if res.DeclaredMismatch {
		telemetry.Warn("minutes.declared_type_mismatch", map[string]any{
			"run_id":        run.ID,
			"file_name":     up.FileName,
			"declared_type": up.DeclaredType,
			"detected_type": res.DetectedType,
		})
	}
	m := Minutes{
		RunID:        run.ID,
		FileName:     up.FileName,
		SourceKind:   res.Kind,
		DetectedType: res.DetectedType,
	}
	if err != nil {
		return m, err
	}

	text, err := Fill(res.Text)
	if err != nil {
		return m, err
	}
	m.Transcript = res.Text
	m.Text = text
	run.TranscriptChars = utf8.RuneCountInString(res.Text)
	return m, nil
}

func (s *Service) archive(ctx context.Context, doc export.Document, run *Run) {
	if s.Archive == nil {
		return
	}
	key := path.Join("runs", run.ID, doc.FileName)
	body := io.NewSectionReader(doc.Body, 0, doc.Size())
	if _, err := s.Archive.Save(ctx, key, doc.ContentType, body); err != nil {
		telemetry.Error("minutes.archive.failed", map[string]any{
			"run_id": run.ID,
			"key":    key,
			"error":  err,
		})
		return
	}
	run.ArchiveKey = key
}

func (s *Service) startRun(action Action, up extract.Upload) Run {
	return Run{
		ID:           s.newID(),
		Action:       action,
		FileName:     up.FileName,
		DeclaredType: up.DeclaredType,
		SourceSHA256: util.SHA256Hex(up.Data),
		SourceBytes:  int64(len(up.Data)),
		CreatedAt:    s.now(),
	}
}

func (s *Service) finishRun(ctx context.Context, run *Run, err error) {
	run.Duration = s.now().Sub(run.CreatedAt)
	run.Status, run.ErrorCode = classify(err)

	metrics.ObserveRun(string(run.Action), run.Status, run.Duration)
	fields := map[string]any{
		"run_id":           run.ID,
		"action":           string(run.Action),
		"status":           run.Status,
		"file_name":        run.FileName,
		"detected_type":    run.DetectedType,
		"source_bytes":     run.SourceBytes,
		"transcript_chars": run.TranscriptChars,
		"output_bytes":     run.OutputBytes,
		"duration_ms":      float64(run.Duration.Microseconds()) / 1000.0,
	}
	if err != nil {
		fields["error"] = err
		fields["error_code"] = run.ErrorCode
	}
	if run.Status == StatusFailed {
		telemetry.Error("minutes.run", fields)
	} else {
		telemetry.Info("minutes.run", fields)
	}

	if s.Repo == nil {
		return
	}
	// The audit write must land even when the client has gone away.
	if rerr := s.Repo.Create(context.WithoutCancel(ctx), *run); rerr != nil {
		telemetry.Error("minutes.run.persist_failed", map[string]any{
			"run_id": run.ID,
			"error":  rerr,
		})
	}
}

// classify maps a pipeline error onto a run status and error code.
func classify(err error) (string, string) {
	switch {
	case err == nil:
		return StatusOK, ""
	case IsAbsent(err):
		return StatusAbsent, "extraction_failed"
	case errors.Is(err, extract.ErrFormatMismatch):
		return StatusRejected, "format_mismatch"
	case errors.Is(err, export.ErrUnknownFormat):
		return StatusRejected, "validation_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusFailed, "timeout"
	default:
		return StatusFailed, "internal"
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Package runner turns transcript files on disk into Minutes of Meeting files.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"minutes-backend/internal/export"
	"minutes-backend/internal/extract"
	"minutes-backend/internal/minutes"
	"minutes-backend/internal/shared/telemetry"
	"minutes-backend/internal/shared/util"
)

// FormatText writes the filled template as plain text.
const FormatText = "txt"

var errNoFormats = errors.New("at least one output format is required")

// Runner writes one set of outputs per transcript file.
type Runner struct {
	Svc          *minutes.Service
	OutDir       string
	Formats      []string
	SourceFormat extract.Kind
	// PerFileDir places outputs under OutDir/<stem>_<ext>/ so that
	// several transcripts can share one OutDir.
	PerFileDir bool
}

// ParseFormats accepts a comma-separated list of docx, pdf and txt.
func ParseFormats(raw string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if p != FormatText {
			f, err := export.ParseFormat(p)
			if err != nil {
				return nil, err
			}
			p = string(f)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, errNoFormats
	}
	return out, nil
}

// Process matches the watcher's handler signature.
func (r *Runner) Process(ctx context.Context, path string) error {
	_, err := r.Generate(ctx, path)
	return err
}

// Generate reads path and writes each configured format. It returns the written paths.
func (r *Runner) Generate(ctx context.Context, path string) ([]string, error) {
	if len(r.Formats) == 0 {
		return nil, errNoFormats
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	up := extract.Upload{
		FileName:     filepath.Base(path),
		DeclaredType: mime.TypeByExtension(filepath.Ext(path)),
		Data:         data,
		Format:       r.SourceFormat,
	}

	outDir := r.OutDir
	if outDir == "" {
		outDir = "."
	}
	if r.PerFileDir {
		base, err := util.FileStem(up.FileName)
		if err != nil {
			return nil, fmt.Errorf("output dir for %q: %w", up.FileName, err)
		}
		// notes.txt and notes.pdf must not share a directory.
		if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(up.FileName), ".")); ext != "" {
			base += "_" + ext
		}
		outDir = filepath.Join(outDir, base)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, format := range r.Formats {
		target, err := r.render(ctx, up, format, outDir)
		if err != nil {
			return written, err
		}
		written = append(written, target)
	}
	telemetry.Info("runner.generated", map[string]any{
		"source":  path,
		"outputs": written,
	})
	return written, nil
}

func (r *Runner) render(ctx context.Context, up extract.Upload, format, outDir string) (string, error) {
	if format == FormatText {
		m, err := r.Svc.Generate(ctx, up)
		if err != nil {
			return "", err
		}
		target := filepath.Join(outDir, "Minutes_of_Meeting.txt")
		return target, writeFileAtomic(target, strings.NewReader(m.Text))
	}

	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	doc, _, err := r.Svc.Export(ctx, up, f)
	if err != nil {
		return "", err
	}
	target := filepath.Join(outDir, doc.FileName)
	return target, writeFileAtomic(target, doc.Body)
}

func writeFileAtomic(target string, body io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".momgen-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(target), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(target), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(target), err)
	}
	return nil
}

package minutes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"minutes-backend/internal/export"
	"minutes-backend/internal/extract"
)

type recordingStore struct {
	mu    sync.Mutex
	saved map[string][]byte
	types map[string]string
	err   error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{saved: map[string][]byte{}, types: map[string]string{}}
}

func (s *recordingStore) Save(_ context.Context, key, contentType string, r io.Reader) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[key] = data
	s.types[key] = contentType
	return int64(len(data)), nil
}

func newTestService(store *recordingStore) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo(0)
	svc := NewService(repo, nil)
	if store != nil {
		svc.Archive = store
	}
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return start }
	svc.NewID = func() string { return "run-fixed" }
	return svc, repo
}

func textUpload(body string) extract.Upload {
	return extract.Upload{FileName: "standup.txt", DeclaredType: "text/plain", Data: []byte(body)}
}

func TestGenerateFromPlainText(t *testing.T) {
	svc, repo := newTestService(nil)

	m, err := svc.Generate(context.Background(), textUpload("We discussed Q3 budget."))
	require.NoError(t, err)
	require.Equal(t, "run-fixed", m.RunID)
	require.Equal(t, extract.KindText, m.SourceKind)
	require.Contains(t, m.Text, "-------------------\nWe discussed Q3 budget.\n\nKey Decisions:")

	run, err := repo.GetByID(context.Background(), "run-fixed")
	require.NoError(t, err)
	require.Equal(t, ActionPreview, run.Action)
	require.Equal(t, StatusOK, run.Status)
	require.Equal(t, 23, run.TranscriptChars)
	require.Len(t, run.SourceSHA256, 64)
}

func TestGenerateKeepsTranscriptStartingWithInitials(t *testing.T) {
	svc, repo := newTestService(nil)
	transcript := "BM: Good morning everyone.\nAK: We discussed Q3 budget."

	m, err := svc.Generate(context.Background(), textUpload(transcript+"\n"))
	require.NoError(t, err)
	require.Equal(t, extract.KindText, m.SourceKind)
	require.Contains(t, m.Text, "-------------------\n"+transcript+"\n\nKey Decisions:")

	run, err := repo.GetByID(context.Background(), "run-fixed")
	require.NoError(t, err)
	require.Equal(t, StatusOK, run.Status)
}

func TestGenerateUnsupportedUploadIsAbsent(t *testing.T) {
	svc, repo := newTestService(nil)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	m, err := svc.Generate(context.Background(), extract.Upload{FileName: "photo.png", DeclaredType: "image/png", Data: png})
	require.Error(t, err)
	require.True(t, IsAbsent(err))
	require.Empty(t, m.Text)

	run, err := repo.GetByID(context.Background(), "run-fixed")
	require.NoError(t, err)
	require.Equal(t, StatusAbsent, run.Status)
	require.Equal(t, "extraction_failed", run.ErrorCode)
}

func TestGenerateWhitespaceOnlyIsAbsent(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.Generate(context.Background(), textUpload(" \n\t "))
	require.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestExportBothFormatsAreNonEmpty(t *testing.T) {
	svc, _ := newTestService(nil)
	for _, f := range []export.Format{export.FormatDOCX, export.FormatPDF} {
		doc, m, err := svc.Export(context.Background(), textUpload("We discussed Q3 budget."), f)
		require.NoError(t, err)
		require.Equal(t, f.FileName(), doc.FileName)
		require.Positive(t, doc.Size())
		require.Contains(t, m.Text, "We discussed Q3 budget.")
	}
}

func TestExportArchivesDocumentAndKeepsBodyAtStart(t *testing.T) {
	store := newRecordingStore()
	svc, repo := newTestService(store)

	doc, _, err := svc.Export(context.Background(), textUpload("Ship it."), export.FormatPDF)
	require.NoError(t, err)

	body, err := io.ReadAll(doc.Body)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	key := "runs/run-fixed/Minutes_of_Meeting.pdf"
	require.Equal(t, body, store.saved[key])
	require.Equal(t, "application/pdf", store.types[key])

	run, err := repo.GetByID(context.Background(), "run-fixed")
	require.NoError(t, err)
	require.Equal(t, ActionPDF, run.Action)
	require.Equal(t, key, run.ArchiveKey)
	require.Equal(t, int64(len(body)), run.OutputBytes)
}

func TestExportArchiveFailureDoesNotFailRequest(t *testing.T) {
	store := newRecordingStore()
	store.err = errors.New("bucket unavailable")
	svc, repo := newTestService(store)

	doc, _, err := svc.Export(context.Background(), textUpload("Ship it."), export.FormatDOCX)
	require.NoError(t, err)
	require.Positive(t, doc.Size())

	run, err := repo.GetByID(context.Background(), "run-fixed")
	require.NoError(t, err)
	require.Empty(t, run.ArchiveKey)
	require.Equal(t, StatusOK, run.Status)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newTestService(nil)
	_, _, err := svc.Export(context.Background(), textUpload("x"), export.Format("odt"))
	require.ErrorIs(t, err, export.ErrUnknownFormat)
}

func TestExportFormatMismatchIsRejected(t *testing.T) {
	svc, repo := newTestService(nil)
	up := textUpload("plain words")
	up.Format = extract.KindPDF

	_, _, err := svc.Export(context.Background(), up, export.FormatDOCX)
	require.ErrorIs(t, err, extract.ErrFormatMismatch)

	run, err := repo.GetByID(context.Background(), "run-fixed")
	require.NoError(t, err)
	require.Equal(t, StatusRejected, run.Status)
}

func TestRunsClampsLimit(t *testing.T) {
	svc, _ := newTestService(nil)
	n := 0
	svc.NewID = func() string {
		n++
		return fmt.Sprintf("run-%d", n)
	}
	for i := 0; i < 60; i++ {
		_, err := svc.Generate(context.Background(), textUpload("note"))
		require.NoError(t, err)
	}

	runs, err := svc.Runs(context.Background(), 500, 0)
	require.NoError(t, err)
	require.Len(t, runs, MaxRunsLimit)

	runs, err = svc.Runs(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, runs, DefaultRunsLimit)
}

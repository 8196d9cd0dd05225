package minutes

import (
	"time"

	"minutes-backend/internal/extract"
)

// Action names what a pipeline run produced.
type Action string

const (
	ActionPreview Action = "preview"
	ActionDOCX    Action = "docx"
	ActionPDF     Action = "pdf"
)

const (
	StatusOK       = "ok"
	StatusAbsent   = "absent"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// Run is the audit record of one pipeline invocation. It never holds transcript text.
type Run struct {
	ID              string
	Action          Action
	Status          string
	FileName        string
	DeclaredType    string
	DetectedType    string
	SourceSHA256    string
	SourceBytes     int64
	TranscriptChars int
	OutputBytes     int64
	ArchiveKey      string
	ErrorCode       string
	Duration        time.Duration
	CreatedAt       time.Time
}

// Minutes is a filled Minutes of Meeting document.
type Minutes struct {
	RunID        string
	FileName     string
	Text         string
	Transcript   string
	SourceKind   extract.Kind
	DetectedType string
}

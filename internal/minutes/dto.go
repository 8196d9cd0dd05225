package minutes

import "time"

// MinutesResponse is the JSON preview of a generated document.
type MinutesResponse struct {
	RunID           string `json:"runId"`
	FileName        string `json:"fileName"`
	SourceFormat    string `json:"sourceFormat"`
	DetectedType    string `json:"detectedType"`
	TranscriptChars int    `json:"transcriptChars"`
	Minutes         string `json:"minutes"`
}

// RunResponse is the outward-facing representation of a run.
type RunResponse struct {
	RunID           string    `json:"runId"`
	Action          string    `json:"action"`
	Status          string    `json:"status"`
	FileName        string    `json:"fileName"`
	DeclaredType    string    `json:"declaredType,omitempty"`
	DetectedType    string    `json:"detectedType,omitempty"`
	SourceSHA256    string    `json:"sourceSha256"`
	SourceBytes     int64     `json:"sourceBytes"`
	TranscriptChars int       `json:"transcriptChars"`
	OutputBytes     int64     `json:"outputBytes,omitempty"`
	ArchiveKey      string    `json:"archiveKey,omitempty"`
	ErrorCode       string    `json:"errorCode,omitempty"`
	DurationMs      float64   `json:"durationMs"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toMinutesResponse(m Minutes) MinutesResponse {
	return MinutesResponse{
		RunID:           m.RunID,
		FileName:        m.FileName,
		SourceFormat:    string(m.SourceKind),
		DetectedType:    m.DetectedType,
		TranscriptChars: len([]rune(m.Transcript)),
		Minutes:         m.Text,
	}
}

func toRunResponse(run Run) RunResponse {
	return RunResponse{
		RunID:           run.ID,
		Action:          string(run.Action),
		Status:          run.Status,
		FileName:        run.FileName,
		DeclaredType:    run.DeclaredType,
		DetectedType:    run.DetectedType,
		SourceSHA256:    run.SourceSHA256,
		SourceBytes:     run.SourceBytes,
		TranscriptChars: run.TranscriptChars,
		OutputBytes:     run.OutputBytes,
		ArchiveKey:      run.ArchiveKey,
		ErrorCode:       run.ErrorCode,
		DurationMs:      float64(run.Duration.Microseconds()) / 1000.0,
		CreatedAt:       run.CreatedAt,
	}
}

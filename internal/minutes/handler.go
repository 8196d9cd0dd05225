package minutes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"minutes-backend/internal/export"
	"minutes-backend/internal/extract"
	"minutes-backend/internal/shared/server/middleware"
	"minutes-backend/internal/shared/server/respond"
)

const defaultMaxUploadSize = 10 << 20 // 10MB

// MsgExtractionFailed is shown when no transcript could be read from the upload.
const MsgExtractionFailed = "Could not extract text from the uploaded file. Please try another format."

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches minutes routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/minutes", h.preview)
	rg.POST("/minutes/:format", h.download)
	rg.GET("/runs", h.listRuns)
	rg.GET("/runs/:id", h.getRun)
}

func (h *Handler) preview(c *gin.Context) {
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	m, err := h.Svc.Generate(c.Request.Context(), up)
	h.tag(c, m)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	respond.OK(c, toMinutesResponse(m))
}

func (h *Handler) download(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "format must be docx or pdf", nil)
		return
	}
	up, ok := h.readUpload(c)
	if !ok {
		return
	}

	doc, m, err := h.Svc.Export(c.Request.Context(), up, format)
	h.tag(c, m)
	if err != nil {
		writePipelineError(c, err)
		return
	}

	respond.Attachment(c, doc.FileName, doc.ContentType, doc.Size(), doc.Body)
}

func (h *Handler) listRuns(c *gin.Context) {
	limit := DefaultRunsLimit
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	runs, err := h.Svc.Runs(c.Request.Context(), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, respond.CodeTimeout, "request canceled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list runs", nil)
		}
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toRunResponse(run))
	}
	respond.OK(c, resp)
}

func (h *Handler) getRun(c *gin.Context) {
	run, err := h.Svc.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "run not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to fetch run", nil)
		}
		return
	}
	respond.OK(c, toRunResponse(run))
}

// readUpload reads the multipart "file" field. It writes the error response itself.
func (h *Handler) readUpload(c *gin.Context) (extract.Upload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, "file exceeds the upload limit", gin.H{"maxBytes": h.MaxUploadBytes})
			return extract.Upload{}, false
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return extract.Upload{}, false
	}

	sourceFormat, err := extract.ParseKind(c.PostForm("sourceFormat"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "sourceFormat must be txt, pdf or docx", nil)
		return extract.Upload{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return extract.Upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return extract.Upload{}, false
	}

	return extract.Upload{
		FileName:     fileHeader.Filename,
		DeclaredType: fileHeader.Header.Get("Content-Type"),
		Data:         data,
		Format:       sourceFormat,
	}, true
}

func (h *Handler) tag(c *gin.Context, m Minutes) {
	middleware.SetRunID(c, m.RunID)
	if m.SourceKind != "" {
		c.Set("sourceKind", string(m.SourceKind))
	}
}

func writePipelineError(c *gin.Context, err error) {
	switch {
	case IsAbsent(err):
		respond.Error(c, http.StatusUnprocessableEntity, respond.CodeExtractionFailed, MsgExtractionFailed, nil)
	case errors.Is(err, extract.ErrFormatMismatch):
		respond.Error(c, http.StatusUnprocessableEntity, respond.CodeFormatMismatch, "selected source format does not match the file content", nil)
	case errors.Is(err, export.ErrUnknownFormat):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "format must be docx or pdf", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, respond.CodeTimeout, "request canceled", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to generate minutes", nil)
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/hallym-rehab/rehab-api/internal/program"
	"github.com/hallym-rehab/rehab-api/internal/storage"
)

// multipartMemory is the part of a multipart body kept in memory; the rest spills to disk.
const multipartMemory = 32 << 20

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service        *program.Service
	validator      *validator.Validate
	logger         *slog.Logger
	maxUploadBytes int64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithMaxUploadBytes limits the size of upload request bodies.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *program.Service, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handlers{
		service:        service,
		validator:      validator.New(),
		logger:         logger,
		maxUploadBytes: 512 << 20,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateProgram handles POST /programs requests.
func (h *Handlers) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	p, err := h.service.CreateProgram(r.Context(), program.CreateProgramInput{
		Title:       req.ProgramTitle,
		Category:    req.Category,
		Description: req.Description,
		MemberID:    req.MemberID,
	})
	if err != nil {
		var nf *program.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, nf.Message, "MEMBER_NOT_FOUND")
			return
		}
		h.logger.Error("failed to create program",
			slog.Uint64("member_id", uint64(req.MemberID)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create program", "PROGRAM_CREATION_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, newProgramResponse(p, nil))
}

// GetProgram handles GET /programs/{id} requests.
func (h *Handlers) GetProgram(w http.ResponseWriter, r *http.Request) {
	p, ok := h.findProgram(w, r)
	if !ok {
		return
	}

	videos, err := h.service.ListProgramVideos(r.Context(), p.ID)
	if err != nil {
		h.logger.Error("failed to list program videos",
			slog.Uint64("program_id", uint64(p.ID)),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get program", "PROGRAM_FETCH_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, newProgramResponse(p, videos))
}

// UploadProgramVideo handles POST /programs/{id}/videos requests.
// The multipart form carries an actName field and two "files" parts:
// the guide video first, then its JSON metadata.
func (h *Handlers) UploadProgramVideo(w http.ResponseWriter, r *http.Request) {
	p, ok := h.findProgram(w, r)
	if !ok {
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit", "UPLOAD_TOO_LARGE")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit", "UPLOAD_TOO_LARGE")
			return
		}
		h.logger.Warn("failed to parse multipart form",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid multipart body", "INVALID_MULTIPART")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := UploadVideoRequest{
		ActName: r.FormValue("actName"),
		Files:   r.MultipartForm.File["files"],
	}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}

	videoFile, err := req.Files[0].Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read video file", "INVALID_MULTIPART")
		return
	}
	defer videoFile.Close()

	jsonFile, err := req.Files[1].Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read metadata file", "INVALID_MULTIPART")
		return
	}
	defer jsonFile.Close()

	video, err := h.service.UploadVideoBundle(r.Context(), p, program.UploadInput{
		ActName:  req.ActName,
		Video:    program.File{Name: req.Files[0].Filename, Content: videoFile},
		Metadata: program.File{Name: req.Files[1].Filename, Content: jsonFile},
	})
	if err != nil {
		h.writeUploadError(w, p.ID, err)
		return
	}

	writeJSON(w, http.StatusCreated, newProgramVideoResponse(video))
}

// findProgram resolves the {id} path value. It writes the error response and
// returns false when the program cannot be found.
func (h *Handlers) findProgram(w http.ResponseWriter, r *http.Request) (*program.Program, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "program ID is required", "MISSING_PROGRAM_ID")
		return nil, false
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "program ID must be a positive integer", "INVALID_PROGRAM_ID")
		return nil, false
	}

	p, err := h.service.GetProgram(r.Context(), uint(id))
	if err != nil {
		var nf *program.NotFoundError
		if errors.As(err, &nf) {
			writeError(w, http.StatusNotFound, nf.Message, "PROGRAM_NOT_FOUND")
			return nil, false
		}
		h.logger.Error("failed to get program",
			slog.Uint64("program_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get program", "PROGRAM_FETCH_FAILED")
		return nil, false
	}
	return p, true
}

// writeUploadError maps upload failures to responses.
func (h *Handlers) writeUploadError(w http.ResponseWriter, programID uint, err error) {
	h.logger.Error("program video upload failed",
		slog.Uint64("program_id", uint64(programID)),
		slog.String("error", err.Error()),
	)

	var storageErr *storage.StorageError
	var tempErr *storage.TempFileError
	switch {
	case errors.As(err, &storageErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:  "object storage request failed",
			Code:   "STORAGE_ERROR",
			Detail: storageErr.Code,
		})
	case errors.As(err, &tempErr):
		writeError(w, http.StatusInternalServerError, "failed to buffer upload", "TEMP_FILE_FAILED")
	case errors.Is(err, program.ErrInvalidUpload):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, program.ErrPersist):
		writeError(w, http.StatusInternalServerError, "failed to record program video", "PERSIST_FAILED")
	default:
		writeError(w, http.StatusInternalServerError, "failed to upload program video", "UPLOAD_FAILED")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

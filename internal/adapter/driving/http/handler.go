// Package httphandler is the HTTP driving adapter: a thin REST surface
// over the decoder and the scan store. It carries no business logic of
// its own.
package httphandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clssupply/idscanpro/internal/aamva"
	"github.com/clssupply/idscanpro/internal/application"
	"github.com/clssupply/idscanpro/internal/domain/model"
	"github.com/clssupply/idscanpro/internal/metrics"
)

// maxImportBytes bounds the import request body.
const maxImportBytes = 32 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	svc     *application.ScanService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. Metrics
// may be nil.
func NewHandler(svc *application.ScanService, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		metrics: m,
		logger:  logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/decode", h.DecodePayload)
	mux.HandleFunc("POST /api/v1/scans", h.CreateScan)
	mux.HandleFunc("GET /api/v1/scans", h.ListScans)
	mux.HandleFunc("PATCH /api/v1/scans/{id}", h.UpdateScan)
	mux.HandleFunc("DELETE /api/v1/scans/{id}", h.DeleteScan)
	mux.HandleFunc("DELETE /api/v1/scans", h.ClearScans)
	mux.HandleFunc("GET /api/v1/scans/export", h.ExportScans)
	mux.HandleFunc("POST /api/v1/scans/import", h.ImportScans)
	mux.HandleFunc("POST /api/v1/backup", h.BackupScans)
	mux.HandleFunc("POST /api/v1/restore", h.RestoreScans)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// DecodePayload decodes a raw payload without persisting anything.
func (h *Handler) DecodePayload(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields := aamva.Decode(req.RawPayload)
	h.metrics.ObserveDecode(len(fields))

	if fields == nil {
		fields = []model.DecodedField{}
	}
	writeJSON(w, http.StatusOK, decodeResponse{Fields: fields})
}

// CreateScan decodes a raw payload and persists the result as a new scan.
func (h *Handler) CreateScan(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RawPayload == "" {
		writeError(w, http.StatusBadRequest, "raw_payload is required")
		return
	}

	fields := aamva.Decode(req.RawPayload)
	h.metrics.ObserveDecode(len(fields))

	scan, err := h.svc.Save(r.Context(), fields, req.RawPayload)
	if err != nil {
		h.logger.Error("failed to save scan", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, scan)
}

// ListScans returns scans matching the optional query filters. With no
// filters the whole collection is returned, newest-first.
func (h *Handler) ListScans(w http.ResponseWriter, r *http.Request) {
	filters, err := parseSearchFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scans, err := h.svc.Search(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to search scans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if scans == nil {
		scans = []model.Scan{}
	}
	writeJSON(w, http.StatusOK, scans)
}

// UpdateScan mutates the notes and/or tags of one scan.
func (h *Handler) UpdateScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
		if tags == nil {
			tags = []string{}
		}
	}

	scan, err := h.svc.Update(r.Context(), id, req.Notes, tags)
	if errors.Is(err, application.ErrScanNotFound) {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update scan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, scan)
}

// DeleteScan removes one scan by id. An unknown id is still a success.
func (h *Handler) DeleteScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete scan", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearScans empties the collection.
func (h *Handler) ClearScans(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAll(r.Context()); err != nil {
		h.logger.Error("failed to clear scans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportScans streams the collection as a downloadable blob.
func (h *Handler) ExportScans(w http.ResponseWriter, r *http.Request) {
	opts, err := parseExportOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	blob, err := h.svc.Export(r.Context(), opts)
	if err != nil {
		h.logger.Error("failed to export scans", "format", opts.Format, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+opts.Format.Filename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// ImportScans merges an uploaded JSON array into the collection.
func (h *Handler) ImportScans(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	result, err := h.svc.Import(r.Context(), body)
	if errors.Is(err, application.ErrInvalidImport) {
		h.logger.Warn("import rejected", "error", err)
		writeError(w, http.StatusBadRequest, "import payload must be a JSON array of scans")
		return
	}
	if err != nil {
		h.logger.Error("failed to import scans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// BackupScans copies the collection into the secondary store.
func (h *Handler) BackupScans(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Backup(r.Context()); err != nil {
		h.logger.Error("failed to back up scans", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RestoreScans replaces the collection with the latest backup.
func (h *Handler) RestoreScans(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Restore(r.Context())
	if errors.Is(err, application.ErrNoBackup) {
		writeError(w, http.StatusNotFound, "no backup available")
		return
	}
	if err != nil {
		h.logger.Error("failed to restore scans", "error", err)
		writeError(w, http.StatusInternalServerError, "restore failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats returns the storage statistics snapshot.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

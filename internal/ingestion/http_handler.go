package ingestion

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
	"github.com/ledgerline/billing-api/internal/httpx"
)

// maxUploadBytes caps the accepted multipart body.
const maxUploadBytes = 10 << 20

var allowedContentTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel":                                          true,
}

// .xls passes this gate for a friendlier error path, but excelize only decodes
// OOXML workbooks; legacy BIFF uploads are rejected by readWorkbook with the
// same InvalidFileType tag.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
}

// Handler exposes the bulk upload and template endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates the ingestion HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the ingestion endpoints on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/bulk-upload", h.bulkUpload)
	r.Get("/bulk-upload/template", h.template)
}

type uploadResponse struct {
	Message   string  `json:"message"`
	Operation Mode    `json:"operation"`
	Results   Results `json:"results"`
	Summary   Summary `json:"summary"`
}

func (h *Handler) bulkUpload(w http.ResponseWriter, r *http.Request) {
	orgID, ok := auth.OrgIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized", "tenant scope missing")
		return
	}

	mode, ok := ParseMode(strings.ToLower(r.URL.Query().Get("operation")))
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, TagInvalidOperation, "operation must be 'create', 'update', or 'upsert'")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, TagNoFileProvided, "please upload a spreadsheet file (.xlsx or .xls)")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, TagNoFileProvided, "please upload a spreadsheet file (.xlsx or .xls)")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] && !allowedContentTypes[header.Header.Get("Content-Type")] {
		httpx.WriteError(w, http.StatusBadRequest, TagInvalidFileType, "only spreadsheet files (.xlsx, .xls) are allowed")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, TagNoFileProvided, "failed to read uploaded file")
		return
	}

	report, err := h.service.Process(r.Context(), Request{
		OrgID:    orgID,
		Mode:     mode,
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		var batchErr *BatchError
		if errors.As(err, &batchErr) {
			httpx.WriteError(w, http.StatusBadRequest, batchErr.Tag, batchErr.Message)
			return
		}
		h.logger.Error("bulk upload failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "BulkUploadFailed", "failed to process bulk upload")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, uploadResponse{
		Message:   "Bulk upload completed",
		Operation: report.Operation,
		Results:   report.Results,
		Summary:   report.Summary,
	})
}

func (h *Handler) template(w http.ResponseWriter, r *http.Request) {
	buf, err := BuildTemplate()
	if err != nil {
		h.logger.Error("template generation failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "TemplateDownloadFailed", "failed to generate template file")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", TemplateFileName))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

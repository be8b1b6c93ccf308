package ingestion

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/auth"
)

func newTestRouter(products *stubProducts) http.Handler {
	handler := NewHandler(newTestService(products), zap.NewNop())
	r := chi.NewRouter()
	handler.Routes(r)
	return r
}

func multipartUpload(t *testing.T, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.ContextWithIdentity(req.Context(), uuid.New(), uuid.New()))
}

func TestBulkUploadEndToEnd(t *testing.T) {
	router := newTestRouter(newStubProducts())
	data := buildWorkbook(t, [][]any{
		{"Name", "SKU", "Selling Price"},
		{"Soap", "ABC-1", 25},
		{"Brush", "ABC-2", 40},
	})
	body, contentType := multipartUpload(t, "products.xlsx", data)

	req := authedRequest(http.MethodPost, "/bulk-upload?operation=create", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message   string  `json:"message"`
		Operation string  `json:"operation"`
		Summary   Summary `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Message != "Bulk upload completed" || resp.Operation != "create" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Summary.Total != 2 || resp.Summary.Processed != 2 {
		t.Errorf("summary = %+v, want 2/2", resp.Summary)
	}
}

func TestBulkUploadInvalidOperation(t *testing.T) {
	router := newTestRouter(newStubProducts())
	req := authedRequest(http.MethodPost, "/bulk-upload?operation=merge", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(TagInvalidOperation)) {
		t.Errorf("body %s missing %s tag", rec.Body.String(), TagInvalidOperation)
	}
}

func TestBulkUploadMissingFile(t *testing.T) {
	router := newTestRouter(newStubProducts())
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("note", "no file here")
	_ = w.Close()

	req := authedRequest(http.MethodPost, "/bulk-upload?operation=create", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(TagNoFileProvided)) {
		t.Errorf("body %s missing %s tag", rec.Body.String(), TagNoFileProvided)
	}
}

func TestBulkUploadRejectsWrongExtension(t *testing.T) {
	router := newTestRouter(newStubProducts())
	body, contentType := multipartUpload(t, "products.csv", []byte("Name\nSoap"))

	req := authedRequest(http.MethodPost, "/bulk-upload?operation=create", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(TagInvalidFileType)) {
		t.Errorf("body %s missing %s tag", rec.Body.String(), TagInvalidFileType)
	}
}

func TestBulkUploadLegacyXLSRejectedAtDecode(t *testing.T) {
	// A .xls name clears the extension gate, but the decoder only handles
	// OOXML workbooks, so the upload still ends as InvalidFileType.
	router := newTestRouter(newStubProducts())
	body, contentType := multipartUpload(t, "products.xls", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})

	req := authedRequest(http.MethodPost, "/bulk-upload?operation=create", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(TagInvalidFileType)) {
		t.Errorf("body %s missing %s tag", rec.Body.String(), TagInvalidFileType)
	}
}

func TestBulkUploadUnauthenticated(t *testing.T) {
	router := newTestRouter(newStubProducts())
	req := httptest.NewRequest(http.MethodPost, "/bulk-upload?operation=create", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTemplateDownload(t *testing.T) {
	router := newTestRouter(newStubProducts())
	req := authedRequest(http.MethodGet, "/bulk-upload/template", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("template body is empty")
	}
}

package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/rendimientos-admin/internal/application/batch"
	domain "github.com/mohammadpnp/rendimientos-admin/internal/domain/batch"
	httpecho "github.com/mohammadpnp/rendimientos-admin/internal/interfaces/http/echo"
)

type fakeImporter struct {
	result app.Result
	err    error
	gotIn  app.Input
}

func (f *fakeImporter) Execute(ctx context.Context, in app.Input) (app.Result, error) {
	f.gotIn = in
	return f.result, f.err
}

type fakeGetRun struct {
	out app.RunOutput
	err error
}

func (f *fakeGetRun) Execute(ctx context.Context, in app.GetRunInput) (app.RunOutput, error) {
	return f.out, f.err
}

type fakeListRuns struct {
	out   []app.RunOutput
	err   error
	gotIn app.ListRunsInput
}

func (f *fakeListRuns) Execute(ctx context.Context, in app.ListRunsInput) ([]app.RunOutput, error) {
	f.gotIn = in
	return f.out, f.err
}

func multipartRequest(t *testing.T, target, field, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func newImportServer(importer app.Importer, cfg httpecho.ImportHandlerConfig) *echo.Echo {
	e := echo.New()
	if cfg.Importers == nil {
		cfg.Importers = map[domain.Entity]app.Importer{domain.EntityUsers: importer}
	}
	httpecho.RegisterRoutes(e, httpecho.NewImportHandler(cfg), nil, nil)
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	return got
}

func TestImportHandlerSuccess(t *testing.T) {
	t.Parallel()

	importer := &fakeImporter{result: app.Result{
		BatchID: "batch-1",
		Summary: domain.Summary{Entity: domain.EntityUsers, TotalRows: 2, CreatedCount: 1, SkippedCount: 1,
			Errors: []domain.RowError{{Row: 3, Kind: domain.ErrorKindDuplicate, Message: "already exists"}}},
	}}
	e := newImportServer(importer, httpecho.ImportHandlerConfig{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/api/v1/imports/users", "file", "users.csv", []byte("email,password\n")))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if importer.gotIn.FileName != "users.csv" || string(importer.gotIn.Data) != "email,password\n" {
		t.Fatalf("unexpected input: %+v", importer.gotIn)
	}

	data, ok := decode(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
	if data["batch_id"] != "batch-1" {
		t.Fatalf("unexpected batch_id: %#v", data["batch_id"])
	}
	summary := data["summary"].(map[string]any)
	if summary["created_count"] != float64(1) {
		t.Fatalf("unexpected created_count: %#v", summary["created_count"])
	}
	messages := data["messages"].([]any)
	if len(messages) != 1 || messages[0] != "row 3: already exists" {
		t.Fatalf("unexpected messages: %#v", messages)
	}
}

func TestImportHandlerUnknownEntity(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImporter{}, httpecho.ImportHandlerConfig{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/api/v1/imports/invoices", "file", "x.csv", []byte("a\n")))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestImportHandlerMissingFile(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImporter{}, httpecho.ImportHandlerConfig{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/api/v1/imports/users", "upload", "x.csv", []byte("a\n")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImportHandlerFileTooLarge(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeImporter{}, httpecho.ImportHandlerConfig{MaxUpload: 8})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/api/v1/imports/users", "file", "x.csv", bytes.Repeat([]byte("a"), 64)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestImportHandlerErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"parse error", &domain.ParseError{MissingColumns: []string{"password"}}, http.StatusBadRequest, "invalid_file"},
		{"no valid records", domain.ErrNoValidRecords, http.StatusUnprocessableEntity, "no_valid_records"},
		{"directory down", domain.ErrDirectoryUnavailable, http.StatusInternalServerError, "directory_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newImportServer(&fakeImporter{err: tc.err}, httpecho.ImportHandlerConfig{})
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, multipartRequest(t, "/api/v1/imports/users", "file", "users.csv", []byte("email\n")))

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			errBody, ok := decode(t, rec)["error"].(map[string]any)
			if !ok || errBody["code"] != tc.body {
				t.Fatalf("unexpected error body: %s", rec.Body.String())
			}
		})
	}
}

func TestImportHandlerNoValidRecordsKeepsSummary(t *testing.T) {
	t.Parallel()

	importer := &fakeImporter{
		err:    domain.ErrNoValidRecords,
		result: app.Result{Summary: domain.Summary{RejectedCount: 2}},
	}
	e := newImportServer(importer, httpecho.ImportHandlerConfig{})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/api/v1/imports/users", "file", "users.csv", []byte("email\n")))

	data, ok := decode(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected summary data: %s", rec.Body.String())
	}
	if data["summary"].(map[string]any)["rejected_count"] != float64(2) {
		t.Fatalf("unexpected summary: %#v", data["summary"])
	}
}

func TestImportHandlerRuns(t *testing.T) {
	t.Parallel()

	list := &fakeListRuns{out: []app.RunOutput{{ID: "r-1"}}}
	e := newImportServer(nil, httpecho.ImportHandlerConfig{
		Importers: map[domain.Entity]app.Importer{},
		GetRun:    &fakeGetRun{err: app.ErrRunNotFound},
		ListRuns:  list,
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports/runs?entity=users&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if list.gotIn.Entity != "users" || list.gotIn.Limit != 5 {
		t.Fatalf("unexpected list input: %+v", list.gotIn)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports/runs?limit=ten", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports/runs/0b6f1d7e-3c55-4f0e-9a53-7f1b4c2d9e10", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

package comparison

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"court-compare/core/reconcile"
	"court-compare/feature/export"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	svc, _, _ := setupService(t, reconcile.Options{})
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func uploadRequest(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/comparison/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(method, path, sessionID string, payload any) *http.Request {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleUpload(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(uploadRequest(t, "week1.csv", oldCSV))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "week1.csv", decode(t, resp)["name"])

	resp, err = app.Test(uploadRequest(t, "week1.pdf", "x"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/comparison/uploads", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/comparison/uploads", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"week1.csv"}, decode(t, resp)["files"])
}

func TestHandleCompare(t *testing.T) {
	app, svc := setupTestApp(t)
	stage(t, svc, "old.csv", oldCSV)
	stage(t, svc, "new.csv", newCSV)

	t.Run("GeneratesSession", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/comparison/compare", "", CompareRequest{Old: "old.csv", New: "new.csv"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		id := resp.Header.Get(SessionHeader)
		_, err = uuid.Parse(id)
		assert.NoError(t, err)

		body := decode(t, resp)
		assert.Equal(t, id, body["session_id"])
		assert.Equal(t, map[string]any{"added": 1.0, "removed": 1.0, "updated": 1.0}, body["summary"])
		added := body["added"].([]any)
		assert.Equal(t, "Doe", added[0].(map[string]any)["name"])
	})

	t.Run("ResultsForSession", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/comparison/compare", "abc", CompareRequest{Old: "old.csv", New: "new.csv"}))
		require.NoError(t, err)
		assert.Equal(t, "abc", resp.Header.Get(SessionHeader))

		resp, err = app.Test(jsonRequest("GET", "/comparison/results", "abc", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "abc", decode(t, resp)["session_id"])

		resp, err = app.Test(jsonRequest("GET", "/comparison/results", "other", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name   string
			req    CompareRequest
			status int
		}{
			{"MissingName", CompareRequest{Old: "old.csv"}, fiber.StatusBadRequest},
			{"NotStaged", CompareRequest{Old: "old.csv", New: "nope.csv"}, fiber.StatusNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, err := app.Test(jsonRequest("POST", "/comparison/compare", "s", tt.req))
				require.NoError(t, err)
				assert.Equal(t, tt.status, resp.StatusCode)
				assert.NotEmpty(t, decode(t, resp)["error"])
			})
		}

		req := httptest.NewRequest("POST", "/comparison/compare", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleCompareInline(t *testing.T) {
	app, _ := setupTestApp(t)

	payload := map[string]any{
		"old": map[string]any{
			"columns": []string{"name", "dob", "case", "dates"},
			"rows":    [][]any{{"Smith", "1990-01-01", "C100", "2024-01-10"}},
		},
		"new": map[string]any{
			"columns": []string{"name", "dob", "case", "dates"},
			"rows":    [][]any{},
		},
	}

	resp, err := app.Test(jsonRequest("POST", "/comparison/compare/inline", "s1", payload))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Len(t, body["removed"], 1)
	warnings := body["warnings"].([]any)
	assert.Equal(t, "empty_input", warnings[0].(map[string]any)["kind"])

	narrow := map[string]any{
		"old": map[string]any{"columns": []string{"name"}, "rows": [][]any{{"Smith"}}},
		"new": map[string]any{"columns": []string{"name"}, "rows": [][]any{}},
	}
	resp, err = app.Test(jsonRequest("POST", "/comparison/compare/inline", "s1", narrow))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleExport(t *testing.T) {
	app, svc := setupTestApp(t)
	stage(t, svc, "old.csv", oldCSV)
	stage(t, svc, "new.csv", newCSV)

	resp, err := app.Test(jsonRequest("GET", "/comparison/export", "s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	_, err = app.Test(jsonRequest("POST", "/comparison/compare", "s1", CompareRequest{Old: "old.csv", New: "new.csv"}))
	require.NoError(t, err)

	resp, err = app.Test(jsonRequest("GET", "/comparison/export?stage=true", "s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), export.ResultsFileName)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	names, err := svc.staging.List(t.Context())
	require.NoError(t, err)
	assert.Contains(t, names, export.ResultsFileName)
}

func TestHandleClear(t *testing.T) {
	app, svc := setupTestApp(t)
	stage(t, svc, "old.csv", oldCSV)
	stage(t, svc, "new.csv", newCSV)
	_, err := app.Test(jsonRequest("POST", "/comparison/compare", "s1", CompareRequest{Old: "old.csv", New: "new.csv"}))
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest("DELETE", "/comparison/session", "s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.0, decode(t, resp)["files"])

	resp, err = app.Test(jsonRequest("GET", "/comparison/results", "s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	_, store, sessions := setupService(t, reconcile.Options{})
	feature := NewFeature(store, sessions, reconcile.Options{}, nil)

	assert.Equal(t, "comparison", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}

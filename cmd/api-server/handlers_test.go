package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reclutador/staffing-api/internal/storage"
	"github.com/reclutador/staffing-api/internal/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication() *application {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &application{
		uploader: uploader.New(logger, storage.NewMemory(), "test"),
		logger:   logger,
	}
}

func TestHandleHealth(t *testing.T) {
	app := newTestApplication()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestHandleStatus(t *testing.T) {
	app := newTestApplication()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
}

func TestHandleCreateCandidateValidation(t *testing.T) {
	app := newTestApplication()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("nationalId", "12345678"))
	// lastName1, lastName2 and firstNames deliberately missing
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/candidates", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		FieldErrors map[string]string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.FieldErrors, "lastName1")
	assert.Contains(t, body.FieldErrors, "lastName2")
	assert.Contains(t, body.FieldErrors, "firstNames")
	assert.NotContains(t, body.FieldErrors, "nationalId")
}

func TestHandleUpdateCandidateStatusValidation(t *testing.T) {
	app := newTestApplication()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	t.Run("unknown status rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/candidates/1/status",
			strings.NewReader(`{"status":"archivado"}`))
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/candidates/abc/status",
			strings.NewReader(`{"status":"aprobado"}`))
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleListCandidatesValidation(t *testing.T) {
	app := newTestApplication()
	srv := httptest.NewServer(app.routes())
	defer srv.Close()

	testCases := []struct {
		name  string
		query string
		field string
	}{
		{name: "non-numeric year", query: "?year=abc", field: "year"},
		{name: "non-numeric month", query: "?month=xyz", field: "month"},
		{name: "non-numeric group bound", query: "?groupStart=first", field: "groupStart"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/v1/candidates" + tc.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body struct {
				FieldErrors map[string]string
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body.FieldErrors, tc.field)
		})
	}
}

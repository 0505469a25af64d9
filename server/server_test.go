package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/esimov/docscan/config"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *test.Hook) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Server.Root = t.TempDir()

	logger, hook := test.NewNullLogger()
	s, err := New(cfg, logger)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }

	return s, hook
}

func pngPage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field string, files ...[]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for i, data := range files {
		fw, err := mw.CreateFormFile(field, filepath.Join("page", string(rune('a'+i))+".png"))
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s, hook := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestStaticFiles(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.root, "index.html"), []byte("<html>scan</html>"), 0o644))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scan")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.wasm", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportZip(t *testing.T) {
	s, _ := newTestServer(t)
	body, contentType := multipartBody(t, pagesField, pngPage(t, 20, 10), pngPage(t, 10, 20))

	req := httptest.NewRequest(http.MethodPost, "/api/export/zip", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="scans_2026-10-19.zip"`, rec.Header().Get("Content-Disposition"))

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "scan_001.jpg", zr.File[0].Name)
	assert.Equal(t, "scan_002.jpg", zr.File[1].Name)
}

func TestExportPDF(t *testing.T) {
	s, _ := newTestServer(t)
	body, contentType := multipartBody(t, pagesField, pngPage(t, 30, 40))

	req := httptest.NewRequest(http.MethodPost, "/api/export/pdf", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="scan_2026-10-19.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestExportRejectsBadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		body        *bytes.Buffer
		contentType string
		want        int
	}{
		{
			name:        "not multipart",
			path:        "/api/export/zip",
			body:        bytes.NewBufferString("{}"),
			contentType: "application/json",
			want:        http.StatusBadRequest,
		},
		{
			name: "no pages",
			path: "/api/export/zip",
			want: http.StatusBadRequest,
		},
		{
			name: "not an image",
			path: "/api/export/pdf",
			want: http.StatusBadRequest,
		},
		{
			name: "unknown format",
			path: "/api/export/tiff",
			want: http.StatusMethodNotAllowed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := tt.body, tt.contentType
			if body == nil {
				var files [][]byte
				if tt.name == "not an image" {
					files = append(files, []byte("definitely not a png"))
				}
				body, contentType = multipartBody(t, pagesField, files...)
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestReload(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, int32(95), s.quality.Load())
	assert.Equal(t, int64(64<<20), s.maxUpload.Load())

	cfg := config.Defaults()
	cfg.Export.Quality = 70
	cfg.Server.MaxUpload = 8
	cfg.Logging.Debug = true
	s.Reload(cfg)

	assert.Equal(t, int32(70), s.quality.Load())
	assert.Equal(t, int64(8<<20), s.maxUpload.Load())
	assert.Equal(t, logrus.DebugLevel, s.logger.GetLevel())
}

func TestSettings(t *testing.T) {
	s, _ := newTestServer(t)

	get := func() settings {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got settings
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		return got
	}

	got := get()
	assert.Equal(t, 100, got.Contrast)
	assert.Equal(t, 2.0, got.ContinuousInterval)
	assert.Equal(t, 95, got.Quality)
	assert.True(t, got.GlareReduction)

	cfg := config.Defaults()
	cfg.Enhance.Brightness = 20
	cfg.Burst.Interval = 4.5
	cfg.Export.Quality = 80
	s.Reload(cfg)

	got = get()
	assert.Equal(t, 20, got.Brightness)
	assert.Equal(t, 4.5, got.ContinuousInterval)
	assert.Equal(t, 80, got.Quality)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"

	"github.com/esimov/docscan/config"
	"github.com/esimov/docscan/export"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// pagesField is the multipart field holding the page images.
const pagesField = "pages"

// settings holds the initial state of the scanner page controls.
// The keys are the ids of the page elements they set.
type settings struct {
	Brightness         int     `json:"brightness"`
	Contrast           int     `json:"contrast"`
	Sharpness          int     `json:"sharpness"`
	GlareReduction     bool    `json:"glareReduction"`
	Grayscale          bool    `json:"grayscale"`
	AutoEdge           bool    `json:"autoEdge"`
	ContinuousInterval float64 `json:"continuousInterval"`
	Quality            int     `json:"quality"`
}

func newSettings(cfg *config.Config) *settings {
	return &settings{
		Brightness:         cfg.Enhance.Brightness,
		Contrast:           cfg.Enhance.Contrast,
		Sharpness:          cfg.Enhance.Sharpness,
		GlareReduction:     cfg.Enhance.GlareReduction,
		Grayscale:          cfg.Enhance.Grayscale,
		AutoEdge:           cfg.Enhance.AutoEdge,
		ContinuousInterval: cfg.BurstInterval().Seconds(),
		Quality:            cfg.Export.Quality,
	}
}

// handleSettings reports the configured defaults of the scanner controls.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(s.settings.Load()); err != nil {
		s.logger.WithError(err).Error("cannot encode settings")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "OK")
}

// handleExport packs the uploaded page images into a zip archive or a PDF document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]

	maxUpload := s.maxUpload.Load()
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	pages, err := decodePages(r.MultipartForm.File[pagesField])
	if err != nil {
		s.logger.WithError(err).Warn("rejected export request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quality := int(s.quality.Load())
	var (
		buf         bytes.Buffer
		contentType string
		filename    string
	)
	switch format {
	case "zip":
		contentType, filename = "application/zip", export.ArchiveName(s.now())
		err = export.Zip(r.Context(), &buf, pages, quality)
	case "pdf":
		contentType, filename = "application/pdf", export.PDFName(s.now())
		err = export.PDF(r.Context(), &buf, pages, quality)
	}
	if err != nil {
		s.logger.WithError(err).WithField("format", format).Error("export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"format": format,
		"pages":  len(pages),
		"bytes":  buf.Len(),
	}).Info("exported pages")

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func decodePages(files []*multipart.FileHeader) ([]image.Image, error) {
	if len(files) == 0 {
		return nil, errors.New("no pages uploaded")
	}
	pages := make([]image.Image, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", fh.Filename, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot decode %s: %w", fh.Filename, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

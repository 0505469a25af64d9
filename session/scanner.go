package session

import (
	"fmt"
	"image"
	"sync"

	"github.com/esimov/docscan/filter"
	"github.com/esimov/docscan/geometry"
	"github.com/sirupsen/logrus"
)

// Scanner turns raw camera frames into collection pages.
type Scanner struct {
	mu     sync.RWMutex
	opts   filter.Options
	pages  *Collection
	logger logrus.FieldLogger
}

// NewScanner creates a scanner adding its pages to the collection.
func NewScanner(pages *Collection, opts filter.Options, logger logrus.FieldLogger) *Scanner {
	if logger == nil {
		logger = pages.logger
	}
	return &Scanner{opts: opts, pages: pages, logger: logger}
}

// Options returns the current enhancement settings.
func (s *Scanner) Options() filter.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.opts
}

// SetOptions replaces the enhancement settings used by the following captures.
func (s *Scanner) SetOptions(opts filter.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts = opts
}

// Process applies the capture pipeline to the frame without storing it.
// The frame buffer is reused, so it must not be read afterwards.
func (s *Scanner) Process(frame *image.NRGBA) (*image.NRGBA, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, fmt.Errorf("empty frame")
	}
	opts := s.Options()

	img := filter.Enhance(frame, opts)
	if opts.AutoEdge {
		img = geometry.PerspectiveCrop(img)
	}
	return img, nil
}

// Capture processes the frame and appends the result to the collection.
func (s *Scanner) Capture(frame *image.NRGBA) (Page, error) {
	img, err := s.Process(frame)
	if err != nil {
		return Page{}, err
	}
	p := s.pages.Add(img)

	s.logger.WithFields(logrus.Fields{
		"id":    p.ID,
		"pages": s.pages.Len(),
	}).Info("page captured")

	return p, nil
}

// Pages returns the collection the scanner feeds.
func (s *Scanner) Pages() *Collection {
	return s.pages
}

// Package session holds the state of a scanning session: the captured pages,
// the page editor and the continuous capture mode.
package session

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNoSuchPage is returned when a page index is out of range.
var ErrNoSuchPage = errors.New("no such page")

// Page is a single scanned document page.
type Page struct {
	ID         uuid.UUID
	Image      *image.NRGBA
	CapturedAt time.Time
}

// Collection is the ordered list of scanned pages.
// It is safe for concurrent use, since the continuous capture adds pages
// from its own goroutine.
type Collection struct {
	mu     sync.RWMutex
	pages  []Page
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewCollection creates an empty collection. A nil logger discards the log output.
func NewCollection(logger logrus.FieldLogger) *Collection {
	if logger == nil {
		logger = nopLogger()
	}
	return &Collection{logger: logger, now: time.Now}
}

func nopLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// Add appends a new page and returns it.
func (c *Collection) Add(img *image.NRGBA) Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := Page{ID: uuid.New(), Image: img, CapturedAt: c.now()}
	c.pages = append(c.pages, p)

	c.logger.WithFields(logrus.Fields{
		"id":     p.ID,
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
		"count":  len(c.pages),
	}).Debug("page added")

	return p
}

// At returns the page found at index i.
func (c *Collection) At(i int) (Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.pages) {
		return Page{}, fmt.Errorf("%w: %d", ErrNoSuchPage, i)
	}
	return c.pages[i], nil
}

// Replace swaps the image of the page found at index i, keeping its identity.
func (c *Collection) Replace(i int, img *image.NRGBA) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.pages) {
		return fmt.Errorf("%w: %d", ErrNoSuchPage, i)
	}
	c.pages[i].Image = img
	c.logger.WithField("id", c.pages[i].ID).Debug("page replaced")

	return nil
}

// Remove deletes the page found at index i. The following pages shift down.
func (c *Collection) Remove(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.pages) {
		return fmt.Errorf("%w: %d", ErrNoSuchPage, i)
	}
	id := c.pages[i].ID
	c.pages = append(c.pages[:i], c.pages[i+1:]...)
	c.logger.WithFields(logrus.Fields{"id": id, "count": len(c.pages)}).Debug("page removed")

	return nil
}

// Clear removes every page.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pages = nil
	c.logger.Debug("collection cleared")
}

// Len returns the number of pages.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.pages)
}

// Empty reports whether the collection holds no page. The export and
// clear actions are only available on a non empty collection.
func (c *Collection) Empty() bool {
	return c.Len() == 0
}

// Pages returns a snapshot of the page list.
func (c *Collection) Pages() []Page {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pages := make([]Page, len(c.pages))
	copy(pages, c.pages)
	return pages
}

// Images returns the page images in order.
func (c *Collection) Images() []image.Image {
	pages := c.Pages()
	images := make([]image.Image, len(pages))
	for i, p := range pages {
		images[i] = p.Image
	}
	return images
}

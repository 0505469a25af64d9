//go:build js && wasm

package scanner

import (
	"bytes"
	"time"

	"github.com/esimov/docscan/export"
	"github.com/esimov/docscan/pixels"
)

type format int

const (
	formatZip format = iota
	formatPDF
)

// exportPages packs the scanned pages and hands the result to the browser as a download.
func (c *Canvas) exportPages(f format) {
	var (
		buf  bytes.Buffer
		err  error
		name string
		mime string
		msg  string
	)
	pages := c.scanner.Pages().Images()
	quality := int(c.quality.Load())
	now := time.Now()

	switch f {
	case formatZip:
		err = export.Zip(c.ctx, &buf, pages, quality)
		name, mime, msg = export.ArchiveName(now), "application/zip", "💾 Saved all scans!"
	case formatPDF:
		err = export.PDF(c.ctx, &buf, pages, quality)
		name, mime, msg = export.PDFName(now), "application/pdf", "📄 PDF exported"
	}
	if err != nil {
		c.Log(err.Error())
		c.showStatus("Export failed", statusError)
		return
	}
	c.download(buf.Bytes(), name, mime)
	c.showStatus(msg, statusSuccess)
}

// download triggers the browser download of the data under the given file name.
func (c *Canvas) download(data []byte, name, mime string) {
	blob := c.window.Get("Blob").New(
		[]any{pixels.ToUint8Array(data)},
		map[string]any{"type": mime},
	)
	url := c.window.Get("URL").Call("createObjectURL", blob)

	a := c.doc.Call("createElement", "a")
	a.Set("href", url)
	a.Set("download", name)
	c.body.Call("appendChild", a)
	a.Call("click")
	c.body.Call("removeChild", a)

	c.window.Get("URL").Call("revokeObjectURL", url)
}

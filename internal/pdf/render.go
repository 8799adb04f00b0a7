// Package pdf renders a single certificate page to a PNG image using the
// poppler command-line tools (pdfinfo, pdftoppm) through a stubable Runner.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ErrNoPage marks the "document has no such page" condition. Callers treat
// it as a skip, distinct from a broken document or a failed render.
var ErrNoPage = errors.New("page not present")

// ErrUnreadable marks a document the tools could not open at all.
var ErrUnreadable = errors.New("document unreadable")

var pagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

type Config struct {
	Pdfinfo  string // binary name or absolute path; if empty -> "pdfinfo"
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // rasterization DPI, default 300
	Page     int    // 1-based page to render, default 2 (the identifier page)
}

// Renderer rasterizes one page of a scanned certificate PDF.
type Renderer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewRenderer(cfg Config, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Page <= 0 {
		cfg.Page = 2
	}
	return &Renderer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// RenderPage renders the configured page of the document at path to a
// grayscale PNG. Returns ErrNoPage when the document has fewer pages, and
// ErrUnreadable when it cannot be opened.
//
// Landscape pages are cropped to their right half before returning: on a
// two-up certificate scan the serial number sits on the right panel, and the
// smaller payload both speeds up and sharpens recognition.
func (r *Renderer) RenderPage(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()

	pages, err := r.pageCount(ctx, path)
	if err != nil {
		return nil, err
	}
	if pages < r.cfg.Page {
		r.logger.Debug("page absent", "path", path, "pages", pages, "want", r.cfg.Page)
		return nil, fmt.Errorf("%w: document has %d page(s), need page %d", ErrNoPage, pages, r.cfg.Page)
	}

	tmpDir, err := os.MkdirTemp("", "gcn-render-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	pageArg := strconv.Itoa(r.cfg.Page)
	// pdftoppm -f N -l N -r DPI -gray -png <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-f", pageArg, "-l", pageArg,
		"-r", strconv.Itoa(r.cfg.DPI),
		"-gray", "-png", path, prefix)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w (%s)", r.cfg.Page, err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("render page %d: pdftoppm produced no image", r.cfg.Page)
	}

	raw, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}

	out, err := cropLandscapeRightHalf(raw)
	if err != nil {
		// Keep the uncropped render rather than failing the task.
		r.logger.Warn("crop failed, using full page", "path", path, "error", err)
		out = raw
	}

	r.logger.Debug("page rendered",
		"path", path,
		"page", r.cfg.Page,
		"bytes", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// PageCount exposes the pdfinfo page count, mainly for diagnostics.
func (r *Renderer) PageCount(ctx context.Context, path string) (int, error) {
	return r.pageCount(ctx, path)
}

func (r *Renderer) pageCount(ctx context.Context, path string) (int, error) {
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdfinfo, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v (%s)", ErrUnreadable, err, truncate(string(errb), 512))
	}
	m := pagesRe.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("%w: pdfinfo reported no page count", ErrUnreadable)
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: bad page count %q", ErrUnreadable, m[1])
	}
	return n, nil
}

// cropLandscapeRightHalf keeps only the right half of a landscape image and
// re-encodes it. Portrait images pass through untouched.
func cropLandscapeRightHalf(raw []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= b.Dy() {
		return raw, nil
	}

	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return raw, nil
	}
	crop := sub.SubImage(image.Rect(b.Min.X+b.Dx()/2, b.Min.Y, b.Max.X, b.Max.Y))

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("encode cropped png: %w", err)
	}
	return buf.Bytes(), nil
}

package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhana112/PDF-Invoice-Extractor/internal/common"
)

// Config controls the external tools used for page-text acquisition.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for OCR fallback, default 300
	Upscale       int    // raster upscale factor before OCR, default 2
	TessdataDir   string
}

// PageText is the ordered per-page text of one document. A page's entry is
// empty only if both embedded-text extraction and OCR failed or were blank.
type PageText []string

// Text joins the pages in order, newline-separated, for the extraction
// cascade.
func (p PageText) Text() string {
	return strings.Join(p, "\n")
}

// Acquirer produces per-page text for a document, reading embedded text
// first and falling back to render-and-OCR for pages that have none.
type Acquirer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewAcquirer(cfg Config, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Upscale <= 0 {
		cfg.Upscale = 2
	}
	return &Acquirer{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner; tests use this to stub the external
// tools.
func (a *Acquirer) WithRunner(r Runner) *Acquirer {
	a.runner = r
	return a
}

// Acquire returns the per-page text of the document at path. Page order is
// preserved exactly. A failed OCR fallback leaves that page empty and never
// aborts the document; only a completely unreadable document returns an
// error.
func (a *Acquirer) Acquire(ctx context.Context, path string) (PageText, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := a.runner.Run(ctx, a.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext %s: %w: %v: %s", path, common.ErrUnreadable, err, truncate(string(errb), 512))
	}

	// A form-feed \f is the page separator.
	pages := PageText(strings.Split(strings.TrimSuffix(string(out), "\f"), "\f"))
	for i, page := range pages {
		if strings.TrimSpace(page) != "" {
			pages[i] = Normalize(page)
			continue
		}
		a.logger.Info("pdftext.ocr_fallback", "path", path, "page", i+1)
		txt, ocrErr := a.ocrPage(ctx, path, i+1)
		if ocrErr != nil {
			a.logger.Warn("pdftext.page_text_unavailable", "path", path, "page", i+1, "error", ocrErr)
			pages[i] = ""
			continue
		}
		pages[i] = Normalize(txt)
		if pages[i] == "" {
			a.logger.Warn("pdftext.page_text_unavailable", "path", path, "page", i+1, "error", "ocr returned blank output")
		}
	}
	return pages, nil
}

// ocrPage renders a single page, enhances the raster, and runs tesseract on
// it.
func (a *Acquirer) ocrPage(ctx context.Context, path string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "inv-pp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			a.logger.Warn("pdftext.tmpdir_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := a.runner.Run(ctx, a.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", page), "-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", a.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	img := matches[0]
	enhanced := filepath.Join(tmpDir, "enhanced.png")
	if err := enhanceForOCR(img, enhanced, a.cfg.Upscale); err != nil {
		// OCR the raw render rather than losing the page.
		a.logger.Warn("pdftext.enhance_failed", "path", path, "page", page, "error", err)
		enhanced = img
	}

	return a.tesseract(ctx, enhanced)
}

func (a *Acquirer) tesseract(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", a.cfg.TesseractLang}
	if a.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", a.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := a.runner.Run(ctx, a.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

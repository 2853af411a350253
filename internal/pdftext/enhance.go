package pdftext

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// enhanceForOCR upscales and sharpens a rendered page image so tesseract has
// more to work with, writing the result to outPath. Grayscale plus a modest
// contrast and sharpen pass helps low-quality scans the most.
func enhanceForOCR(inPath, outPath string, upscale int) error {
	src, err := imaging.Open(inPath)
	if err != nil {
		return fmt.Errorf("open render: %w", err)
	}

	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 20)
	img = imaging.Sharpen(img, 1.0)
	if upscale > 1 {
		img = imaging.Resize(img, src.Bounds().Dx()*upscale, 0, imaging.Lanczos)
	}

	if err := imaging.Save(img, outPath); err != nil {
		return fmt.Errorf("save enhanced: %w", err)
	}
	return nil
}

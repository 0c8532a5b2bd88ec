package raster

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Config controls the MuPDF-backed rasterizer.
type Config struct {
	// Scale is the rendering scale: 1.0 renders at 72 DPI, 2.0 at 144 DPI.
	Scale float64

	// Workers bounds concurrent page rendering. Zero means 80% of CPUs.
	Workers int

	// ThumbnailWidth, when positive, also writes a downscaled thumbnail of
	// that pixel width per page.
	ThumbnailWidth int
}

// DefaultConfig returns 2x rendering with the default worker bound and no
// thumbnails.
func DefaultConfig() Config {
	return Config{Scale: 2.0}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	n := runtime.NumCPU() * 4 / 5
	if n < 1 {
		n = 1
	}
	return n
}

// FitzRasterizer implements Rasterizer with MuPDF via go-fitz. Document
// handles are not safe for concurrent use, so each worker opens its own
// handle on the source file, mirroring a per-process worker pool.
type FitzRasterizer struct {
	cfg Config
	log zerolog.Logger
}

// NewFitzRasterizer creates a rasterizer with the given configuration and
// logger.
func NewFitzRasterizer(cfg Config, log zerolog.Logger) *FitzRasterizer {
	if cfg.Scale <= 0 {
		cfg.Scale = 2.0
	}
	return &FitzRasterizer{cfg: cfg, log: log}
}

// RenderPages renders every page of the PDF to outDir/assets/page_N.png,
// bounded-concurrently, and returns the metadata sorted by page number.
func (r *FitzRasterizer) RenderPages(ctx context.Context, pdfPath, outDir string) ([]PageImage, error) {
	probe, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	numPages := probe.NumPage()
	probe.Close()

	assetsDir := filepath.Join(outDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating assets directory: %w", err)
	}

	workers := r.cfg.workers()
	r.log.Debug().Int("pages", numPages).Int("workers", workers).
		Float64("scale", r.cfg.Scale).Msg("rendering PDF pages")

	results := make([]PageImage, numPages)
	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < numPages; i++ {
		pageIndex := i
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			img, err := r.renderPage(pdfPath, pageIndex, assetsDir)
			if err != nil {
				return err
			}
			results[pageIndex] = img

			r.log.Debug().Int("page", img.PageNo).
				Int("width_px", img.WidthPx).Int("height_px", img.HeightPx).
				Msg("rendered page")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	SortByPage(results)
	return results, nil
}

// renderPage renders a single page with its own document handle.
func (r *FitzRasterizer) renderPage(pdfPath string, pageIndex int, assetsDir string) (PageImage, error) {
	pageNo := pageIndex + 1

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return PageImage{}, fmt.Errorf("page %d: opening PDF: %w", pageNo, err)
	}
	defer doc.Close()

	bound, err := doc.Bound(pageIndex)
	if err != nil {
		return PageImage{}, fmt.Errorf("page %d: reading bounds: %w", pageNo, err)
	}

	img, err := doc.ImageDPI(pageIndex, 72*r.cfg.Scale)
	if err != nil {
		return PageImage{}, fmt.Errorf("page %d: rendering: %w", pageNo, err)
	}

	filename := fmt.Sprintf("page_%d.png", pageNo)
	if err := writePNG(filepath.Join(assetsDir, filename), img); err != nil {
		return PageImage{}, fmt.Errorf("page %d: %w", pageNo, err)
	}

	result := PageImage{
		PageNo:   pageNo,
		Filename: filename,
		WidthPx:  img.Bounds().Dx(),
		HeightPx: img.Bounds().Dy(),
		WidthPt:  float64(bound.Dx()),
		HeightPt: float64(bound.Dy()),
	}

	if r.cfg.ThumbnailWidth > 0 {
		thumbName := fmt.Sprintf("page_%d_thumb.png", pageNo)
		if err := writeThumbnail(filepath.Join(assetsDir, thumbName), img, r.cfg.ThumbnailWidth); err != nil {
			return PageImage{}, fmt.Errorf("page %d: %w", pageNo, err)
		}
		result.Thumbnail = thumbName
	}

	return result, nil
}

// PageDimensions probes page sizes in points without rendering bitmaps.
func (r *FitzRasterizer) PageDimensions(pdfPath string) (map[int]Size, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer doc.Close()

	dims := make(map[int]Size, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		bound, err := doc.Bound(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: reading bounds: %w", i+1, err)
		}
		dims[i+1] = Size{Width: float64(bound.Dx()), Height: float64(bound.Dy())}
	}
	return dims, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// writeThumbnail downscales the page image to the given width, preserving
// aspect ratio.
func writeThumbnail(path string, src image.Image, width int) error {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return nil
	}
	height := width * sb.Dy() / sb.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)

	return writePNG(path, dst)
}

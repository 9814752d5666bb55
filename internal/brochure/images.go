package brochure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"listing_brochure/internal/adapters/observability"
)

const (
	maxImageSide  = 2000
	maxImageBytes = 25 << 20
	maxPixels     = 50_000_000
	jpegQuality   = 85
	qrPixels      = 512
)

// ErrImageTooLarge is returned for images whose declared dimensions exceed
// the decode budget.
var ErrImageTooLarge = errors.New("image too large")

// LoadedImage is a decoded, normalized image ready for a PDF backend.
type LoadedImage struct {
	Data   []byte
	Type   string // always JPG
	Width  int
	Height int
}

// ImageSet maps plan image sources to loaded images. A missing key means the
// image could not be loaded and is drawn as absent.
type ImageSet map[string]LoadedImage

// Fetcher retrieves raw image bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads images with a per request timeout.
type HTTPFetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	hc := f.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		observability.ObserveExternal("images", "get", 0, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("images", "get", resp.StatusCode, time.Since(start))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// ImageLoader loads plan images one at a time. A single failure is logged,
// counted and skipped; only cancellation of ctx aborts the batch.
type ImageLoader struct {
	fetcher Fetcher
}

func NewImageLoader(f Fetcher) *ImageLoader {
	return &ImageLoader{fetcher: f}
}

func (l *ImageLoader) LoadAll(ctx context.Context, srcs []string) (ImageSet, error) {
	set := make(ImageSet, len(srcs))
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := l.Load(ctx, src)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			observability.ObserveImageFailure()
			log.Warn().Err(err).Str("src", src).Msg("brochure image skipped")
			continue
		}
		set[src] = img
	}
	return set, nil
}

// Load returns one normalized image. Sources with QRPrefix are generated
// locally instead of fetched.
func (l *ImageLoader) Load(ctx context.Context, src string) (LoadedImage, error) {
	if target, ok := strings.CutPrefix(src, QRPrefix); ok {
		return QRCode(target)
	}
	raw, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return LoadedImage{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return LoadedImage{}, fmt.Errorf("decode %s: %w", src, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return LoadedImage{}, fmt.Errorf("%s: %dx%d: %w", src, cfg.Width, cfg.Height, ErrImageTooLarge)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return LoadedImage{}, fmt.Errorf("decode %s: %w", src, err)
	}
	return normalize(img)
}

// QRCode renders content as a QR code image.
func QRCode(content string) (LoadedImage, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return LoadedImage{}, fmt.Errorf("qr encode: %w", err)
	}
	code, err = barcode.Scale(code, qrPixels, qrPixels)
	if err != nil {
		return LoadedImage{}, fmt.Errorf("qr scale: %w", err)
	}
	return normalize(code)
}

// normalize scales img down to maxImageSide, flattens transparency onto white
// and re-encodes it as JPEG, the one format every backend registers.
func normalize(src image.Image) (LoadedImage, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return LoadedImage{}, errors.New("empty image")
	}
	if w > maxImageSide || h > maxImageSide {
		if w >= h {
			h = h * maxImageSide / w
			w = maxImageSide
		} else {
			w = w * maxImageSide / h
			h = maxImageSide
		}
		w, h = max(w, 1), max(h, 1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, xdraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return LoadedImage{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return LoadedImage{Data: buf.Bytes(), Type: "JPG", Width: w, Height: h}, nil
}

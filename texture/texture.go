// Package texture loads images into texture handles for scene objects.
//
// Loads are asynchronous: Load and Capture return a Future that the scene
// drains from its frame loop, so decoded textures are only ever attached to
// objects from the scene's own goroutine.
package texture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	// Decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/anthonynsimon/bild/transform"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const (
	DEFAULT_MAX_EDGE      = 1024
	DEFAULT_MAX_BYTES     = 32 << 20
	DEFAULT_MAX_PIXELS    = 8192 * 8192
	DEFAULT_FETCH_TIMEOUT = 30 * time.Second
)

var (
	// ErrSource is returned when the texture bytes cannot be read
	ErrSource = errors.New("texture: unreadable source")
	// ErrDecode is returned when the bytes are not a supported image
	ErrDecode = errors.New("texture: cannot decode image")
	// ErrTooLarge is returned when a source exceeds MaxBytes or MaxPixels
	ErrTooLarge = errors.New("texture: image too large")
)

// Texture is a decoded RGBA image ready for upload by a renderer
type Texture struct {
	ID     string
	Source string
	Image  *image.RGBA
	Hash   uint64
}

// TextureID lets a material hold the texture without importing this package
func (t *Texture) TextureID() string {
	return t.ID
}

func (t *Texture) Width() int {
	return t.Image.Rect.Dx()
}

func (t *Texture) Height() int {
	return t.Image.Rect.Dy()
}

// Loader decodes texture sources and de-duplicates identical content
type Loader struct {
	// MaxEdge bounds the longest side of a texture; larger images are down-scaled
	MaxEdge int
	// MaxBytes bounds the encoded size read from any source
	MaxBytes int64
	// MaxPixels bounds width*height, checked before the image is decoded
	MaxPixels int
	Client    *http.Client
	Logger    *zap.Logger

	mu    sync.Mutex
	cache map[uint64]*Texture
}

func NewLoader(maxEdge int, logger *zap.Logger) *Loader {
	if maxEdge <= 0 {
		maxEdge = DEFAULT_MAX_EDGE
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Loader{
		MaxEdge:   maxEdge,
		MaxBytes:  DEFAULT_MAX_BYTES,
		MaxPixels: DEFAULT_MAX_PIXELS,
		Client:    &http.Client{Timeout: DEFAULT_FETCH_TIMEOUT},
		Logger:    logger,
		cache:     make(map[uint64]*Texture),
	}
}

// Load starts decoding source in the background.
// source is a data: URL, an http(s) URL or a file path.
func (l *Loader) Load(ctx context.Context, source string) *Future {
	f := newFuture()
	go func() {
		f.resolve(l.LoadSync(ctx, source))
	}()
	return f
}

// LoadSync reads and decodes source on the calling goroutine
func (l *Loader) LoadSync(ctx context.Context, source string) (*Texture, error) {
	data, err := l.read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSource, err)
	}
	return l.Decode(data, source)
}

// Preload decodes several sources concurrently; the first failure cancels the rest
func (l *Loader) Preload(ctx context.Context, sources ...string) ([]*Texture, error) {
	textures := make([]*Texture, len(sources))
	g, ctx := errgroup.WithContext(ctx)

	for i, source := range sources {
		g.Go(func() error {
			tex, err := l.LoadSync(ctx, source)
			if err != nil {
				return err
			}
			textures[i] = tex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return textures, nil
}

// Decode turns encoded image bytes into a texture, reusing a cached one for identical bytes
func (l *Loader) Decode(data []byte, source string) (*Texture, error) {
	hash := xxhash.Sum64(data)
	if tex, ok := l.cached(hash); ok {
		l.Logger.Debug("texture cache hit", zap.String("source", shortSource(source)), zap.String("id", tex.ID))
		return tex, nil
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if l.MaxPixels > 0 && header.Width*header.Height > l.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, header.Width, header.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	tex := l.store(hash, source, l.fit(img))
	l.Logger.Debug("texture decoded",
		zap.String("source", shortSource(source)),
		zap.String("format", format),
		zap.Int("width", tex.Width()),
		zap.Int("height", tex.Height()),
	)
	return tex, nil
}

// FromImage wraps an already decoded image (e.g. a camera frame)
func (l *Loader) FromImage(img image.Image, source string) (*Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	rgba := l.fit(img)
	hash := xxhash.Sum64(rgba.Pix)
	if tex, ok := l.cached(hash); ok {
		return tex, nil
	}
	return l.store(hash, source, rgba), nil
}

// fit converts to RGBA and down-scales so the longest edge is at most MaxEdge
func (l *Loader) fit(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if longest := max(w, h); longest > l.MaxEdge {
		scale := float64(l.MaxEdge) / float64(longest)
		nw := max(1, int(float64(w)*scale))
		nh := max(1, int(float64(h)*scale))
		return transform.Resize(img, nw, nh, transform.Linear)
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func (l *Loader) cached(hash uint64) (*Texture, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tex, ok := l.cache[hash]
	return tex, ok
}

func (l *Loader) store(hash uint64, source string, rgba *image.RGBA) *Texture {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Another goroutine may have decoded the same bytes meanwhile
	if tex, ok := l.cache[hash]; ok {
		return tex
	}
	tex := &Texture{
		ID:     uuid.NewString(),
		Source: source,
		Image:  rgba,
		Hash:   hash,
	}
	l.cache[hash] = tex
	return tex
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "data:"):
		data, err := decodeDataURL(source)
		if err != nil {
			return nil, err
		}
		if l.MaxBytes > 0 && int64(len(data)) > l.MaxBytes {
			return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
		}
		return data, nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return l.readLimited(resp.Body)
	default:
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return l.readLimited(f)
	}
}

// readLimited reads r to the end, failing once more than MaxBytes arrive
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	if l.MaxBytes <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.MaxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, l.MaxBytes)
	}
	return data, nil
}

// decodeDataURL parses data:[<mediatype>][;base64],<data>
func decodeDataURL(source string) ([]byte, error) {
	header, payload, found := strings.Cut(strings.TrimPrefix(source, "data:"), ",")
	if !found {
		return nil, errors.New("malformed data URL")
	}

	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some encoders drop the padding
			return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		return data, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(unescaped), nil
}

// shortSource keeps data URLs out of the logs
func shortSource(source string) string {
	if strings.HasPrefix(source, "data:") {
		header, _, _ := strings.Cut(source, ",")
		return header
	}
	return source
}

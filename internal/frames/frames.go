package frames

import (
	"image"
	"image/color"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // WebP format support
)

const placeholderSize = 120

// supportedExtensions lists the frame file types, matched case-insensitively
var supportedExtensions = map[string]bool{
	".png":  true,
	".webp": true,
	".jpg":  true,
	".jpeg": true,
}

// Load decodes every supported image in dir, in lexicographic filename order.
// Files that fail to decode are skipped. When scale differs from 1 each frame
// is resized by that factor. Decoding problems are logged, never returned,
// so the result may be empty.
func Load(dir string, scale float64, logger *zap.Logger) []*image.NRGBA {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("Frames directory unreadable, using placeholder",
			zap.String("dir", dir),
			zap.Error(err))
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	// os.ReadDir already sorts, but the order is load-bearing
	sort.Strings(names)

	out := make([]*image.NRGBA, 0, len(names))
	for _, name := range names {
		img, err := imaging.Open(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("Skipping undecodable frame",
				zap.String("file", name),
				zap.Error(err))
			continue
		}
		out = append(out, rescale(img, scale))
	}

	logger.Info("Frames loaded",
		zap.String("dir", dir),
		zap.Int("candidates", len(names)),
		zap.Int("decoded", len(out)))

	return out
}

// rescale converts img to NRGBA at the origin, resizing it when scale != 1
func rescale(img image.Image, scale float64) *image.NRGBA {
	if scale == 1 || scale <= 0 {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Normalize pads every frame to the largest width and height of the set,
// centering the original content on a transparent canvas. Frames that
// already have the maximum size are returned unchanged.
func Normalize(frames []*image.NRGBA) []*image.NRGBA {
	if len(frames) == 0 {
		return frames
	}

	var w, h int
	for _, f := range frames {
		w = max(w, f.Bounds().Dx())
		h = max(h, f.Bounds().Dy())
	}

	out := make([]*image.NRGBA, 0, len(frames))
	for _, f := range frames {
		fw, fh := f.Bounds().Dx(), f.Bounds().Dy()
		if fw == w && fh == h {
			out = append(out, f)
			continue
		}
		canvas := imaging.New(w, h, color.NRGBA{})
		out = append(out, imaging.Paste(canvas, f, image.Pt((w-fw)/2, (h-fh)/2)))
	}
	return out
}

// Placeholder draws the fallback frame: a translucent white disc with a dark outline
func Placeholder() *image.NRGBA {
	const (
		s      = placeholderSize
		inset  = 6
		stroke = 3.0
	)
	img := imaging.New(s, s, color.NRGBA{})

	fill := color.NRGBA{R: 255, G: 255, B: 255, A: 230}
	outline := color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}

	c := float64(s) / 2
	r := float64(s-2*inset) / 2
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			switch {
			case math.Abs(d-r) <= stroke/2:
				img.SetNRGBA(x, y, outline)
			case d < r:
				img.SetNRGBA(x, y, fill)
			}
		}
	}
	return img
}

// LoadSequence loads, normalizes and wraps the frames found in dir
func LoadSequence(dir string, scale float64, logger *zap.Logger) *Sequence {
	seq := NewSequence(Normalize(Load(dir, scale, logger)))
	size := seq.Size()
	logger.Info("Frame sequence ready",
		zap.Int("frames", seq.Len()),
		zap.Int("width", size.X),
		zap.Int("height", size.Y))
	return seq
}

package source

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding

	"github.com/cwbudde/algo-vfx/fx"
	"github.com/cwbudde/algo-vfx/fx/raster"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImage reports whether path has an extension of a decodable image format.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// LoadImage decodes the image file at path into a 4-channel raster in
// domain d.
func LoadImage(path string, d raster.Domain) (*raster.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: decode %s: %w: %w", path, err, fx.ErrValidation)
	}

	r, err := raster.FromImage(img, d)
	if err != nil {
		return nil, fmt.Errorf("source: convert %s (%s): %w", path, format, err)
	}

	return r, nil
}

func checkTime(name string, t, duration int) error {
	if t < 0 || t >= duration {
		return fmt.Errorf("source: %s: frame %d outside [0,%d): %w", name, t, duration, fx.ErrValidation)
	}
	return nil
}

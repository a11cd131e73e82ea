package picture

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const CoverDefaultSize = 600

func CachePath(cacheDir, id string, size int) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%s-%d.png", id, size))
}

// ScaleAndSave decodes the picture, scales it down to size pixels wide
// keeping the aspect ratio, and saves it to path. The output format follows
// the extension of path.
func (p *Picture) ScaleAndSave(path string, size int) error {
	if p.IsURI() {
		return fmt.Errorf("picture is a uri: %w", ErrMalformed)
	}
	src, err := imaging.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return fmt.Errorf("resizing: %w", err)
	}
	width := size
	if width <= 0 || width > src.Bounds().Dx() {
		// don't upscale images
		width = src.Bounds().Dx()
	}
	if err := imaging.Save(imaging.Resize(src, width, 0, imaging.Lanczos), path); err != nil {
		return fmt.Errorf("caching %q: %w", path, err)
	}
	return nil
}

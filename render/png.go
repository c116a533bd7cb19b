package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG encodes img and writes it to path, matching the teacher's
// image/png usage in load/png.go (there for decoding, here for
// encoding the finished render).
func WritePNG(img *image.NRGBA, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("render: encode %s: %w", path, err)
	}
	return nil
}

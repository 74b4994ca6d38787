//go:build !windows && !darwin

package changewallpaperlib

import (
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// Composes one spanning image, each monitor's wallpaper is scaled to fill it
// and cropped around the centre. Monitors without a wallpaper are left white.
func combineImages(monitors []*Monitor, outFile string) error {
	if len(monitors) == 0 {
		return nil
	}

	width := 0
	height := 0

	for _, m := range monitors {
		if m.left+m.Width > width {
			width = m.left + m.Width
		}
		if m.top+m.Height > height {
			height = m.top + m.Height
		}
	}

	canvas := imaging.New(width, height, color.White)

	for _, m := range monitors {
		if m.Wallpaper == "" {
			continue
		}

		img, err := imaging.Open(m.Wallpaper, imaging.AutoOrientation(true))
		if err != nil {
			return err
		}

		tile := imaging.Fill(img, m.Width, m.Height, imaging.Center, imaging.Lanczos)
		canvas = imaging.Paste(canvas, tile, image.Pt(m.left, m.top))
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}

	err = bmp.Encode(f, canvas)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

package export

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	bannerPxW   = 1400
	bannerPxH   = 400
	bannerPxPad = 80
)

// Banner palettes.
var (
	courseBanner = [2]color.RGBA{{59, 130, 246, 255}, {139, 92, 246, 255}}
	lessonBanner = [2]color.RGBA{{242, 140, 56, 255}, {241, 90, 36, 255}}
)

var (
	boldFont     *truetype.Font
	boldFontErr  error
	boldFontOnce sync.Once
)

func titleFace(size float64) (font.Face, error) {
	boldFontOnce.Do(func() {
		boldFont, boldFontErr = truetype.Parse(gobold.TTF)
	})
	if boldFontErr != nil {
		return nil, fmt.Errorf("parsing title font: %w", boldFontErr)
	}
	return truetype.NewFace(boldFont, &truetype.Options{Size: size}), nil
}

// renderBanner draws a horizontal gradient with the title centered on it
// and returns it as PNG.
func renderBanner(title string, palette [2]color.RGBA) ([]byte, error) {
	dc := gg.NewContext(bannerPxW, bannerPxH)

	grad := gg.NewLinearGradient(0, 0, bannerPxW, 0)
	grad.AddColorStop(0, palette[0])
	grad.AddColorStop(1, palette[1])
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, bannerPxW, bannerPxH)
	dc.Fill()

	size := 72.0
	if len([]rune(title)) > 40 {
		size = 56
	}
	face, err := titleFace(size)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawStringWrapped(title, bannerPxW/2, bannerPxH/2, 0.5, 0.5, bannerPxW-2*bannerPxPad, 1.3, gg.AlignCenter)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding banner: %w", err)
	}
	return buf.Bytes(), nil
}

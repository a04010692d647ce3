// Package fonts provides the label font for raster output.
//
// The Go Regular TrueType font ships inside golang.org/x/image, so labels
// render identically on every platform without system fonts.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family used by vector output.
const FontFamily = "Go, 'Helvetica Neue', Arial, sans-serif"

var (
	parsed     *truetype.Font
	parsedErr  error
	parsedOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = truetype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// RegularTTF returns the raw TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Face returns a new Go Regular face of the given pixel size at 72 DPI, so
// one point equals one pixel. Faces keep a glyph cache and must not be shared
// between goroutines.
func Face(px float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: px, DPI: 72, Hinting: font.HintingFull}), nil
}

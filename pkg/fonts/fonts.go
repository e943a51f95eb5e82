// Package fonts provides the fonts used for raster rendering.
//
// The Go font family ships with golang.org/x/image, so rendering needs no
// font files on the host. Fonts are parsed once on first access.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	parseOnce sync.Once
	bold      *truetype.Font
	regular   *truetype.Font
	parseErr  error
)

func parse() error {
	parseOnce.Do(func() {
		if bold, parseErr = truetype.Parse(gobold.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse Go Bold: %w", parseErr)
			return
		}
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			parseErr = fmt.Errorf("parse Go Regular: %w", parseErr)
		}
	})
	return parseErr
}

// BoldFace returns a new Go Bold face at the given size in points.
// Faces cache glyphs and must not be shared between goroutines.
func BoldFace(size float64) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	return truetype.NewFace(bold, &truetype.Options{Size: size}), nil
}

// RegularFace returns a new Go Regular face at the given size in points.
func RegularFace(size float64) (font.Face, error) {
	if err := parse(); err != nil {
		return nil, err
	}
	return truetype.NewFace(regular, &truetype.Options{Size: size}), nil
}

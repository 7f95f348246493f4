package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Piece outlines on a 45x45 canvas. {F} is the body fill, {S} the stroke.
var pieceShapes = map[nchess.PieceType]string{
	nchess.Pawn: `<path d="M11 39 L34 39 L34 35 L11 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M16 35 L29 35 L26.5 20 L18.5 20 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<circle cx="22.5" cy="14" r="5.5" fill="{F}" stroke="{S}" stroke-width="1.5"/>`,
	nchess.Rook: `<path d="M9 39 L36 39 L36 35 L9 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M13 35 L14.5 17 L30.5 17 L32 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M11 17 L11 10 L15 10 L15 13 L20 13 L20 10 L25 10 L25 13 L30 13 L30 10 L34 10 L34 17 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>`,
	nchess.Knight: `<path d="M14 39 L34 39 L33 30 C33 20 30 13 22 9 L21 5 L18 9 L14 12 L9 21 L10 25 L14 24 L18 21 L21 21 C19 26 15 29 14 33 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<circle cx="16" cy="15" r="1.3" fill="{S}"/>{H}`,
	nchess.Bishop: `<path d="M10 39 L35 39 L35 35 L10 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M15 35 C13 28 15 20 22.5 11 C30 20 32 28 30 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<circle cx="22.5" cy="8.5" r="2.5" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M21 19 L25 23" fill="none" stroke="{S}" stroke-width="1.5"/>`,
	nchess.Queen: `<path d="M10 39 L35 39 L35 35 L10 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M12 35 L9 14 L16 25 L18 11 L22.5 24 L27 11 L29 25 L36 14 L33 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<circle cx="9" cy="12.5" r="2" fill="{F}" stroke="{S}" stroke-width="1.2"/>
<circle cx="18" cy="9.5" r="2" fill="{F}" stroke="{S}" stroke-width="1.2"/>
<circle cx="27" cy="9.5" r="2" fill="{F}" stroke="{S}" stroke-width="1.2"/>
<circle cx="36" cy="12.5" r="2" fill="{F}" stroke="{S}" stroke-width="1.2"/>`,
	nchess.King: `<path d="M10 39 L35 39 L35 35 L10 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M13 35 C9 26 13 19 22.5 22 C32 19 36 26 32 35 Z" fill="{F}" stroke="{S}" stroke-width="1.5"/>
<path d="M21 6 L24 6 L24 10 L28 10 L28 13 L24 13 L24 21 L21 21 L21 13 L17 13 L17 10 L21 10 Z" fill="{F}" stroke="{S}" stroke-width="1.2"/>`,
}

const unicornHorn = `<path d="M19 9.5 L25 1 L22.5 11 Z" fill="{A}" stroke="{S}" stroke-width="0.8"/>`

// pieceSVG returns a standalone SVG document for p in the given theme.
func pieceSVG(p nchess.Piece, theme Theme) (string, error) {
	shape, ok := pieceShapes[p.Type()]
	if !ok {
		return "", fmt.Errorf("no shape for piece %v", p)
	}
	fill, stroke := theme.WhiteFill, theme.WhiteStroke
	if p.Color() == nchess.Black {
		fill, stroke = theme.BlackFill, theme.BlackStroke
	}
	horn := ""
	if theme.Accent != "" {
		horn = unicornHorn
	}
	body := strings.NewReplacer("{H}", horn).Replace(shape)
	body = strings.NewReplacer("{F}", fill, "{S}", stroke, "{A}", theme.Accent).Replace(body)
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45" width="45" height="45">` + body + `</svg>`, nil
}

type pieceCacheKey struct {
	piece nchess.Piece
	theme string
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func renderPieceImage(piece nchess.Piece, theme Theme, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, theme: theme.Name, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	doc, err := pieceSVG(piece, theme)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

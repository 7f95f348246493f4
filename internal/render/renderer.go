package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"math"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/unicorn-chess/internal/rules"
)

var ErrNilBoard = errors.New("board is nil")

type Options struct {
	Theme      Theme
	Flip       bool // black at the bottom
	Highlights []Highlight
	Arrow      *Arrow
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error)
}

type boardRenderer struct {
	squareSize int
	margin     int
}

const (
	defaultSquareSize = 64
	defaultMargin     = 24
)

func NewBoardRenderer() BoardRenderer {
	return &boardRenderer{squareSize: defaultSquareSize, margin: defaultMargin}
}

// BoardSize is the pixel width and height of every rendered image.
func BoardSize() int {
	return defaultSquareSize*8 + defaultMargin*2
}

func (r *boardRenderer) RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error) {
	if board == nil {
		return nil, ErrNilBoard
	}
	if opts.Theme.Name == "" {
		opts.Theme = UnicornTheme
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := r.squareSize*8 + r.margin*2
	img := image.NewRGBA(image.Rect(0, 0, total, total))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(opts.Theme.Frame), image.Point{}, imagedraw.Src)

	g := geometry{size: r.squareSize, origin: image.Pt(r.margin, r.margin), flip: opts.Flip}
	drawSquares(img, g, opts.Theme)

	var targets []nchess.Square
	for _, h := range opts.Highlights {
		sq, err := rules.ParseSquare(h.Square)
		if err != nil {
			return nil, fmt.Errorf("highlight: %w", err)
		}
		if h.Kind == HighlightTarget {
			targets = append(targets, sq)
			continue
		}
		if clr, ok := highlightFills[h.Kind]; ok {
			drawSquareOverlay(img, g.rect(sq), clr)
		}
	}

	if err := drawPieces(img, board, g, opts.Theme); err != nil {
		return nil, err
	}
	for _, sq := range targets {
		drawTargetDot(img, g.rect(sq), opts.Theme.TargetDot)
	}
	if opts.Arrow != nil {
		from, err := rules.ParseSquare(opts.Arrow.From)
		if err != nil {
			return nil, fmt.Errorf("arrow: %w", err)
		}
		to, err := rules.ParseSquare(opts.Arrow.To)
		if err != nil {
			return nil, fmt.Errorf("arrow: %w", err)
		}
		drawArrow(img, g, from, to, hintArrowColor)
	}
	drawCoordinates(img, g, r.margin, opts.Theme.Label)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type geometry struct {
	size   int
	origin image.Point
	flip   bool
}

// cell maps a square to its column and row on screen.
func (g geometry) cell(sq nchess.Square) (col, row int) {
	col, row = int(sq.File()), 7-int(sq.Rank())
	if g.flip {
		col, row = 7-col, 7-row
	}
	return col, row
}

func (g geometry) rect(sq nchess.Square) image.Rectangle {
	col, row := g.cell(sq)
	x := g.origin.X + col*g.size
	y := g.origin.Y + row*g.size
	return image.Rect(x, y, x+g.size, y+g.size)
}

func (g geometry) center(sq nchess.Square) (float64, float64) {
	r := g.rect(sq)
	return float64(r.Min.X) + float64(g.size)/2, float64(r.Min.Y) + float64(g.size)/2
}

func allSquares() []nchess.Square {
	out := make([]nchess.Square, 0, 64)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			out = append(out, nchess.NewSquare(nchess.File(file), nchess.Rank(rank)))
		}
	}
	return out
}

func drawSquares(dst *image.RGBA, g geometry, theme Theme) {
	for _, sq := range allSquares() {
		clr := theme.Light
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			clr = theme.Dark
		}
		imagedraw.Draw(dst, g.rect(sq), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(dst *image.RGBA, board *nchess.Board, g geometry, theme Theme) error {
	for sq, piece := range board.SquareMap() {
		if piece == nchess.NoPiece {
			continue
		}
		img, err := renderPieceImage(piece, theme, g.size)
		if err != nil {
			return err
		}
		r := g.rect(sq)
		imagedraw.Draw(dst, r, img, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawSquareOverlay(dst *image.RGBA, rect image.Rectangle, clr color.Color) {
	imagedraw.Draw(dst, rect, image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func toFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

func newFiller(dst *image.RGBA, clr color.Color) *rasterx.Filler {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetColor(clr)
	return filler
}

func drawTargetDot(dst *image.RGBA, rect image.Rectangle, clr color.Color) {
	cx := float64(rect.Min.X) + float64(rect.Dx())/2
	cy := float64(rect.Min.Y) + float64(rect.Dy())/2
	filler := newFiller(dst, clr)
	rasterx.AddCircle(cx, cy, float64(rect.Dx())*0.18, filler)
	filler.Draw()
}

// drawArrow fills a shaft and head polygon from the centre of one square to the other.
func drawArrow(dst *image.RGBA, g geometry, from, to nchess.Square, clr color.Color) {
	if from == to {
		return
	}
	sx, sy := g.center(from)
	ex, ey := g.center(to)
	dx, dy := ex-sx, ey-sy
	length := math.Hypot(dx, dy)
	dirX, dirY := dx/length, dy/length
	perpX, perpY := -dirY, dirX

	size := float64(g.size)
	half := size * 0.09
	head := size * 0.22
	base := length - size*0.35
	if base < size*0.2 {
		base = length * 0.6
	}
	bx, by := sx+dirX*base, sy+dirY*base

	filler := newFiller(dst, clr)
	filler.Start(toFixed(sx-perpX*half, sy-perpY*half))
	filler.Line(toFixed(bx-perpX*half, by-perpY*half))
	filler.Line(toFixed(bx-perpX*head, by-perpY*head))
	filler.Line(toFixed(ex, ey))
	filler.Line(toFixed(bx+perpX*head, by+perpY*head))
	filler.Line(toFixed(bx+perpX*half, by+perpY*half))
	filler.Line(toFixed(sx+perpX*half, sy+perpY*half))
	filler.Stop(true)
	filler.Draw()
}

func drawCoordinates(dst *image.RGBA, g geometry, margin int, clr color.Color) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: dst, Src: image.NewUniform(clr), Face: face}
	ascent := face.Metrics().Ascent.Ceil()

	for i := 0; i < 8; i++ {
		file := nchess.File(i)
		rank := nchess.Rank(i)
		fileLabel := string(rune('a' + i))
		rankLabel := string(rune('1' + i))

		col, _ := g.cell(nchess.NewSquare(file, nchess.Rank1))
		x := g.origin.X + col*g.size + g.size/2 - drawer.MeasureString(fileLabel).Round()/2
		y := g.origin.Y + 8*g.size + (margin+ascent)/2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(fileLabel)

		_, row := g.cell(nchess.NewSquare(nchess.FileA, rank))
		x = (margin - drawer.MeasureString(rankLabel).Round()) / 2
		y = g.origin.Y + row*g.size + g.size/2 + ascent/2
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(rankLabel)
	}
}

package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/srwiley/oksvg"

	"github.com/park285/unicorn-chess/internal/rules"
)

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func emptyBoard() *nchess.Board {
	return nchess.NewBoard(map[nchess.Square]nchess.Piece{})
}

func TestRenderStartPosition(t *testing.T) {
	data, err := NewBoardRenderer().RenderPNG(context.Background(), rules.New().Board(), Options{})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img := decodePNG(t, data)
	if b := img.Bounds(); b.Dx() != BoardSize() || b.Dy() != BoardSize() {
		t.Fatalf("size = %v, want %d", b, BoardSize())
	}
}

func TestRenderThemeColors(t *testing.T) {
	r := NewBoardRenderer()
	for _, theme := range []Theme{UnicornTheme, ClassicTheme} {
		data, err := r.RenderPNG(context.Background(), emptyBoard(), Options{Theme: theme})
		if err != nil {
			t.Fatalf("%s: %v", theme.Name, err)
		}
		img := decodePNG(t, data)
		// a8 is light and sits top-left.
		if got := img.At(defaultMargin+4, defaultMargin+4); !sameColor(got, theme.Light) {
			t.Fatalf("%s a8 = %v, want %v", theme.Name, got, theme.Light)
		}
		// a1 is dark and sits bottom-left.
		if got := img.At(defaultMargin+4, defaultMargin+7*defaultSquareSize+4); !sameColor(got, theme.Dark) {
			t.Fatalf("%s a1 = %v, want %v", theme.Name, got, theme.Dark)
		}
	}
}

func TestRenderHighlightAndFlip(t *testing.T) {
	r := NewBoardRenderer()
	opts := Options{Highlights: []Highlight{{Square: "a1", Kind: HighlightDanger}}}
	data, err := r.RenderPNG(context.Background(), emptyBoard(), opts)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	a1 := image.Pt(defaultMargin+4, defaultMargin+7*defaultSquareSize+4)
	if got := decodePNG(t, data).At(a1.X, a1.Y); sameColor(got, UnicornTheme.Dark) {
		t.Fatalf("danger highlight not drawn on a1")
	}

	opts.Flip = true
	data, err = r.RenderPNG(context.Background(), emptyBoard(), opts)
	if err != nil {
		t.Fatalf("RenderPNG flipped: %v", err)
	}
	img := decodePNG(t, data)
	if got := img.At(a1.X, a1.Y); !sameColor(got, UnicornTheme.Dark) {
		t.Fatalf("flipped bottom-left should be plain h8, got %v", got)
	}
	// a1 moves to the top-right when flipped.
	topRight := image.Pt(defaultMargin+7*defaultSquareSize+4, defaultMargin+4)
	if got := img.At(topRight.X, topRight.Y); sameColor(got, UnicornTheme.Dark) {
		t.Fatalf("danger highlight missing from flipped a1")
	}
}

func TestRenderTargetsAndArrow(t *testing.T) {
	opts := Options{
		Highlights: []Highlight{{Square: "e2", Kind: HighlightSelect}, {Square: "e4", Kind: HighlightTarget}},
		Arrow:      &Arrow{From: "e2", To: "e4"},
	}
	data, err := NewBoardRenderer().RenderPNG(context.Background(), rules.New().Board(), opts)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img := decodePNG(t, data)
	// centre of e3 lies on the arrow shaft
	x := defaultMargin + 4*defaultSquareSize + defaultSquareSize/2
	y := defaultMargin + 5*defaultSquareSize + defaultSquareSize/2
	if got := img.At(x, y); sameColor(got, UnicornTheme.Light) || sameColor(got, UnicornTheme.Dark) {
		t.Fatalf("arrow not drawn through e3")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewBoardRenderer()
	if _, err := r.RenderPNG(context.Background(), nil, Options{}); !errors.Is(err, ErrNilBoard) {
		t.Fatalf("expected ErrNilBoard, got %v", err)
	}
	bad := Options{Highlights: []Highlight{{Square: "k9", Kind: HighlightGoal}}}
	if _, err := r.RenderPNG(context.Background(), emptyBoard(), bad); !errors.Is(err, rules.ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderPNG(ctx, emptyBoard(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPieceSVGParses(t *testing.T) {
	types := []nchess.PieceType{nchess.King, nchess.Queen, nchess.Rook, nchess.Bishop, nchess.Knight, nchess.Pawn}
	for _, theme := range []Theme{UnicornTheme, ClassicTheme} {
		for _, c := range []nchess.Color{nchess.White, nchess.Black} {
			for _, pt := range types {
				piece := nchess.NewPiece(pt, c)
				doc, err := pieceSVG(piece, theme)
				if err != nil {
					t.Fatalf("pieceSVG %v: %v", piece, err)
				}
				if strings.Contains(doc, "{") {
					t.Fatalf("unreplaced placeholder in %v: %s", piece, doc)
				}
				if _, err := oksvg.ReadIconStream(strings.NewReader(doc)); err != nil {
					t.Fatalf("oksvg %v: %v", piece, err)
				}
			}
		}
	}
	unicornKnight, _ := pieceSVG(nchess.NewPiece(nchess.Knight, nchess.White), UnicornTheme)
	classicKnight, _ := pieceSVG(nchess.NewPiece(nchess.Knight, nchess.White), ClassicTheme)
	if !strings.Contains(unicornKnight, UnicornTheme.Accent) || strings.Contains(classicKnight, "#ffd700") {
		t.Fatalf("only the unicorn knight should carry a horn")
	}
}

func TestThemeByName(t *testing.T) {
	if ThemeByName("Classic").Name != "classic" || ThemeByName("").Name != "unicorn" || ThemeByName("neon").Name != "unicorn" {
		t.Fatalf("unexpected theme lookup")
	}
	if !HighlightTarget.Valid() || !HighlightGoal.Valid() || HighlightKind("sparkle").Valid() {
		t.Fatalf("unexpected highlight validity")
	}
}

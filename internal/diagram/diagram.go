// Package diagram draws board positions as SVG and PNG images.
//
// The board and the piece discs are described in SVG and rasterized with
// oksvg/rasterx; piece letters and coordinates are then drawn on the
// raster with the Go fonts.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/chesscore/internal/board"
)

// MinSize is the smallest image edge Render accepts, in pixels.
const MinSize = 64

// Colors used for the board and pieces.
var (
	LightSquare     = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	DarkSquare      = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	HighlightSquare = color.RGBA{0xcd, 0xd2, 0x6a, 0xff}
	CheckSquare     = color.RGBA{0xe0, 0x4f, 0x4f, 0xff}

	whitePiece = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	blackPiece = color.RGBA{0x22, 0x22, 0x22, 0xff}
)

// Options controls how a position is drawn. The zero value draws the board
// from White's side with coordinates.
type Options struct {
	Flip      bool           // Black at the bottom
	NoCoords  bool           // omit file and rank labels
	Highlight []board.Square // e.g. the last move
	MarkCheck bool           // tint the square of a king in check
	Size      int            // image edge in pixels, 0 means 480
}

const defaultSize = 480

func (o Options) size() int {
	if o.Size == 0 {
		return defaultSize
	}
	return o.Size
}

// project maps a square to its drawing row and column.
func (o Options) project(sq board.Square) (row, col int) {
	row, col = sq.Row(), sq.Col()
	if o.Flip {
		row, col = 7-row, 7-col
	}
	return row, col
}

// SVG returns an SVG document showing p. Squares are 1 unit wide in a
// 0..8 view box; piece letters are left to Render, so the SVG shows discs.
func SVG(p *board.Position, opts Options) string {
	marked := make(map[board.Square]color.RGBA)
	for _, sq := range opts.Highlight {
		if sq.IsValid() {
			marked[sq] = HighlightSquare
		}
	}
	if opts.MarkCheck && board.InCheck(p) {
		marked[p.KingSquare(p.SideToMove())] = CheckSquare
	}

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 8 8" width="8" height="8">` + "\n")
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			cell, _ := p.Cell(row, col)
			fill := DarkSquare
			if cell.Shade == board.White {
				fill = LightSquare
			}
			if c, ok := marked[cell.Square]; ok {
				fill = c
			}
			r, c := opts.project(cell.Square)
			fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="1" height="1" fill="%s"/>`+"\n", c, r, hex(fill))
		}
	}
	for _, side := range [...]board.Color{board.White, board.Black} {
		fill, stroke := whitePiece, blackPiece
		if side == board.Black {
			fill, stroke = blackPiece, whitePiece
		}
		for _, pc := range p.Pieces(side) {
			r, c := opts.project(pc.Square)
			fmt.Fprintf(&sb, `<circle cx="%d.5" cy="%d.5" r="0.38" fill="%s" stroke="%s" stroke-width="0.04"/>`+"\n",
				c, r, hex(fill), hex(stroke))
		}
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// Render rasterizes p into a square RGBA image.
func Render(p *board.Position, opts Options) (*image.RGBA, error) {
	size := opts.size()
	if size < MinSize {
		return nil, fmt.Errorf("diagram: size %d below minimum %d", size, MinSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(SVG(p, opts)))
	if err != nil {
		return nil, fmt.Errorf("diagram: parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	fs, err := loadFaces(size / 8)
	if err != nil {
		return nil, err
	}
	defer fs.Close()
	drawLetters(img, p, opts, fs.piece)
	if !opts.NoCoords {
		drawCoords(img, opts, fs.coord)
	}
	return img, nil
}

// WritePNG renders p and encodes it as PNG to w.
func WritePNG(w io.Writer, p *board.Position, opts Options) error {
	img, err := Render(p, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// PNG returns p encoded as a PNG image.
func PNG(p *board.Position, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, p, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawLetters writes the piece letter centred on each disc.
func drawLetters(img *image.RGBA, p *board.Position, opts Options, face font.Face) {
	sq := img.Bounds().Dx() / 8
	d := &font.Drawer{Dst: img, Face: face}
	ascent := face.Metrics().Ascent.Ceil()

	for _, side := range [...]board.Color{board.White, board.Black} {
		ink := blackPiece
		if side == board.Black {
			ink = whitePiece
		}
		d.Src = image.NewUniform(ink)
		for _, pc := range p.Pieces(side) {
			letter := strings.ToUpper(string(pc.Type.Char()))
			r, c := opts.project(pc.Square)
			width := d.MeasureString(letter).Ceil()
			x := c*sq + (sq-width)/2
			y := r*sq + (sq+ascent)/2 - 1
			d.Dot = fixed.P(x, y)
			d.DrawString(letter)
		}
	}
}

// drawCoords labels files along the bottom edge and ranks along the left.
func drawCoords(img *image.RGBA, opts Options, face font.Face) {
	sq := img.Bounds().Dx() / 8
	d := &font.Drawer{Dst: img, Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	pad := sq / 16

	for i := 0; i < 8; i++ {
		row, col := i, i
		if opts.Flip {
			row, col = 7-i, 7-i
		}

		// The label takes the colour of the opposite square shade.
		d.Src = image.NewUniform(labelInk(7, i))
		d.Dot = fixed.P(i*sq+sq-pad-d.MeasureString("h").Ceil(), 8*sq-pad)
		d.DrawString(string(rune('a' + col)))

		d.Src = image.NewUniform(labelInk(i, 0))
		d.Dot = fixed.P(pad, i*sq+pad+ascent)
		d.DrawString(string(rune('8' - row)))
	}
}

func labelInk(row, col int) color.RGBA {
	if (row+col)%2 == 0 {
		return DarkSquare
	}
	return LightSquare
}

type faceSet struct {
	piece font.Face
	coord font.Face
}

var (
	fontsOnce sync.Once
	boldFont  *opentype.Font
	plainFont *opentype.Font
	fontsErr  error
)

func parseFonts() {
	if boldFont, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
		fontsErr = fmt.Errorf("diagram: load bold font: %w", fontsErr)
		return
	}
	if plainFont, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
		fontsErr = fmt.Errorf("diagram: load regular font: %w", fontsErr)
	}
}

// loadFaces returns font faces sized for the given square edge. Faces are
// not safe for concurrent use, so each Render gets its own.
func loadFaces(square int) (faceSet, error) {
	fontsOnce.Do(parseFonts)
	if fontsErr != nil {
		return faceSet{}, fontsErr
	}

	piece, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    float64(square) * 0.45,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return faceSet{}, fmt.Errorf("diagram: piece face: %w", err)
	}
	coord, err := opentype.NewFace(plainFont, &opentype.FaceOptions{
		Size:    float64(square) * 0.2,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		piece.Close()
		return faceSet{}, fmt.Errorf("diagram: coordinate face: %w", err)
	}
	return faceSet{piece: piece, coord: coord}, nil
}

func (fs faceSet) Close() {
	fs.piece.Close()
	fs.coord.Close()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

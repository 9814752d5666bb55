// Package pdfdraw draws brochure plans straight onto a gofpdf document. Its
// Canvas is also the painting layer of the document tree backend.
package pdfdraw

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"listing_brochure/internal/brochure"
)

const fontFamily = "Helvetica"

// NewDocument returns an A4 document with margins and automatic page breaks
// disabled; every position comes from the plan.
func NewDocument(title, author string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(author, true)
	pdf.SetCreator("listing brochure", true)
	return pdf
}

// Canvas paints plan primitives. Images are registered on first use; a
// source missing from the image set is silently left out.
type Canvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	images brochure.ImageSet
	names  map[string]string
}

func NewCanvas(pdf *gofpdf.Fpdf, images brochure.ImageSet) *Canvas {
	return &Canvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: images,
		names:  map[string]string{},
	}
}

// Draw dispatches one plan block.
func (c *Canvas) Draw(b brochure.Block) {
	switch b.Kind {
	case brochure.BlockFill:
		c.Fill(b.Rect, b.Color)
	case brochure.BlockText:
		c.Text(b.Rect, b.Text, TextStyle{Size: b.Size, Bold: b.Bold, Align: b.Align, LineHeight: b.LineHeight, Color: b.Color})
	case brochure.BlockImage:
		c.Image(b.Rect, b.Src, b.Fit)
	case brochure.BlockIcon:
		c.Icon(b.Rect, b.Src, b.Text, b.Color)
	case brochure.BlockLine:
		c.Line(b.Rect, b.Color)
	}
}

func (c *Canvas) Fill(r brochure.Rect, col brochure.Color) {
	c.pdf.SetFillColor(col.R, col.G, col.B)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
}

// Line draws a horizontal rule along the top edge of r.
func (c *Canvas) Line(r brochure.Rect, col brochure.Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(0.4)
	c.pdf.Line(r.X, r.Y, r.X+r.W, r.Y)
}

type TextStyle struct {
	Size       float64
	Bold       bool
	Align      string
	LineHeight float64
	Color      brochure.Color
}

// Text wraps s into r. Lines that do not fit are dropped and the last kept
// line ends with an ellipsis, so text never spills onto another page.
func (c *Canvas) Text(r brochure.Rect, s string, st TextStyle) {
	if strings.TrimSpace(s) == "" || r.W <= 0 || r.H <= 0 {
		return
	}
	style := ""
	if st.Bold {
		style = "B"
	}
	size := st.Size
	if size <= 0 {
		size = 10
	}
	lh := st.LineHeight
	if lh <= 0 {
		lh = size * 0.45
	}
	align := st.Align
	if align == "" {
		align = "L"
	}
	c.pdf.SetFont(fontFamily, style, size)
	c.pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)

	lines := c.fitLines(c.tr(s), r.W, int(math.Floor(r.H/lh+1e-6)))
	for i, line := range lines {
		c.pdf.SetXY(r.X, r.Y+float64(i)*lh)
		c.pdf.CellFormat(r.W, lh, line, "", 0, align+"M", false, 0, "")
	}
}

func (c *Canvas) fitLines(s string, w float64, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		for _, l := range c.pdf.SplitLines([]byte(para), w) {
			lines = append(lines, string(l))
		}
	}
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := strings.TrimRight(lines[maxLines-1], " ")
	for last != "" && c.pdf.GetStringWidth(last+"...") > w {
		last = last[:len(last)-1]
	}
	lines[maxLines-1] = last + "..."
	return lines
}

// Image draws src into r. "cover" fills r and clips the overflow, anything
// else fits the whole image inside r. It reports whether the image existed.
func (c *Canvas) Image(r brochure.Rect, src, fit string) bool {
	img, ok := c.images[src]
	if !ok || img.Width == 0 || img.Height == 0 || r.W <= 0 || r.H <= 0 {
		return false
	}
	name, ok := c.names[src]
	if !ok {
		name = fmt.Sprintf("img%d", len(c.names)+1)
		c.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
		c.names[src] = name
	}
	x, y, w, h := place(r, float64(img.Width)/float64(img.Height), fit == "cover")
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	if fit == "cover" {
		c.pdf.ClipRect(r.X, r.Y, r.W, r.H, false)
		c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
		c.pdf.ClipEnd()
		return true
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return true
}

// Icon draws src when it loaded, otherwise a disc in col with glyph on it.
func (c *Canvas) Icon(r brochure.Rect, src, glyph string, col brochure.Color) {
	if src != "" && c.Image(r, src, "contain") {
		return
	}
	d := math.Min(r.W, r.H)
	c.pdf.SetFillColor(col.R, col.G, col.B)
	c.pdf.Circle(r.X+d/2, r.Y+d/2, d/2, "F")
	c.Text(brochure.Rect{X: r.X, Y: r.Y, W: d, H: d}, glyph, TextStyle{Size: d * 1.4, Bold: true, Align: "C", LineHeight: d, Color: col.Readable()})
}

// place fits an image of the given aspect ratio into r, centered.
func place(r brochure.Rect, aspect float64, cover bool) (x, y, w, h float64) {
	w, h = r.W, r.W/aspect
	if (h > r.H) != cover {
		h = r.H
		w = r.H * aspect
	}
	return r.X + (r.W-w)/2, r.Y + (r.H-h)/2, w, h
}

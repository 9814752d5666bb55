package brochure

import (
	"fmt"
	"strings"

	"listing_brochure/internal/domain"
)

// A4 portrait geometry in millimetres.
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	Margin       = 15.0
	HeaderHeight = 20.0
	FooterHeight = 12.0

	headingHeight = 12.0
	bandGap       = 8.0
	containerGap  = 4.0
	columnGap     = 5.0
	elementGap    = 3.0
)

type BlockKind string

const (
	BlockFill  BlockKind = "fill"
	BlockText  BlockKind = "text"
	BlockImage BlockKind = "image"
	BlockIcon  BlockKind = "icon" // image when Src loads, else a disc with a glyph
	BlockLine  BlockKind = "line"
)

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Block is a device independent drawing instruction. Text blocks are wrapped
// and truncated by the backend to stay inside Rect.
type Block struct {
	Kind       BlockKind `json:"kind"`
	Rect       Rect      `json:"rect"`
	Color      Color     `json:"color"`
	Text       string    `json:"text,omitempty"`
	Size       float64   `json:"size,omitempty"` // pt
	Bold       bool      `json:"bold,omitempty"`
	Align      string    `json:"align,omitempty"` // L, C or R
	LineHeight float64   `json:"lineHeight,omitempty"`
	Src        string    `json:"src,omitempty"`
	Fit        string    `json:"fit,omitempty"` // cover or contain
}

type Page struct {
	Number     int                `json:"number"`
	Kind       domain.SectionType `json:"kind"`
	SectionID  string             `json:"sectionId"`
	Chrome     bool               `json:"chrome"`
	Background *Color             `json:"background,omitempty"`
	Blocks     []Block            `json:"blocks"`
}

// Chrome is the header and footer shared by interior pages.
type Chrome struct {
	Primary     Color  `json:"primary"`
	Secondary   Color  `json:"secondary"`
	AgencyName  string `json:"agencyName"`
	LogoSrc     string `json:"logoSrc,omitempty"`
	ContactLine string `json:"contactLine"`
	Title       string `json:"title"`
}

// Plan is the complete page sequence of one brochure. Backends draw it
// without adding or dropping pages.
type Plan struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Chrome Chrome `json:"chrome"`
	Pages  []Page `json:"pages"`
}

func (p Plan) Total() int { return len(p.Pages) }

// ImageSources lists every image the plan references, deduplicated, in order
// of first use.
func (p Plan) ImageSources() []string {
	seen := map[string]bool{}
	var out []string
	add := func(src string) {
		if src != "" && !seen[src] {
			seen[src] = true
			out = append(out, src)
		}
	}
	for _, pg := range p.Pages {
		if pg.Chrome {
			add(p.Chrome.LogoSrc)
		}
		for _, b := range pg.Blocks {
			if b.Kind == BlockImage || b.Kind == BlockIcon {
				add(b.Src)
			}
		}
	}
	return out
}

// HeaderBlocks draws the header band: logo (or agency name) left, contact
// line right, on the primary color.
func (p Plan) HeaderBlocks() []Block {
	c := p.Chrome
	fg := c.Primary.Readable()
	out := []Block{{Kind: BlockFill, Rect: Rect{0, 0, PageWidth, HeaderHeight}, Color: c.Primary}}
	if c.LogoSrc != "" {
		out = append(out, Block{Kind: BlockIcon, Rect: Rect{Margin, 4, 40, 12}, Src: c.LogoSrc, Fit: "contain", Color: fg, Text: initials(c.AgencyName)})
	} else {
		out = append(out, Block{Kind: BlockText, Rect: Rect{Margin, 6, 70, 8}, Color: fg, Text: c.AgencyName, Size: 12, Bold: true, Align: "L", LineHeight: 8})
	}
	out = append(out, Block{Kind: BlockText, Rect: Rect{60, 6, PageWidth - 60 - Margin, 8}, Color: fg, Text: c.ContactLine, Size: 9, Align: "R", LineHeight: 8})
	return out
}

// FooterBlocks draws the footer band for page n: title left, page counter right.
func (p Plan) FooterBlocks(n int) []Block {
	c := p.Chrome
	fg := c.Secondary.Readable()
	y := PageHeight - FooterHeight
	return []Block{
		{Kind: BlockFill, Rect: Rect{0, y, PageWidth, FooterHeight}, Color: c.Secondary},
		{Kind: BlockText, Rect: Rect{Margin, y + 3, 120, 6}, Color: fg, Text: c.Title, Size: 9, Align: "L", LineHeight: 6},
		{Kind: BlockText, Rect: Rect{PageWidth - Margin - 50, y + 3, 50, 6}, Color: fg, Text: PageLabel(n, p.Total()), Size: 9, Align: "R", LineHeight: 6},
	}
}

func PageLabel(n, total int) string { return fmt.Sprintf("Page %d of %d", n, total) }

func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(f)[:1])))
		if b.Len() >= 3 {
			break
		}
	}
	return b.String()
}

// contentRect is the drawable area of a page before section padding.
func contentRect(chrome bool) Rect {
	if !chrome {
		return Rect{Margin, Margin, PageWidth - 2*Margin, PageHeight - 2*Margin}
	}
	top := HeaderHeight + bandGap
	bottom := PageHeight - FooterHeight - bandGap
	return Rect{Margin, top, PageWidth - 2*Margin, bottom - top}
}

func (r Rect) inset(d float64) Rect {
	if d <= 0 || 2*d >= r.W || 2*d >= r.H {
		return r
	}
	return Rect{r.X + d, r.Y + d, r.W - 2*d, r.H - 2*d}
}

// splitRows divides r vertically by weight with gap between rows.
func splitRows(r Rect, weights []float64, gap float64) []Rect {
	return split(r, weights, gap, false)
}

// splitCols divides r horizontally by weight with gap between columns.
func splitCols(r Rect, weights []float64, gap float64) []Rect {
	return split(r, weights, gap, true)
}

func split(r Rect, weights []float64, gap float64, horizontal bool) []Rect {
	if len(weights) == 0 {
		return nil
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	span := r.H
	if horizontal {
		span = r.W
	}
	avail := span - gap*float64(len(weights)-1)
	if avail < 0 {
		avail = 0
	}
	out := make([]Rect, len(weights))
	pos := 0.0
	for i, w := range weights {
		size := avail / float64(len(weights))
		if sum > 0 {
			size = avail * w / sum
		}
		if horizontal {
			out[i] = Rect{r.X + pos, r.Y, size, r.H}
		} else {
			out[i] = Rect{r.X, r.Y + pos, r.W, size}
		}
		pos += size + gap
	}
	return out
}

package brochure

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"listing_brochure/internal/domain"
)

const (
	factTileHeight = 18.0
	factTileMaxW   = 56.0
	factsPerRow    = 3
	gridCols       = 3
)

type elementCtx struct {
	planner
	data pageData
	text Color
}

// size is the vertical demand of an element: a fixed height in mm or a
// share of what the fixed elements leave over.
type size struct {
	fixed float64
	flex  float64
}

func (ec elementCtx) container(c domain.Container, r Rect) []Block {
	cols := max(c.Columns, 1)
	weights := make([]float64, cols)
	for i := range weights {
		weights[i] = 1
		if i < len(c.ColumnWidths) && c.ColumnWidths[i] > 0 {
			weights[i] = float64(c.ColumnWidths[i])
		}
	}
	byCol := make([][]domain.ContentElement, cols)
	for _, e := range c.Elements {
		i := min(max(e.Column(), 0), cols-1)
		byCol[i] = append(byCol[i], e)
	}
	var out []Block
	for i, cr := range splitCols(r, weights, columnGap) {
		out = append(out, ec.column(byCol[i], cr)...)
	}
	return out
}

// column stacks elements top to bottom. Fixed heights are honored first and
// scaled down when they alone overflow the column.
func (ec elementCtx) column(els []domain.ContentElement, r Rect) []Block {
	type item struct {
		e domain.ContentElement
		s size
	}
	var items []item
	var fixed, flex float64
	for _, e := range els {
		s, ok := ec.measure(e, r.W)
		if !ok {
			continue
		}
		items = append(items, item{e, s})
		fixed += s.fixed
		flex += s.flex
	}
	if len(items) == 0 {
		return nil
	}
	avail := r.H - elementGap*float64(len(items)-1)
	scale := 1.0
	rest := avail - fixed
	if rest < 0 {
		if fixed > 0 {
			scale = math.Max(avail, 0) / fixed
		}
		rest = 0
	}
	var out []Block
	y := r.Y
	for _, it := range items {
		h := it.s.fixed * scale
		if flex > 0 {
			h += rest * it.s.flex / flex
		}
		out = append(out, ec.element(it.e, Rect{r.X, y, r.W, h})...)
		y += h + elementGap
	}
	return out
}

func (ec elementCtx) measure(e domain.ContentElement, w float64) (size, bool) {
	p, d := ec.p, ec.data
	switch e.Type {
	case domain.ElementTitle:
		return size{fixed: 12}, p.Title != ""
	case domain.ElementPrice:
		return size{fixed: 9}, p.Price != ""
	case domain.ElementAddress:
		return size{fixed: 7}, p.Address != ""
	case domain.ElementDescription:
		return size{flex: 4}, p.Description != ""
	case domain.ElementFeaturedImage:
		return size{flex: 6}, featuredURL(p) != ""
	case domain.ElementGallery:
		return size{flex: 4}, len(p.GridImages) > 0
	case domain.ElementKeyFacts:
		rows := (len(ec.facts) + factsPerRow - 1) / factsPerRow
		return size{fixed: float64(rows)*factTileHeight + float64(max(rows-1, 0))*elementGap}, rows > 0
	case domain.ElementFeatures:
		return size{flex: 3}, len(p.Features) > 0
	case domain.ElementFloorplan:
		return size{flex: 8}, len(d.floorplans) > 0
	case domain.ElementLocationText:
		return size{flex: 3}, p.LocationDescription != ""
	case domain.ElementMap:
		return size{flex: 5}, p.MapImage != nil && *p.MapImage != ""
	case domain.ElementPlaces:
		return size{flex: 3}, len(p.NearbyPlaces) > 0
	case domain.ElementAreaTitle:
		return size{fixed: 10}, d.area != nil && d.area.Title != ""
	case domain.ElementAreaDescription:
		return size{flex: 3}, d.area != nil && d.area.Description != ""
	case domain.ElementAreaImages:
		return size{flex: 8}, len(d.areaImages) > 0
	case domain.ElementAgency:
		return size{flex: 3}, ec.s.Name != "" || ec.s.ContactLine() != ""
	case domain.ElementAgent:
		_, ok := ec.s.AgentFor(p.AgentID)
		return size{flex: 3}, ok
	case domain.ElementQRCode:
		return size{fixed: math.Min(40, w)}, ec.opt.ViewerURL != ""
	}
	return size{}, false
}

func (ec elementCtx) textBlock(r Rect, s string, pt float64, bold bool, c Color) Block {
	return Block{Kind: BlockText, Rect: r, Color: c, Text: s, Size: pt, Bold: bold, Align: "L", LineHeight: pt * 0.45}
}

func (ec elementCtx) element(e domain.ContentElement, r Rect) []Block {
	p, d := ec.p, ec.data
	switch e.Type {
	case domain.ElementTitle:
		return []Block{ec.textBlock(r, p.Title, 22, true, ec.text)}
	case domain.ElementPrice:
		return []Block{ec.textBlock(r, p.Price, 16, true, ec.text)}
	case domain.ElementAddress:
		return []Block{ec.textBlock(r, p.Address, 11, false, ec.text)}
	case domain.ElementDescription:
		return []Block{ec.textBlock(r, p.Description, 10, false, ec.text)}
	case domain.ElementLocationText:
		return []Block{ec.textBlock(r, p.LocationDescription, 10, false, ec.text)}
	case domain.ElementFeaturedImage:
		return []Block{{Kind: BlockImage, Rect: r, Src: featuredURL(p), Fit: "cover"}}
	case domain.ElementMap:
		return []Block{{Kind: BlockImage, Rect: r, Src: *p.MapImage, Fit: "cover"}}
	case domain.ElementGallery:
		return imageGrid(p.GridImages, r, 1, len(p.GridImages))
	case domain.ElementAreaImages:
		return imageGrid(d.areaImages, r, 2, gridCols)
	case domain.ElementFloorplan:
		weights := make([]float64, len(d.floorplans))
		for i := range weights {
			weights[i] = 1
		}
		var out []Block
		for i, cr := range splitRows(r, weights, elementGap) {
			out = append(out, Block{Kind: BlockImage, Rect: cr, Src: d.floorplans[i], Fit: "contain"})
		}
		return out
	case domain.ElementKeyFacts:
		return ec.keyFacts(r)
	case domain.ElementFeatures:
		lines := make([]string, len(p.Features))
		for i, f := range p.Features {
			lines[i] = "• " + f.Description
		}
		return []Block{ec.textBlock(r, strings.Join(lines, "\n"), 10, false, ec.text)}
	case domain.ElementPlaces:
		lines := make([]string, len(p.NearbyPlaces))
		for i, pl := range p.NearbyPlaces {
			lines[i] = placeLine(pl)
		}
		return []Block{ec.textBlock(r, strings.Join(lines, "\n"), 9, false, ec.text)}
	case domain.ElementAreaTitle:
		return []Block{ec.textBlock(r, d.area.Title, 15, true, ec.text)}
	case domain.ElementAreaDescription:
		return []Block{ec.textBlock(r, d.area.Description, 10, false, ec.text)}
	case domain.ElementAgency:
		s := ec.s
		lines := nonEmpty(s.Address, s.Phone, s.Email, s.Website)
		head := Rect{r.X, r.Y, r.W, math.Min(8, r.H)}
		body := Rect{r.X, r.Y + head.H, r.W, r.H - head.H}
		return []Block{
			ec.textBlock(head, s.Name, 13, true, ec.text),
			ec.textBlock(body, strings.Join(lines, "\n"), 10, false, ec.text),
		}
	case domain.ElementAgent:
		a, _ := ec.s.AgentFor(p.AgentID)
		head := Rect{r.X, r.Y, r.W, math.Min(8, r.H)}
		body := Rect{r.X, r.Y + head.H, r.W, r.H - head.H}
		return []Block{
			ec.textBlock(head, a.Name, 13, true, ec.text),
			ec.textBlock(body, strings.Join(nonEmpty(a.Phone, a.Email, a.WhatsApp), "\n"), 10, false, ec.text),
		}
	case domain.ElementQRCode:
		side := math.Min(r.H, r.W)
		return []Block{
			{Kind: BlockImage, Rect: Rect{r.X, r.Y, side, side}, Src: QRPrefix + ec.opt.ViewerURL, Fit: "contain"},
			ec.textBlock(Rect{r.X + side + 5, r.Y + side/2 - 4, math.Max(r.W-side-5, 0), 8}, "Scan to view this home online", 10, false, ec.text),
		}
	}
	return nil
}

// keyFacts lays tiles out in rows of three; every tile has the same size.
// Rows that do not fit the box are dropped.
func (ec elementCtx) keyFacts(r Rect) []Block {
	tileW := math.Min((r.W-2*elementGap)/factsPerRow, factTileMaxW)
	rows := int(math.Floor((r.H + elementGap + 1e-6) / (factTileHeight + elementGap)))
	facts := capSlice(ec.facts, max(rows, 0)*factsPerRow)
	var out []Block
	for i, f := range facts {
		row, col := i/factsPerRow, i%factsPerRow
		x := r.X + float64(col)*(tileW+elementGap)
		y := r.Y + float64(row)*(factTileHeight+elementGap)
		out = append(out,
			Block{Kind: BlockFill, Rect: Rect{x, y, tileW, factTileHeight}, Color: TileFill},
			Block{Kind: BlockIcon, Rect: Rect{x + 3, y + 4, 10, 10}, Src: f.Icon, Fit: "contain", Color: ec.primary, Text: glyph(f.Key)},
			Block{Kind: BlockText, Rect: Rect{x + 16, y + 3, tileW - 18, 5}, Color: Muted, Text: f.Label, Size: 8, Align: "L", LineHeight: 5},
			Block{Kind: BlockText, Rect: Rect{x + 16, y + 9, tileW - 18, 6}, Color: Ink, Text: f.Value, Size: 11, Bold: true, Align: "L", LineHeight: 6},
		)
	}
	return out
}

// imageGrid fills rows x cols cells in reading order with cover fitted images.
func imageGrid(urls []string, r Rect, rows, cols int) []Block {
	if len(urls) == 0 || cols == 0 {
		return nil
	}
	rw := make([]float64, rows)
	for i := range rw {
		rw[i] = 1
	}
	cw := make([]float64, cols)
	for i := range cw {
		cw[i] = 1
	}
	var out []Block
	for ri, rr := range splitRows(r, rw, elementGap) {
		for ci, cr := range splitCols(rr, cw, elementGap) {
			i := ri*cols + ci
			if i >= len(urls) {
				return out
			}
			out = append(out, Block{Kind: BlockImage, Rect: cr, Src: urls[i], Fit: "cover"})
		}
	}
	return out
}

func placeLine(p domain.NearbyPlace) string {
	parts := []string{p.Name}
	if p.Type != "" {
		parts = append(parts, strings.ReplaceAll(p.Type, "_", " "))
	}
	if p.Rating > 0 {
		parts = append(parts, strconv.FormatFloat(p.Rating, 'f', 1, 64)+"/5")
	}
	if p.DistanceMeters != nil {
		parts = append(parts, formatDistance(*p.DistanceMeters))
	}
	return strings.Join(parts, "  ·  ")
}

func formatDistance(m float64) string {
	if m >= 1000 {
		return fmt.Sprintf("%.1f km", m/1000)
	}
	return fmt.Sprintf("%d m", int(math.Round(m)))
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

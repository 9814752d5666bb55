package brochure

import (
	"listing_brochure/internal/domain"
)

// QRPrefix marks an image source that is generated locally as a QR code for
// the url that follows it.
const QRPrefix = "qr:"

type PlanOptions struct {
	// ViewerURL is encoded into the contact page QR code. Empty disables it.
	ViewerURL string
}

// pageData is what one page of a section group shows.
type pageData struct {
	floorplans   []string
	area         *domain.Area
	areaImages   []string
	continuation bool
}

type planner struct {
	p       domain.Property
	s       domain.AgencySettings
	chrome  Chrome
	facts   []KeyFact
	opt     PlanOptions
	primary Color
}

// BuildPlan sanitizes the property and lays out every page once. A nil
// template selects DefaultTemplate.
func BuildPlan(in domain.Property, s domain.AgencySettings, t *domain.Template, opt PlanOptions) Plan {
	p := SanitizeForPrint(in)
	tpl := DefaultTemplate()
	if t != nil && len(t.Sections) > 0 {
		tpl = *t
	}

	primary := ParseHex(s.PrimaryColor, ParseHex(domain.DefaultPrimaryColor, Ink))
	secondary := ParseHex(s.SecondaryColor, ParseHex(domain.DefaultSecondaryColor, Muted))
	pl := planner{
		p: p,
		s: s,
		chrome: Chrome{
			Primary:     primary,
			Secondary:   secondary,
			AgencyName:  s.Name,
			LogoSrc:     s.LogoURL,
			ContactLine: s.ContactLine(),
			Title:       p.Title,
		},
		facts:   KeyFacts(p, s),
		opt:     opt,
		primary: primary,
	}

	plan := Plan{Title: p.Title, Author: s.Name, Chrome: pl.chrome}
	for _, sec := range tpl.Sections {
		for _, d := range pl.groupPages(sec) {
			plan.Pages = append(plan.Pages, pl.page(sec, d))
		}
	}
	for i := range plan.Pages {
		plan.Pages[i].Number = i + 1
	}
	return plan
}

// groupPages decides how many pages a section contributes and what each one
// shows. Optional groups return nothing when their data is absent.
func (pl planner) groupPages(sec domain.Section) []pageData {
	p := pl.p
	switch sec.Type {
	case domain.SectionCover, domain.SectionDetails, domain.SectionContact:
		return []pageData{{}}
	case domain.SectionFloorplans:
		var out []pageData
		for i := 0; i < len(p.Floorplans); i += FloorplansPerPage {
			out = append(out, pageData{floorplans: p.Floorplans[i:min(i+FloorplansPerPage, len(p.Floorplans))]})
		}
		return out
	case domain.SectionLocation:
		if p.LocationDescription == "" && (p.MapImage == nil || *p.MapImage == "") {
			return nil
		}
		return []pageData{{}}
	case domain.SectionAreas:
		var out []pageData
		for i := range capSlice(p.Areas, PrintAreas) {
			a := &p.Areas[i]
			urls := areaImageURLs(p, *a)
			out = append(out, pageData{area: a, areaImages: capSlice(urls, AreaImagesPerPage)})
			for j := AreaImagesPerPage; j < len(urls); j += AreaImagesPerPage {
				out = append(out, pageData{area: a, areaImages: urls[j:min(j+AreaImagesPerPage, len(urls))], continuation: true})
			}
		}
		return out
	}
	return nil
}

func (pl planner) resolveColor(v string, fallback Color) Color {
	switch v {
	case "":
		return fallback
	case ColorPrimary:
		return pl.chrome.Primary
	case ColorSecondary:
		return pl.chrome.Secondary
	}
	return ParseHex(v, fallback)
}

func (pl planner) page(sec domain.Section, d pageData) Page {
	chrome := sec.Type != domain.SectionCover
	pg := Page{Kind: sec.Type, SectionID: sec.ID, Chrome: chrome}

	text := Ink
	if sec.Design.BackgroundColor != "" {
		bg := pl.resolveColor(sec.Design.BackgroundColor, White)
		pg.Background = &bg
		// interior pages keep their bands; only the body is filled
		fill := Rect{0, 0, PageWidth, PageHeight}
		if chrome {
			fill = Rect{0, HeaderHeight, PageWidth, PageHeight - HeaderHeight - FooterHeight}
		}
		pg.Blocks = append(pg.Blocks, Block{Kind: BlockFill, Rect: fill, Color: bg})
		text = bg.Readable()
	}
	text = pl.resolveColor(sec.Design.TextColor, text)

	area := contentRect(chrome).inset(float64(sec.Design.Padding))
	if chrome && sec.Title != "" {
		heading := sec.Title
		if d.continuation && d.area != nil {
			heading = d.area.Title + " (continued)"
		}
		pg.Blocks = append(pg.Blocks,
			Block{Kind: BlockText, Rect: Rect{area.X, area.Y, area.W, headingHeight - 3}, Color: text, Text: heading, Size: 18, Bold: true, Align: "L", LineHeight: 9},
			Block{Kind: BlockLine, Rect: Rect{area.X, area.Y + headingHeight - 2, area.W, 0}, Color: pl.primary},
		)
		area.Y += headingHeight
		area.H -= headingHeight
	}

	containers := sec.Design.Containers
	if d.continuation {
		containers = gridOnly(containers)
	}
	weights := make([]float64, len(containers))
	for i, c := range containers {
		weights[i] = float64(max(c.Height, 1))
	}
	ec := elementCtx{planner: pl, data: d, text: text}
	for i, r := range splitRows(area, weights, containerGap) {
		pg.Blocks = append(pg.Blocks, ec.container(containers[i], r)...)
	}
	return pg
}

// gridOnly keeps only the area image grid for continuation pages.
func gridOnly(in []domain.Container) []domain.Container {
	var out []domain.Container
	for _, c := range in {
		var els []domain.ContentElement
		for _, e := range c.Elements {
			if e.Type == domain.ElementAreaImages {
				els = append(els, e)
			}
		}
		if len(els) > 0 {
			c.Elements = els
			out = append(out, c)
		}
	}
	return out
}

package pdfdraw

import (
	"context"
	"io"

	"listing_brochure/internal/brochure"
)

// Backend draws every page in order, using gofpdf header and footer hooks
// for the interior page chrome.
type Backend struct{}

func New() Backend { return Backend{} }

func (Backend) Name() string { return "draw" }

func (Backend) Render(ctx context.Context, w io.Writer, plan brochure.Plan, images brochure.ImageSet) error {
	pdf := NewDocument(plan.Title, plan.Author)
	c := NewCanvas(pdf, images)

	chrome := func() bool {
		n := pdf.PageNo()
		return n >= 1 && n <= len(plan.Pages) && plan.Pages[n-1].Chrome
	}
	pdf.SetHeaderFunc(func() {
		if chrome() {
			for _, b := range plan.HeaderBlocks() {
				c.Draw(b)
			}
		}
	})
	pdf.SetFooterFunc(func() {
		if chrome() {
			for _, b := range plan.FooterBlocks(pdf.PageNo()) {
				c.Draw(b)
			}
		}
	})

	for _, page := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		for _, b := range page.Blocks {
			c.Draw(b)
		}
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

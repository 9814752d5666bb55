package pdftree

import (
	"context"
	"io"

	"listing_brochure/internal/brochure"
	"listing_brochure/internal/brochure/pdfdraw"
)

// Backend builds the document tree first and then paints it.
type Backend struct{}

func New() Backend { return Backend{} }

func (Backend) Name() string { return "tree" }

func (Backend) Render(ctx context.Context, w io.Writer, plan brochure.Plan, images brochure.ImageSet) error {
	return Paint(ctx, w, Build(plan), images)
}

// Paint renders a document tree: body first, then header and footer on top.
func Paint(ctx context.Context, w io.Writer, doc Document, images brochure.ImageSet) error {
	pdf := pdfdraw.NewDocument(doc.Title, doc.Author)
	c := pdfdraw.NewCanvas(pdf, images)
	for _, p := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		for _, n := range []*Node{&p.Body, p.Header, p.Footer} {
			if n != nil {
				n.Walk(func(n Node) { paint(c, n) })
			}
		}
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func paint(c *pdfdraw.Canvas, n Node) {
	var col brochure.Color
	if n.Style.Color != nil {
		col = *n.Style.Color
	}
	switch n.Type {
	case NodeRect:
		c.Fill(n.Box, col)
	case NodeText:
		c.Text(n.Box, n.Text, pdfdraw.TextStyle{
			Size:       n.Style.FontSize,
			Bold:       n.Style.Bold,
			Align:      n.Style.Align,
			LineHeight: n.Style.LineHeight,
			Color:      col,
		})
	case NodeImage:
		c.Image(n.Box, n.Src, n.Style.Fit)
	case NodeIcon:
		c.Icon(n.Box, n.Src, n.Text, col)
	case NodeLine:
		c.Line(n.Box, col)
	}
}

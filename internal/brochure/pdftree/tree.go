// Package pdftree renders brochures through an intermediate document tree.
// The tree is plain data: it can be served as JSON for inspection and is
// painted onto gofpdf in a separate pass.
package pdftree

import (
	"listing_brochure/internal/brochure"
)

type NodeType string

const (
	NodeView  NodeType = "view"
	NodeRect  NodeType = "rect"
	NodeText  NodeType = "text"
	NodeImage NodeType = "image"
	NodeIcon  NodeType = "icon"
	NodeLine  NodeType = "line"
)

type Style struct {
	Color      *brochure.Color `json:"color,omitempty"`
	FontSize   float64         `json:"fontSize,omitempty"`
	Bold       bool            `json:"bold,omitempty"`
	Align      string          `json:"align,omitempty"`
	LineHeight float64         `json:"lineHeight,omitempty"`
	Fit        string          `json:"fit,omitempty"`
}

type Node struct {
	Type     NodeType      `json:"type"`
	Name     string        `json:"name,omitempty"`
	Box      brochure.Rect `json:"box"`
	Style    Style         `json:"style"`
	Text     string        `json:"text,omitempty"`
	Src      string        `json:"src,omitempty"`
	Children []Node        `json:"children,omitempty"`
}

type PageNode struct {
	Number int    `json:"number"`
	Kind   string `json:"kind"`
	Header *Node  `json:"header,omitempty"`
	Body   Node   `json:"body"`
	Footer *Node  `json:"footer,omitempty"`
}

type Document struct {
	Title  string     `json:"title"`
	Author string     `json:"author"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Pages  []PageNode `json:"pages"`
}

// Build converts a plan into a document tree. Chrome is materialized per page
// so the tree is complete without the plan.
func Build(plan brochure.Plan) Document {
	doc := Document{
		Title:  plan.Title,
		Author: plan.Author,
		Width:  brochure.PageWidth,
		Height: brochure.PageHeight,
		Pages:  make([]PageNode, 0, len(plan.Pages)),
	}
	page := brochure.Rect{W: brochure.PageWidth, H: brochure.PageHeight}
	for _, p := range plan.Pages {
		pn := PageNode{
			Number: p.Number,
			Kind:   string(p.Kind),
			Body:   view("body:"+p.SectionID, page, p.Blocks),
		}
		if p.Chrome {
			h := view("header", brochure.Rect{W: brochure.PageWidth, H: brochure.HeaderHeight}, plan.HeaderBlocks())
			f := view("footer", brochure.Rect{Y: brochure.PageHeight - brochure.FooterHeight, W: brochure.PageWidth, H: brochure.FooterHeight}, plan.FooterBlocks(p.Number))
			pn.Header, pn.Footer = &h, &f
		}
		doc.Pages = append(doc.Pages, pn)
	}
	return doc
}

func view(name string, box brochure.Rect, blocks []brochure.Block) Node {
	n := Node{Type: NodeView, Name: name, Box: box}
	for _, b := range blocks {
		n.Children = append(n.Children, node(b))
	}
	return n
}

func node(b brochure.Block) Node {
	c := b.Color
	n := Node{Box: b.Rect, Text: b.Text, Src: b.Src, Style: Style{Color: &c}}
	switch b.Kind {
	case brochure.BlockFill:
		n.Type = NodeRect
	case brochure.BlockText:
		n.Type = NodeText
		n.Style.FontSize = b.Size
		n.Style.Bold = b.Bold
		n.Style.Align = b.Align
		n.Style.LineHeight = b.LineHeight
	case brochure.BlockImage:
		n.Type = NodeImage
		n.Style = Style{Fit: b.Fit}
	case brochure.BlockIcon:
		n.Type = NodeIcon
		n.Style.Fit = b.Fit
	case brochure.BlockLine:
		n.Type = NodeLine
	}
	return n
}

// Walk visits n and its descendants depth first.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}

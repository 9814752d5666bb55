package brochure

// Paginator is the web viewer's cursor over resolved sections. The cursor is
// always inside [0, count) for count > 0.
type Paginator struct {
	count   int
	current int
}

func NewPaginator(count int) *Paginator {
	return &Paginator{count: max(count, 0)}
}

func (p *Paginator) Current() int { return p.current }
func (p *Paginator) Count() int   { return p.count }

func (p *Paginator) HasNext() bool     { return p.current < p.count-1 }
func (p *Paginator) HasPrevious() bool { return p.current > 0 }

// Next advances one page; a no-op on the last page.
func (p *Paginator) Next() {
	if p.HasNext() {
		p.current++
	}
}

// Previous goes back one page; a no-op on the first page.
func (p *Paginator) Previous() {
	if p.HasPrevious() {
		p.current--
	}
}

// JumpTo moves the cursor, clamping into range. It is used when sections are
// recomputed, so callers never observe an out-of-range page.
func (p *Paginator) JumpTo(i int) {
	if i >= p.count {
		i = p.count - 1
	}
	if i < 0 {
		i = 0
	}
	p.current = i
}

// Resize applies a new section count after a recompute and keeps the cursor valid.
func (p *Paginator) Resize(count int) {
	p.count = max(count, 0)
	p.JumpTo(p.current)
}

// Section returns the section under the cursor.
func (p *Paginator) Section(sections []ResolvedSection) (ResolvedSection, bool) {
	if p.current < 0 || p.current >= len(sections) {
		return ResolvedSection{}, false
	}
	return sections[p.current], true
}

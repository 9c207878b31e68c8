package layout

import (
	"fmt"
	"strings"

	"nameplate/internal/domain"
	"nameplate/internal/labels"
)

// Settings controls page geometry and card composition.
type Settings struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	MaxBoxWidth  float64
	MaxBoxHeight float64
	// Spacing is the gap left below every placed block.
	Spacing float64
	// CaptionHeight is the band above each box holding the design caption.
	CaptionHeight float64
	BadgeWidth    float64

	Scaler labels.Scaler
	// Unit is printed next to dimensions ("in", "mm").
	Unit string
	// TextBudget is the per-line character budget on a card.
	TextBudget int
	// NotesWrap is the character width notes are wrapped at.
	NotesWrap int
}

// DefaultSettings is a US Letter page with two-inch-high boxes.
func DefaultSettings() Settings {
	return Settings{
		PageWidth:     612,
		PageHeight:    792,
		Margin:        36,
		MaxBoxWidth:   400,
		MaxBoxHeight:  144,
		Spacing:       18,
		CaptionHeight: 28,
		BadgeWidth:    110,
		Scaler:        labels.Scaler{UnitToPoint: 72, MinFont: 4, MaxFont: 72},
		Unit:          "in",
		TextBudget:    40,
		NotesWrap:     90,
	}
}

// ContentWidth is the horizontal space between margins.
func (s Settings) ContentWidth() float64 { return s.PageWidth - 2*s.Margin }

// UsableHeight is the vertical space between margins.
func (s Settings) UsableHeight() float64 { return s.PageHeight - 2*s.Margin }

const (
	ink          = "#111827"
	muted        = "#6B7280"
	badgeFill    = "#F3F4F6"
	stickyFill   = "#FEF3C7"
	headerSize   = 14
	captionSize  = 9
	badgeSize    = 9
	blockLine    = 14
	badgeHeight  = 18
	badgeGap     = 6
	cornerRadius = 0.08 // fraction of the shorter box side
)

type state int

const (
	stateAtTop state = iota
	statePlacing
	statePageFull
)

// PageCursor is the vertical position on the current page.
type PageCursor struct {
	Y    float64
	Page int
}

// Stats describes a finished render pass.
type Stats struct {
	Pages int
	Cards int
}

// Paginator lays blocks out top to bottom and breaks pages so that no block is split.
// It is single-use: one Paginator per render pass.
type Paginator struct {
	canvas Canvas
	s      Settings
	cursor PageCursor
	state  state
	cards  int
}

// NewPaginator starts page 0 on c.
func NewPaginator(c Canvas, s Settings) *Paginator {
	c.AddPage()
	return &Paginator{canvas: c, s: s, cursor: PageCursor{Y: s.Margin}, state: stateAtTop}
}

// Cursor reports the current position.
func (p *Paginator) Cursor() PageCursor { return p.cursor }

func (p *Paginator) bottom() float64 { return p.s.PageHeight - p.s.Margin }

// place reserves height on the current page, breaking first when the block would cross
// the bottom margin. A block taller than the page is drawn alone on a fresh page.
func (p *Paginator) place(height float64, draw func(y float64)) {
	p.placeWithGap(height, p.s.Spacing, draw)
}

// placeWithGap is place with an explicit gap below the block. Consecutive lines of one
// text block use a zero gap.
func (p *Paginator) placeWithGap(height, gap float64, draw func(y float64)) {
	for {
		switch p.state {
		case stateAtTop, statePlacing:
			if p.state == stateAtTop || p.cursor.Y+height <= p.bottom() {
				draw(p.cursor.Y)
				p.cursor.Y += height + gap
				p.state = statePlacing
				return
			}
			p.state = statePageFull
		case statePageFull:
			p.canvas.AddPage()
			p.cursor = PageCursor{Y: p.s.Margin, Page: p.cursor.Page + 1}
			p.state = stateAtTop
		}
	}
}

// Render draws the whole order: optional contact block, one card per design, optional
// notes block.
func Render(c Canvas, order *domain.OrderRequest, s Settings) Stats {
	p := NewPaginator(c, s)
	if order.ContactName != "" || order.ContactEmail != "" {
		p.contactBlock(order)
	}
	for _, d := range order.Labels {
		p.Card(d)
	}
	if strings.TrimSpace(order.Notes) != "" {
		p.notesBlock(order.Notes)
	}
	return Stats{Pages: p.cursor.Page + 1, Cards: p.cards}
}

// CardHeight is the vertical space one design occupies, excluding spacing: the caption
// plus the taller of the box and the badge column beside it.
func (s Settings) CardHeight(d domain.LabelDesign) float64 {
	_, maxW, maxH := s.boxBounds()
	box := s.Scaler.FitBox(d.Width, d.Height, maxW, maxH)
	return s.CaptionHeight + max(box.Height, badgeColumnHeight(d.StickyBack))
}

func badgeColumnHeight(sticky bool) float64 {
	if sticky {
		return 2*badgeHeight + badgeGap
	}
	return badgeHeight
}

func (s Settings) boxBounds() (x, maxW, maxH float64) {
	maxW = s.ContentWidth() - s.BadgeWidth
	if s.MaxBoxWidth > 0 && s.MaxBoxWidth < maxW {
		maxW = s.MaxBoxWidth
	}
	return s.Margin, maxW, s.MaxBoxHeight
}

// Card draws one design: caption, scaled box with its lines, quantity badge and the
// sticky-back badge when set.
func (p *Paginator) Card(d domain.LabelDesign) {
	s := p.s
	boxX, maxW, maxH := s.boxBounds()
	box := s.Scaler.FitBox(d.Width, d.Height, maxW, maxH)

	p.place(s.CardHeight(d), func(y float64) {
		p.canvas.Text(Text{
			X: boxX, Y: y + s.CaptionHeight*0.3, Size: captionSize + 1, Bold: true,
			Font: "Helvetica", Color: ink, Align: AlignLeft,
			Value: fmt.Sprintf("Label #%d  ·  %s x %s %s", d.ID, labels.FormatNumber(d.Width), labels.FormatNumber(d.Height), s.Unit),
		})
		p.canvas.Text(Text{
			X: boxX, Y: y + s.CaptionHeight*0.7, Size: captionSize,
			Font: "Helvetica", Color: muted, Align: AlignLeft,
			Value: fmt.Sprintf("%s on %s  ·  %s  ·  %s", labels.ResolveColorName(d.TextColor),
				labels.ResolveColorName(d.LabelColor), d.Font, labels.CornerLabel(d.Corners)),
		})

		boxY := y + s.CaptionHeight
		radius := 0.0
		if d.Corners == domain.CornersRounded {
			radius = cornerRadius * min(box.Width, box.Height)
		}
		p.canvas.Box(Box{
			X: boxX, Y: boxY, W: box.Width, H: box.Height,
			Fill: labels.CSSColor(d.LabelColor, domain.Defaults.LabelColor), Stroke: muted, Radius: radius,
		})
		textColor := labels.CSSColor(d.TextColor, domain.Defaults.TextColor)
		for _, ln := range labels.NonEmpty(d.TextLines) {
			tx, ty := labels.TextPosition(boxX, boxY, box, ln.X, ln.Y)
			p.canvas.Text(Text{
				X: tx, Y: ty, Size: s.Scaler.FontSize(ln.FontSize, box),
				Font: d.Font, Color: textColor, Align: AlignCenter,
				Value: labels.Truncate(ln.Text, s.TextBudget),
			})
		}

		badgeX := s.PageWidth - s.Margin - s.BadgeWidth
		p.badge(badgeX, boxY, fmt.Sprintf("QTY %d", d.EffectiveQuantity()), badgeFill)
		if d.StickyBack {
			p.badge(badgeX, boxY+badgeHeight+badgeGap, "STICKY BACK", stickyFill)
		}
	})
	p.cards++
}

func (p *Paginator) badge(x, y float64, label, fill string) {
	p.canvas.Box(Box{X: x, Y: y, W: p.s.BadgeWidth, H: badgeHeight, Fill: fill, Stroke: muted, Radius: 4})
	p.canvas.Text(Text{
		X: x + p.s.BadgeWidth/2, Y: y + badgeHeight/2, Size: badgeSize, Bold: true,
		Font: "Helvetica", Color: ink, Align: AlignCenter, Value: label,
	})
}

func (p *Paginator) contactBlock(order *domain.OrderRequest) {
	lines := []string{"Contact: " + order.ContactName}
	if order.ContactEmail != "" {
		lines = append(lines, "Email: "+order.ContactEmail)
	}
	height := headerSize + 6 + float64(len(lines))*blockLine
	p.place(height, func(y float64) {
		p.canvas.Text(Text{
			X: p.s.Margin, Y: y + headerSize/2, Size: headerSize, Bold: true,
			Font: "Helvetica", Color: ink, Value: "Order " + order.RefID,
		})
		for i, ln := range lines {
			p.canvas.Text(Text{
				X: p.s.Margin, Y: y + headerSize + 6 + float64(i)*blockLine + blockLine/2, Size: captionSize + 1,
				Font: "Helvetica", Color: ink, Value: ln,
			})
		}
	})
}

// notesBlock keeps the heading with the first line and lets the remaining lines break
// pages one at a time.
func (p *Paginator) notesBlock(notes string) {
	lines := Wrap(notes, p.s.NotesWrap)
	line := func(y float64, value string) {
		p.canvas.Text(Text{
			X: p.s.Margin, Y: y + blockLine/2, Size: captionSize + 1,
			Font: "Helvetica", Color: ink, Value: value,
		})
	}
	gapAfter := func(i int) float64 {
		if i == len(lines)-1 {
			return p.s.Spacing
		}
		return 0
	}

	p.placeWithGap(2*blockLine, gapAfter(0), func(y float64) {
		p.canvas.Text(Text{
			X: p.s.Margin, Y: y + blockLine/2, Size: captionSize + 1, Bold: true,
			Font: "Helvetica", Color: ink, Value: "Notes",
		})
		line(y+blockLine, lines[0])
	})
	for i := 1; i < len(lines); i++ {
		value := lines[i]
		p.placeWithGap(blockLine, gapAfter(i), func(y float64) { line(y, value) })
	}
}

// Wrap splits text into lines of at most width characters on word boundaries. Words
// longer than width are cut.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = 80
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		var cur []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			for len(w) > width {
				if len(cur) > 0 {
					out = append(out, string(cur))
					cur = nil
				}
				out = append(out, string(w[:width]))
				w = w[width:]
			}
			switch {
			case len(cur) == 0:
				cur = w
			case len(cur)+1+len(w) <= width:
				cur = append(append(cur, ' '), w...)
			default:
				out = append(out, string(cur))
				cur = w
			}
		}
		if len(cur) > 0 {
			out = append(out, string(cur))
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

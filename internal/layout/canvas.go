// Package layout places label cards on fixed-size pages and drives a drawing backend
// through the Canvas capability. Coordinates are points, origin top-left.
package layout

// Align selects how a Text anchor is interpreted horizontally. The anchor Y is always
// the vertical centre of the line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Box is a filled, optionally stroked rectangle.
type Box struct {
	X, Y, W, H float64
	Fill       string // #rrggbb, "" for no fill
	Stroke     string // #rrggbb, "" for no border
	Radius     float64
}

// Text is a single line of text.
type Text struct {
	X, Y  float64
	Size  float64
	Font  string
	Color string
	Bold  bool
	Align Align
	Value string
}

// Canvas is the drawing capability the paginator needs from a document backend.
type Canvas interface {
	AddPage()
	Box(b Box)
	Text(t Text)
}

// CommandKind tags a recorded draw command.
type CommandKind string

const (
	CmdPage CommandKind = "page"
	CmdBox  CommandKind = "box"
	CmdText CommandKind = "text"
)

// Command is one recorded draw call.
type Command struct {
	Kind CommandKind
	Page int
	Box  Box
	Text Text
}

// Recorder is a Canvas that keeps every call. Backends that render in a second pass
// (HTML pages for the browser printer) replay it.
type Recorder struct {
	Commands []Command
	page     int
	started  bool
}

func (r *Recorder) AddPage() {
	if r.started {
		r.page++
	}
	r.started = true
	r.Commands = append(r.Commands, Command{Kind: CmdPage, Page: r.page})
}

func (r *Recorder) Box(b Box) {
	r.Commands = append(r.Commands, Command{Kind: CmdBox, Page: r.page, Box: b})
}

func (r *Recorder) Text(t Text) {
	r.Commands = append(r.Commands, Command{Kind: CmdText, Page: r.page, Text: t})
}

// Pages returns the number of pages started.
func (r *Recorder) Pages() int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == CmdPage {
			n++
		}
	}
	return n
}

// Texts returns the recorded text commands, in draw order.
func (r *Recorder) Texts() []Text {
	var out []Text
	for _, c := range r.Commands {
		if c.Kind == CmdText {
			out = append(out, c.Text)
		}
	}
	return out
}

// Replay draws the recorded commands onto another canvas.
func (r *Recorder) Replay(c Canvas) {
	for _, cmd := range r.Commands {
		switch cmd.Kind {
		case CmdPage:
			c.AddPage()
		case CmdBox:
			c.Box(cmd.Box)
		case CmdText:
			c.Text(cmd.Text)
		}
	}
}

package display

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	padIdle    = 100
	padTouched = 5
	tapHold    = 120 * time.Millisecond

	// Each terminal cell covers a 2x4 pixel block (half-block glyph,
	// horizontal downscale), so 300x168 fits in 150x42 cells.
	termScaleX = 2
	termScaleY = 4
)

// Pad is a synthetic touch channel driven by the simulator keymap. Reads
// follow the hardware convention: raw values under the threshold mean
// touched.
type Pad struct {
	mu  sync.Mutex
	raw int
}

func (p *Pad) Read() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.raw, nil
}

func (p *Pad) set(raw int) {
	p.mu.Lock()
	p.raw = raw
	p.mu.Unlock()
}

// tap simulates a short touch: press now, release after the hold window.
func (p *Pad) tap() {
	p.set(padTouched)
	time.AfterFunc(tapHold, func() { p.set(padIdle) })
}

// hold simulates a long touch for the given duration.
func (p *Pad) hold(d time.Duration) {
	p.set(padTouched)
	time.AfterFunc(d, func() { p.set(padIdle) })
}

type simKeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Header   key.Binding
	Content  key.Binding
	Corner   key.Binding
	LongLeft key.Binding
	Quit     key.Binding
}

func newSimKeyMap() simKeyMap {
	return simKeyMap{
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("left", "tap left edge")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("right", "tap right edge")),
		Header:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "tap header")),
		Content:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "tap content")),
		Corner:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "tap settings corner")),
		LongLeft: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "hold left edge")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type frameMsg struct{}

// simModel renders the panel frame into the terminal with half-block
// glyphs, two pixels per cell vertically.
type simModel struct {
	term *Term
	keys simKeyMap
}

func (m simModel) Init() tea.Cmd { return nil }

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.term.pads[0].tap()
		case key.Matches(msg, m.keys.Right):
			m.term.pads[1].tap()
		case key.Matches(msg, m.keys.Header):
			m.term.pads[2].tap()
		case key.Matches(msg, m.keys.Content):
			m.term.pads[4].tap()
		case key.Matches(msg, m.keys.Corner):
			m.term.pads[5].tap()
		case key.Matches(msg, m.keys.LongLeft):
			m.term.pads[0].hold(1200 * time.Millisecond)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			point := image.Pt(msg.X*termScaleX, msg.Y*termScaleY)
			select {
			case m.term.touches <- point:
			default:
			}
		}
	case frameMsg:
		// State already updated, returning triggers a redraw.
	}

	return m, nil
}

func (m simModel) View() string {
	m.term.mu.Lock()
	defer m.term.mu.Unlock()

	if m.term.frame == nil {
		return "waiting for first frame"
	}

	level := m.term.brightness
	bounds := m.term.frame.Bounds()

	var b strings.Builder
	for y := bounds.Min.Y; y+termScaleY <= bounds.Max.Y; y += termScaleY {
		for x := bounds.Min.X; x+termScaleX <= bounds.Max.X; x += termScaleX {
			upper := dim(m.term.frame.RGBAAt(x, y+1), level)
			lower := dim(m.term.frame.RGBAAt(x, y+3), level)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(upper))).
				Background(lipgloss.Color(hexColor(lower))).
				Render("▀"))
		}
		b.WriteByte('\n')
	}
	b.WriteString("left/right navigate  h header  enter content  s settings  L long press  q quit")

	return b.String()
}

func hexColor(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// dim scales a pixel by the brightness percentage, so the simulator shows
// backlight changes and the idle blank.
func dim(c color.RGBA, percent int) [3]uint8 {
	return [3]uint8{
		uint8(int(c.R) * percent / 100),
		uint8(int(c.G) * percent / 100),
		uint8(int(c.B) * percent / 100),
	}
}

// Term is the desktop development backend: a bubbletea program standing in
// for the panel, with keys and mouse standing in for the touch pads.
type Term struct {
	mu         sync.Mutex
	frame      *image.RGBA
	brightness int

	pads    []*Pad
	touches chan image.Point
	program *tea.Program
	done    chan struct{}
}

func NewTerm() *Term {
	term := &Term{
		brightness: 100,
		pads:       make([]*Pad, 8),
		touches:    make(chan image.Point, 4),
		done:       make(chan struct{}),
	}
	for i := range term.pads {
		term.pads[i] = &Pad{raw: padIdle}
	}

	model := simModel{
		term: term,
		keys: newSimKeyMap(),
	}

	term.program = tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(30))

	go func() {
		if _, err := term.program.Run(); err != nil {
			slog.Error("Simulator exited", slog.String("error", err.Error()))
		}
		close(term.done)
	}()

	return term
}

// Pads returns the synthetic touch channels, indexed like the zone table.
func (t *Term) Pads() []*Pad {
	return t.pads
}

// Touches delivers mouse clicks as panel coordinates.
func (t *Term) Touches() <-chan image.Point {
	return t.touches
}

// Done closes when the operator quits the simulator.
func (t *Term) Done() <-chan struct{} {
	return t.done
}

func (t *Term) Flush(frame *image.RGBA) error {
	t.mu.Lock()
	if t.frame == nil || t.frame.Bounds() != frame.Bounds() {
		t.frame = image.NewRGBA(frame.Bounds())
	}
	copy(t.frame.Pix, frame.Pix)
	t.mu.Unlock()

	t.program.Send(frameMsg{})

	return nil
}

func (t *Term) SetBrightness(percent int) error {
	t.mu.Lock()
	t.brightness = percent
	t.mu.Unlock()

	return nil
}

func (t *Term) Close() error {
	t.program.Quit()
	select {
	case <-t.done:
	case <-time.After(time.Second):
	}

	return nil
}

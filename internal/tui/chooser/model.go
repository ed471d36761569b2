// Package chooser is the terminal overlay listing the resolved cycle order.
// It runs inside a tmux popup: the popup stands in for the held modifier,
// so committing or cancelling ends the gesture.
package chooser

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/sahilm/fuzzy"

	"github.com/hay-kot/cyclepanes/internal/core/chord"
	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/styles"
)

// modifierCode is the synthetic modifier the popup holds for its lifetime.
const modifierCode = "chooser"

const maxVisible = 12

// item is one visible row.
type item struct {
	pane    pane.Pane
	matched []int // rune indexes of Title matched by the filter
}

// Model is the chooser. It implements chord.Overlay so the tracker can open
// and close it.
type Model struct {
	ctx     context.Context
	tracker *chord.Tracker
	keys    KeyMap
	help    help.Model
	log     zerolog.Logger

	input  textinput.Model
	order  []pane.Pane
	items  []item
	cursor int
	scroll int
	open   bool

	done      bool
	committed bool
	err       error
}

var _ chord.Overlay = (*Model)(nil)

// New creates a chooser bound to tracker and starts the gesture. When the
// tracker allows the overlay, the pane list opens immediately.
func New(ctx context.Context, tracker *chord.Tracker, keys KeyMap, log zerolog.Logger) (*Model, error) {
	input := textinput.New()
	input.Placeholder = "filter"
	input.Prompt = "> "
	input.PromptStyle = styles.FilterPromptStyle
	input.Width = 40

	m := &Model{
		ctx:     ctx,
		tracker: tracker,
		keys:    keys,
		help:    help.New(),
		log:     log,
		input:   input,
	}

	tracker.SetOverlay(m)
	tracker.ModifierDown(modifierCode, time.Now())
	if err := tracker.OverlayKey(ctx); err != nil {
		tracker.Cancel()
		return nil, err
	}
	return m, nil
}

// Open implements chord.Overlay.
func (m *Model) Open(order []pane.Pane, selected int) {
	m.order = order
	m.open = true
	m.input.SetValue("")
	m.input.Focus()
	m.refilter()
	m.cursor = clamp(selected, len(m.items))
	m.adjustScroll()
}

// Close implements chord.Overlay.
func (m *Model) Close() {
	m.open = false
	m.input.Blur()
}

// IsOpen reports whether the pane list is showing.
func (m *Model) IsOpen() bool { return m.open }

// Committed reports whether the chooser ended by focusing a pane.
func (m *Model) Committed() bool { return m.committed }

// Err returns the error that ended the chooser, if any.
func (m *Model) Err() error { return m.err }

// Selected returns the highlighted pane in the open list.
func (m *Model) Selected() (pane.Pane, bool) {
	if !m.open || len(m.items) == 0 {
		return pane.Pane{}, false
	}
	return m.items[m.cursor].pane, true
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if !m.open {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.tracker.Cancel()
		return m.finish(nil)
	case key.Matches(msg, m.keys.Commit):
		if p, ok := m.Selected(); ok {
			m.tracker.Queue(p)
		}
		_, queued := m.tracker.Queued()
		err := m.tracker.ModifierUp(m.ctx, modifierCode)
		m.committed = queued && err == nil
		return m.finish(err)
	case key.Matches(msg, m.keys.Forward):
		return m.step(pane.Forward)
	case key.Matches(msg, m.keys.Backward):
		return m.step(pane.Backward)
	case key.Matches(msg, m.keys.Overlay):
		if err := m.tracker.OverlayKey(m.ctx); err != nil {
			m.tracker.Cancel()
			return m.finish(err)
		}
		return m, nil
	}

	if !m.open {
		return m, nil
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.refilter()
		m.cursor = 0
		m.scroll = 0
	}
	return m, cmd
}

// step moves the list cursor when the list is open and cycles through the
// tracker otherwise.
func (m *Model) step(dir pane.Direction) (tea.Model, tea.Cmd) {
	if m.open {
		if next, ok := dir.Step(m.cursor, len(m.items)); ok {
			m.cursor = next
			m.adjustScroll()
		}
		return m, nil
	}

	if err := m.tracker.Cycle(m.ctx, dir); err != nil {
		m.log.Warn().Err(err).Msg("cycle failed")
		m.err = err
	}
	return m, nil
}

func (m *Model) finish(err error) (tea.Model, tea.Cmd) {
	m.done = true
	m.err = err
	return m, tea.Quit
}

// refilter rebuilds the visible rows from the filter query. An empty query
// keeps the cycle order; otherwise rows are ranked by fuzzy score.
func (m *Model) refilter() {
	query := m.input.Value()
	if query == "" {
		m.items = make([]item, len(m.order))
		for i, p := range m.order {
			m.items[i] = item{pane: p}
		}
		return
	}

	matches := fuzzy.FindFrom(query, titles(m.order))
	m.items = make([]item, len(matches))
	for i, match := range matches {
		m.items[i] = item{pane: m.order[match.Index], matched: match.MatchedIndexes}
	}
}

func (m *Model) adjustScroll() {
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+maxVisible {
		m.scroll = m.cursor - maxVisible + 1
	}
}

// titles adapts a pane list to fuzzy.Source.
type titles []pane.Pane

func (t titles) String(i int) string { return t[i].Title }
func (t titles) Len() int            { return len(t) }

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

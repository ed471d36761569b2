package filter

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/cyclepanes/internal/core/pane"
	"github.com/hay-kot/cyclepanes/internal/core/settings"
)

func ids(panes []pane.Pane) []string {
	out := make([]string, len(panes))
	for i, p := range panes {
		out[i] = p.ID
	}
	return out
}

func mainPane(id string) pane.Pane {
	return pane.Pane{ID: id, Title: id, ViewType: "markdown", Root: pane.RootMain, Window: "w1"}
}

func snapshot(active string, panes ...pane.Pane) pane.Snapshot {
	return pane.Snapshot{Panes: panes, ActiveID: active, MainWindow: "w1", ActiveWindow: "w1"}
}

func TestEligible_SkipPinned(t *testing.T) {
	a := mainPane("A")
	b := mainPane("B")
	b.Pinned = true
	c := mainPane("C")

	s := settings.Default()
	s.SkipPinned = true
	s.UseViewTypes = false
	s.StayInSplit = false

	got := Eligible(snapshot("A", a, b, c), s)
	assert.Equal(t, []string{"A", "C"}, ids(got))

	s.SkipPinned = false
	got = Eligible(snapshot("A", a, b, c), s)
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
}

func TestEligible_SkipPinnedNeverYieldsPinned(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	roots := []pane.RootID{pane.RootMain, pane.RootLeft, pane.RootRight}

	for range 200 {
		var panes []pane.Pane
		for i := range rng.Intn(8) {
			p := mainPane(fmt.Sprintf("%%%d", i))
			p.Pinned = rng.Intn(2) == 0
			p.Root = roots[rng.Intn(len(roots))]
			panes = append(panes, p)
		}
		s := settings.Default()
		s.SkipPinned = true
		s.StayInSplit = rng.Intn(2) == 0

		active := ""
		if len(panes) > 0 {
			active = panes[0].ID
		}
		for _, p := range Eligible(snapshot(active, panes...), s) {
			assert.False(t, p.Pinned)
		}
	}
}

func TestEligible_ViewTypes(t *testing.T) {
	md := mainPane("md")
	pdf := mainPane("pdf")
	pdf.ViewType = "pdf"
	term := mainPane("term")
	term.ViewType = "term-zsh"

	s := settings.Default()
	s.UseViewTypes = true
	s.ViewTypes = []string{"markdown", "term-*"}

	got := Eligible(snapshot("md", md, pdf, term), s)
	assert.Equal(t, []string{"md", "term"}, ids(got))

	s.ViewTypes = nil
	assert.Empty(t, Eligible(snapshot("md", md, pdf, term), s))
}

func TestEligible_Scoping(t *testing.T) {
	main1 := mainPane("main1")
	main2 := mainPane("main2")
	left := mainPane("left")
	left.Root = pane.RootLeft
	right := mainPane("right")
	right.Root = pane.RootRight
	other := mainPane("other")
	other.Window = "w2"

	all := []pane.Pane{main1, left, main2, right, other}

	tests := []struct {
		name        string
		active      string
		stayInSplit bool
		want        []string
	}{
		{"main root only", "main1", false, []string{"main1", "main2"}},
		{"main root even from sidebar", "left", false, []string{"main1", "main2"}},
		{"stay in split from main", "main1", true, []string{"main1", "main2"}},
		{"stay in split from sidebar", "left", true, []string{"left"}},
		{"no active pane", "", false, []string{"main1", "main2"}},
		{"no active pane stay in split", "", true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Default()
			s.SkipPinned = false
			s.StayInSplit = tt.stayInSplit

			got := Eligible(snapshot(tt.active, all...), s)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestEligible_SecondaryWindow(t *testing.T) {
	main1 := mainPane("main1")
	pop1 := mainPane("pop1")
	pop1.Window = "w2"
	pop1.Root = "floating"
	pop2 := mainPane("pop2")
	pop2.Window = "w2"
	pop2.Root = "floating-2"

	snap := pane.Snapshot{
		Panes:        []pane.Pane{main1, pop1, pop2},
		ActiveID:     "pop1",
		MainWindow:   "w1",
		ActiveWindow: "w2",
	}

	got := Eligible(snap, settings.Default())
	assert.Equal(t, []string{"pop1", "pop2"}, ids(got), "cross-window panes excluded, whole secondary window eligible")
}

func TestEligible_Empty(t *testing.T) {
	got := Eligible(pane.Snapshot{}, settings.Default())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEligible_PreservesHostOrder(t *testing.T) {
	panes := []pane.Pane{mainPane("z"), mainPane("a"), mainPane("m")}
	got := Eligible(snapshot("a", panes...), settings.Default())
	assert.Equal(t, []string{"z", "a", "m"}, ids(got))
}

package chooser

import (
	"fmt"
	"strings"

	"github.com/hay-kot/cyclepanes/internal/core/styles"
)

func (m *Model) View() string {
	if m.done {
		return ""
	}
	if !m.open {
		return m.pendingView()
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Switch pane"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(styles.ItemDetailStyle.Render("no matching panes"))
	}

	end := min(m.scroll+maxVisible, len(m.items))
	for i := m.scroll; i < end; i++ {
		b.WriteString(m.renderItem(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.ModalHelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return styles.ModalStyle.Render(b.String())
}

// pendingView is shown while cycling without the list: the queued target,
// if any, and the keys.
func (m *Model) pendingView() string {
	line := styles.ItemDetailStyle.Render("no target yet")
	if p, ok := m.tracker.Queued(); ok {
		line = fmt.Sprintf("%s %s", styles.IconForView(p.ViewType), styles.ItemNormalStyle.Render(p.Title))
	}
	return line + "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
}

func (m *Model) renderItem(i int) string {
	it := m.items[i]
	icon := styles.IconForView(it.pane.ViewType)
	detail := styles.ItemDetailStyle.Render(fmt.Sprintf("  %s · %s", it.pane.Root, it.pane.ViewType))

	if i == m.cursor {
		return styles.ItemSelectedStyle.Render(fmt.Sprintf(" %s %s ", icon, it.pane.Title)) + detail
	}
	return fmt.Sprintf(" %s %s ", icon, highlight(it.pane.Title, it.matched)) + detail
}

// highlight styles the matched characters of s. Indexes are byte offsets.
func highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return styles.ItemNormalStyle.Render(s)
	}

	hit := make(map[int]bool, len(matched))
	for _, idx := range matched {
		hit[idx] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(styles.ItemMatchStyle.Render(string(r)))
		} else {
			b.WriteString(styles.ItemNormalStyle.Render(string(r)))
		}
	}
	return b.String()
}

// Package tuitest provides testing utilities for TUI components.
package tuitest

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes ANSI escape codes and trailing whitespace for cleaner golden files.
// This makes golden files human-readable and less fragile to style changes.
func StripANSI(s string) string {
	s = ansi.Strip(s)
	lines := strings.Split(s, "\n")
	var result []string
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " ")
		result = append(result, trimmed)
	}
	return strings.TrimRight(strings.Join(result, "\n"), "\n")
}

// KeyPress creates a key press message for a single rune.
func KeyPress(key rune) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}}
}

// KeyPressString creates a key press message carrying every rune of s.
func KeyPressString(s string) tea.Msg {
	if s == "" {
		return nil
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// KeyType creates a key press message for a special key such as
// tea.KeyTab or tea.KeyCtrlO.
func KeyType(k tea.KeyType) tea.Msg {
	return tea.KeyMsg{Type: k}
}

// KeyEnter creates an enter key press message.
func KeyEnter() tea.Msg {
	return KeyType(tea.KeyEnter)
}

// KeyEsc creates an escape key press message.
func KeyEsc() tea.Msg {
	return KeyType(tea.KeyEsc)
}

// WindowSize creates a window size message.
func WindowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}

// Package settings defines the user-facing cycling configuration and its
// persisted layout.
package settings

import (
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Settings is the cycling configuration plus the per-workspace tab history.
// The JSON layout is the persisted key-value blob.
type Settings struct {
	SkipPinned             bool                `json:"skipPinned"`
	UseViewTypes           bool                `json:"useViewTypes"`
	ViewTypes              []string            `json:"viewTypes"`
	FocusLeafOnKeyUp       bool                `json:"focusLeafOnKeyUp"`
	ShowModal              bool                `json:"showModal"`
	StayInSplit            bool                `json:"stayInSplit"`
	TabHistoryPerWorkspace map[string][]string `json:"tabHistoryPerWorkspace"`
}

// Default returns the settings used for fields missing from existing
// persisted data.
func Default() Settings {
	return Settings{
		SkipPinned:             true,
		UseViewTypes:           false,
		ViewTypes:              []string{},
		FocusLeafOnKeyUp:       false,
		ShowModal:              false,
		StayInSplit:            false,
		TabHistoryPerWorkspace: map[string][]string{},
	}
}

// NewUser returns the settings used on first run, when nothing has been
// persisted yet.
func NewUser() Settings {
	return Settings{
		SkipPinned:             false,
		UseViewTypes:           false,
		ViewTypes:              []string{},
		FocusLeafOnKeyUp:       true,
		ShowModal:              false,
		StayInSplit:            false,
		TabHistoryPerWorkspace: map[string][]string{},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.ViewTypes = slices.Clone(s.ViewTypes)
	if out.ViewTypes == nil {
		out.ViewTypes = []string{}
	}
	out.TabHistoryPerWorkspace = make(map[string][]string, len(s.TabHistoryPerWorkspace))
	for k, v := range s.TabHistoryPerWorkspace {
		out.TabHistoryPerWorkspace[k] = slices.Clone(v)
	}
	return out
}

// AllowsViewType reports whether viewType passes the allow-list. Entries are
// doublestar patterns; a plain entry matches only itself. The allow-list is
// ignored unless UseViewTypes is set.
func (s Settings) AllowsViewType(viewType string) bool {
	if !s.UseViewTypes {
		return true
	}
	for _, pattern := range s.ViewTypes {
		if pattern == viewType {
			return true
		}
		if ok, err := doublestar.Match(pattern, viewType); err == nil && ok {
			return true
		}
	}
	return false
}

// HasViewType reports whether viewType is listed verbatim.
func (s Settings) HasViewType(viewType string) bool {
	return slices.Contains(s.ViewTypes, viewType)
}

// AddViewType appends viewType to the allow-list. It reports false when the
// entry was already present.
func (s *Settings) AddViewType(viewType string) bool {
	if s.HasViewType(viewType) {
		return false
	}
	s.ViewTypes = append(s.ViewTypes, viewType)
	return true
}

// RemoveViewType drops viewType from the allow-list. It reports false when
// the entry was not present.
func (s *Settings) RemoveViewType(viewType string) bool {
	i := slices.Index(s.ViewTypes, viewType)
	if i < 0 {
		return false
	}
	s.ViewTypes = slices.Delete(s.ViewTypes, i, i+1)
	return true
}

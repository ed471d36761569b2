// Package history tracks recently focused panes per workspace.
package history

import "slices"

// MaxEntries bounds every TabHistory.
const MaxEntries = 100

// TabHistory is a most-recent-first list of unique pane identifiers.
type TabHistory struct {
	ids []string
}

// NewTabHistory builds a history from persisted ids, dropping duplicates
// and blanks and capping it at MaxEntries.
func NewTabHistory(ids []string) *TabHistory {
	return &TabHistory{ids: Normalize(ids)}
}

// Record moves id to the front, inserting it when absent.
func (h *TabHistory) Record(id string) {
	if id == "" {
		return
	}
	if i := slices.Index(h.ids, id); i >= 0 {
		h.ids = slices.Delete(h.ids, i, i+1)
	}
	h.ids = slices.Insert(h.ids, 0, id)
	if len(h.ids) > MaxEntries {
		h.ids = h.ids[:MaxEntries]
	}
}

// IDs returns a copy of the entries, most recent first.
func (h *TabHistory) IDs() []string {
	if h == nil {
		return []string{}
	}
	out := make([]string, len(h.ids))
	copy(out, h.ids)
	return out
}

// Len returns the number of entries.
func (h *TabHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.ids)
}

// Normalize keeps the first occurrence of each non-empty id, in order, up to
// MaxEntries.
func Normalize(ids []string) []string {
	out := make([]string, 0, min(len(ids), MaxEntries))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == MaxEntries {
			break
		}
	}
	return out
}

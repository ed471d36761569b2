package settings

import (
	"encoding/json"
	"fmt"

	"github.com/hay-kot/cyclepanes/internal/core/history"
)

// Warning describes persisted data that was replaced by a default.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

// stored mirrors Settings with optional fields so unset values can fall
// back to defaults individually.
type stored struct {
	SkipPinned             *bool                      `json:"skipPinned"`
	UseViewTypes           *bool                      `json:"useViewTypes"`
	ViewTypes              json.RawMessage            `json:"viewTypes"`
	FocusLeafOnKeyUp       *bool                      `json:"focusLeafOnKeyUp"`
	ShowModal              *bool                      `json:"showModal"`
	StayInSplit            *bool                      `json:"stayInSplit"`
	TabHistoryPerWorkspace map[string]json.RawMessage `json:"tabHistoryPerWorkspace"`
}

// Decode builds Settings from a persisted blob. A nil blob means first run
// and yields NewUser. Otherwise every present field overrides Default.
// Corrupt input never fails: the affected fields keep their defaults and
// a Warning is returned for each.
func Decode(raw []byte) (Settings, []Warning) {
	if raw == nil {
		return NewUser(), nil
	}

	out := Default()
	var warnings []Warning

	var doc stored
	if err := json.Unmarshal(raw, &doc); err != nil {
		return out, []Warning{{Field: "settings", Message: fmt.Sprintf("unreadable, using defaults: %v", err)}}
	}

	setBool(&out.SkipPinned, doc.SkipPinned)
	setBool(&out.UseViewTypes, doc.UseViewTypes)
	setBool(&out.FocusLeafOnKeyUp, doc.FocusLeafOnKeyUp)
	setBool(&out.ShowModal, doc.ShowModal)
	setBool(&out.StayInSplit, doc.StayInSplit)

	if len(doc.ViewTypes) > 0 && string(doc.ViewTypes) != "null" {
		var types []string
		if err := json.Unmarshal(doc.ViewTypes, &types); err != nil {
			warnings = append(warnings, Warning{Field: "viewTypes", Message: "not a list of strings, using defaults"})
		} else {
			out.ViewTypes = types
		}
	}

	for ws, data := range doc.TabHistoryPerWorkspace {
		var ids []string
		if err := json.Unmarshal(data, &ids); err != nil {
			warnings = append(warnings, Warning{
				Field:   "tabHistoryPerWorkspace." + ws,
				Message: "not a list of strings, starting with empty history",
			})
			continue
		}
		out.TabHistoryPerWorkspace[ws] = history.Normalize(ids)
	}

	return out, warnings
}

// Encode serializes s in the persisted layout.
func Encode(s Settings) ([]byte, error) {
	s = s.Clone()
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return data, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

package doctor

import (
	"context"
	"fmt"
	"time"
)

// staleAfter is how long without a recorded activation before the hook is
// reported as possibly missing.
const staleAfter = 24 * time.Hour

// RecordSource reports when the tmux hook last recorded a pane activation.
type RecordSource interface {
	LastRecorded(ctx context.Context) (time.Time, bool, error)
}

// RecordHookCheck verifies that the pane-focus hook has fired recently.
type RecordHookCheck struct {
	src RecordSource
	now func() time.Time
}

// NewRecordHookCheck creates a new hook check.
func NewRecordHookCheck(src RecordSource, now func() time.Time) *RecordHookCheck {
	if now == nil {
		now = time.Now
	}
	return &RecordHookCheck{src: src, now: now}
}

func (c *RecordHookCheck) Name() string {
	return "Activation Hook"
}

func (c *RecordHookCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	at, ok, err := c.src.LastRecorded(ctx)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "last record",
			Status: StatusFail,
			Detail: fmt.Sprintf("read failed: %v", err),
		})
	case !ok:
		result.Items = append(result.Items, CheckItem{
			Label:  "last record",
			Status: StatusWarn,
			Detail: "hook has never fired; source the output of 'cyclepanes tmux-conf'",
		})
	default:
		age := c.now().Sub(at).Round(time.Second)
		item := CheckItem{
			Label:  "last record",
			Status: StatusPass,
			Detail: fmt.Sprintf("%s ago", age),
		}
		if age > staleAfter {
			item.Status = StatusWarn
			item.Detail = fmt.Sprintf("%s ago; is the pane-focus hook still installed?", age)
		}
		result.Items = append(result.Items, item)
	}

	return result
}

package pane

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_Step(t *testing.T) {
	tests := []struct {
		name   string
		dir    Direction
		index  int
		length int
		want   int
		ok     bool
	}{
		{"forward middle", Forward, 1, 3, 2, true},
		{"forward wraps", Forward, 2, 3, 0, true},
		{"backward middle", Backward, 1, 3, 0, true},
		{"backward wraps", Backward, 0, 3, 2, true},
		{"single element", Forward, 0, 1, 0, true},
		{"empty", Forward, 0, 0, 0, false},
		{"empty backward", Backward, 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.dir.Step(tt.index, tt.length)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirection_StepIsReversible(t *testing.T) {
	for length := 1; length <= 5; length++ {
		for i := range length {
			fwd, ok := Forward.Step(i, length)
			require.True(t, ok)
			back, ok := Backward.Step(fwd, length)
			require.True(t, ok)
			assert.Equal(t, i, back, "length=%d index=%d", length, i)
		}
	}
}

func TestSnapshot_Active(t *testing.T) {
	snap := Snapshot{
		Panes:    []Pane{{ID: "%1"}, {ID: "%2"}},
		ActiveID: "%2",
	}

	p, ok := snap.Active()
	require.True(t, ok)
	assert.Equal(t, "%2", p.ID)

	snap.ActiveID = ""
	_, ok = snap.Active()
	assert.False(t, ok)

	snap.ActiveID = "%9"
	_, ok = snap.Active()
	assert.False(t, ok, "active id of a closed pane")
}

func TestSnapshot_MostRecentIn(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	snap := Snapshot{Panes: []Pane{
		{ID: "%1", Root: RootLeft, ActiveTime: base},
		{ID: "%2", Root: RootLeft, ActiveTime: base.Add(time.Minute)},
		{ID: "%3", Root: RootRight, ActiveTime: base.Add(time.Hour)},
		{ID: "%4", Root: RootLeft},
	}}

	p, ok := snap.MostRecentIn(RootLeft)
	require.True(t, ok)
	assert.Equal(t, "%2", p.ID)

	_, ok = snap.MostRecentIn(RootMain)
	assert.False(t, ok)

	never := Snapshot{Panes: []Pane{{ID: "%1", Root: RootRight}}}
	_, ok = never.MostRecentIn(RootRight)
	assert.False(t, ok, "panes without an active time are not candidates")
}

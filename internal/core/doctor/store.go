package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/cyclepanes/internal/core/kv"
)

// StoreCheck verifies that the key-value store can be read.
type StoreCheck struct {
	store    kv.KV
	location string
}

// NewStoreCheck creates a new store check. location is only displayed.
func NewStoreCheck(store kv.KV, location string) *StoreCheck {
	return &StoreCheck{store: store, location: location}
}

func (c *StoreCheck) Name() string {
	return "Storage"
}

func (c *StoreCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	keys, err := c.store.ListKeys(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.location,
			Status: StatusFail,
			Detail: fmt.Sprintf("read failed: %v", err),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.location,
		Status: StatusPass,
		Detail: fmt.Sprintf("%d keys", len(keys)),
	})
	return result
}

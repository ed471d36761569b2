package doctor

import (
	"context"
	"fmt"
	"os"
)

// DataDirCheck verifies that the data directory exists and is a directory.
// With autofix a missing directory is created.
type DataDirCheck struct {
	dir     string
	autofix bool
}

// NewDataDirCheck creates a new data directory check.
func NewDataDirCheck(dir string, autofix bool) *DataDirCheck {
	return &DataDirCheck{dir: dir, autofix: autofix}
}

func (c *DataDirCheck) Name() string {
	return "Data Directory"
}

func (c *DataDirCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dir)
	switch {
	case os.IsNotExist(err):
		if c.autofix {
			if err := os.MkdirAll(c.dir, 0o755); err != nil {
				result.Items = append(result.Items, CheckItem{
					Label:  c.dir,
					Status: StatusFail,
					Detail: fmt.Sprintf("create failed: %v", err),
				})
				return result
			}
			result.Items = append(result.Items, CheckItem{
				Label:  c.dir,
				Status: StatusPass,
				Detail: "created",
			})
			return result
		}
		result.Items = append(result.Items, CheckItem{
			Label:   c.dir,
			Status:  StatusWarn,
			Detail:  "directory does not exist",
			Fixable: true,
		})
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusFail,
			Detail: "path is not a directory",
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dir,
			Status: StatusPass,
		})
	}

	return result
}

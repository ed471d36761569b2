package app

import (
	"context"

	"github.com/hay-kot/cyclepanes/internal/core/doctor"
	"github.com/hay-kot/cyclepanes/internal/data/state"
	"github.com/hay-kot/cyclepanes/internal/host/tmux"
)

// DoctorService runs health checks on the cyclepanes setup.
type DoctorService struct {
	app *App
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(a *App) *DoctorService {
	return &DoctorService{app: a}
}

// RunChecks executes all doctor checks and returns results.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	cfg := d.app.Config
	checks := []doctor.Check{
		doctor.NewConfigCheck(cfg, configPath),
		doctor.NewTmuxCheck(cfg.Tmux.Path, d.app.Host, tmux.InsideTmux),
		doctor.NewDataDirCheck(cfg.DataDir, autofix),
		doctor.NewStoreCheck(d.app.Store, state.Location(state.Backend(cfg.Storage.Backend), cfg.DataDir)),
		doctor.NewRecordHookCheck(d.app.State, d.app.now),
	}
	return doctor.RunAll(ctx, checks)
}

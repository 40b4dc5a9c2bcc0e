package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"

	"lifereel/internal/core"
	"lifereel/internal/record"
)

// SetupLogging routes apex/log output to stderr.
func SetupLogging(verbose bool) {
	log.SetHandler(cli.New(os.Stderr))
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.InfoLevel)
}

// RunStatus summarises the host loop for the HUD.
type RunStatus struct {
	Interval time.Duration
	Paused   bool
	Rec      Recording
	// RecErr is the failure that disabled recording, if any.
	RecErr error
	// Finalizing is set while a finished recording is being encoded.
	Finalizing bool
}

type optioned interface {
	Options() record.Options
}

// Parameters implements core.ParameterProvider.
func (s RunStatus) Parameters() core.ParameterSnapshot {
	run := core.ParameterGroup{Name: "Run", Params: []core.Parameter{
		{Key: "interval", Label: "Interval", Type: core.ParamTypeString, Value: s.Interval.String()},
		{Key: "paused", Label: "Paused", Type: core.ParamTypeBool, Value: strconv.FormatBool(s.Paused)},
	}}
	rec := core.ParameterGroup{Name: "Recording"}
	switch {
	case s.RecErr != nil:
		rec.Params = []core.Parameter{{Key: "state", Label: "State", Type: core.ParamTypeString, Value: "failed"}}
	case s.Finalizing:
		rec.Params = []core.Parameter{{Key: "state", Label: "State", Type: core.ParamTypeString, Value: "finalizing"}}
	case s.Rec == nil:
		rec.Params = []core.Parameter{{Key: "state", Label: "State", Type: core.ParamTypeString, Value: "off"}}
	default:
		rec.Params = []core.Parameter{
			{Key: "state", Label: "State", Type: core.ParamTypeString, Value: "on"},
			{Key: "elapsed", Label: "Length", Type: core.ParamTypeString, Value: fmt.Sprintf("%.1fs", s.Rec.Elapsed().Seconds())},
		}
		if o, ok := s.Rec.(optioned); ok {
			opts := o.Options()
			rec.Params = append(rec.Params,
				core.Parameter{Key: "strategy", Label: "Buffer", Type: core.ParamTypeString, Value: opts.Strategy.String()},
				core.Parameter{Key: "output", Label: "Output", Type: core.ParamTypeString, Value: opts.Output},
			)
		}
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{run, rec}}
}

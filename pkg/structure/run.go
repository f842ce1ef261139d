// Package structure builds the workbasket trees of a generation run.
//
// A Run owns the counters shared by all of its domains. Every domain gets its
// own Builder, which creates containers layer by layer, wires distribution
// edges, propagates access rights along them and finally resolves the
// hierarchical identifiers of the whole tree.
package structure

import (
	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/calendar"
)

// Run is the state of one generation pass. Two runs never share counters, so
// building the same scenario twice yields identical data.
type Run struct {
	log       zerolog.Logger
	accessSeq int
}

type RunOption func(*Run)

func WithLogger(log zerolog.Logger) RunOption {
	return func(r *Run) {
		r.log = log
	}
}

func NewRun(opts ...RunOption) *Run {
	r := &Run{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Domain starts the tree of one domain. Creation timestamps come from clock; a
// nil clock uses the default weekly schedule.
func (r *Run) Domain(name string, clock *calendar.Scheduler) *Builder {
	if clock == nil {
		clock = calendar.Default()
	}
	log := r.log.With().Str("domain", name).Logger()
	return &Builder{
		domain:  name,
		clock:   clock,
		encoder: newEncoder(),
		access:  newPropagator(r),
		log:     log,
	}
}

func (r *Run) nextAccessSeq() int {
	seq := r.accessSeq
	r.accessSeq++
	return seq
}

package system

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	name  string
	phase Phase
	log   *[]string
	err   error
}

func (p *probe) Phase() Phase { return p.phase }

func (p *probe) Update(time.Duration) error {
	*p.log = append(*p.log, p.name)
	return p.err
}

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&probe{name: "render", phase: PhaseOutput, log: &log})
	r.Register(&probe{name: "logic", phase: PhaseLogic, log: &log})
	r.Register(&probe{name: "input", phase: PhaseInput, log: &log})
	r.Register(&probe{name: "logic2", phase: PhaseLogic, log: &log})

	require.NoError(t, r.Tick(time.Millisecond))
	assert.Equal(t, []string{"input", "logic", "logic2", "render"}, log)
	assert.EqualValues(t, 1, r.Ticks())
}

func TestRunnerStopsOnError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	r := NewRunner()
	r.Register(&probe{name: "logic", phase: PhaseLogic, log: &log, err: boom})
	r.Register(&probe{name: "render", phase: PhaseOutput, log: &log})

	err := r.Tick(time.Millisecond)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "logic system")
	assert.Equal(t, []string{"logic"}, log)
	assert.EqualValues(t, 0, r.Ticks())
}

func TestTickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&probe{name: "input", phase: PhaseInput, log: &log})
	r.Register(&probe{name: "logic", phase: PhaseLogic, log: &log})

	require.NoError(t, r.TickPhase(PhaseInput, time.Millisecond))
	assert.Equal(t, []string{"input"}, log)
	assert.Equal(t, "input", PhaseInput.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

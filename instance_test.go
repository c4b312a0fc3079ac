package exbo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInstance_Empty(t *testing.T) {
	ins := NewInstance()
	tm, status := ins.PreviousAttemptTime()
	assert.Equal(t, Status(0), status)
	assert.Equal(t, MinimumTime, tm) // never-recorded sentinel is masked up to MinimumTime
}

func TestNewConfiguredInstance_PanicsOnInvalidPolicy(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid policy")
		}
	}()
	NewConfiguredInstance(0.5, 10, 30)
}

func TestInstance_FirstRecord(t *testing.T) {
	ins := NewConfiguredInstance(2.0, 10, 30)
	status := ins.Record(0)
	assert.Equal(t, Status(0), status)

	payBack, s := ins.PayBackTime()
	assert.Equal(t, Status(0), s)
	assert.Equal(t, int64(10), payBack) // T=0, D=A=10

	next, s := ins.NextAttemptTime()
	assert.Equal(t, Status(0), s)
	assert.Equal(t, int64(2), next) // T=0, I=2 (hand-derived from rootJ(2,2))
}

// Attempts spaced exactly one base interval apart are break-even: decay
// cancels the new attempt's cost, so debt never climbs above A.
func TestInstance_SteadyStateSpacingDoesNotAccumulateDebt(t *testing.T) {
	ins := NewConfiguredInstance(2.0, 10, 30)
	for _, tOut := range []int64{0, 10, 20, 30} {
		status := ins.Record(tOut)
		assert.True(t, status.OK() || status.IsWarning(), "Record(%d): %v", tOut, status)
	}
	payBack, _ := ins.PayBackTime()
	assert.Equal(t, int64(40), payBack) // T=30, D=10 -> 30+10
}

// Attempts spaced well under the decay window let debt build past the
// limit, exercising the over-saturated branch and the breach warning.
func TestInstance_RapidAttemptsBreachLimit(t *testing.T) {
	ins := NewConfiguredInstance(2.0, 10, 30)
	var last Status
	for _, tOut := range []int64{0, 1, 2, 3} {
		last = ins.Record(tOut)
	}
	assert.Equal(t, WarnExcessCostLimitBreach, last)

	payBack, _ := ins.PayBackTime()
	assert.Equal(t, int64(40), payBack) // T=3, D=37 -> 3+37

	next, _ := ins.NextAttemptTime()
	assert.Equal(t, int64(20), next) // T=3, I=17 -> 3+17
}

func TestInstance_EarlyAttemptWarning(t *testing.T) {
	ins := NewConfiguredInstance(2.0, 60_000, 360_000)
	assert.Equal(t, Status(0), ins.Record(0))
	status := ins.Record(100)
	assert.Equal(t, WarnAttemptIsEarlierThanRecommended, status)

	payBack, _ := ins.PayBackTime()
	assert.Equal(t, int64(100+119_900), payBack) // T=100, D=59900+60000
}

func TestInstance_OutOfOrderAttempt(t *testing.T) {
	ins := NewConfiguredInstance(2.0, 60_000, 360_000)
	assert.Equal(t, Status(0), ins.Record(1000))

	before, _ := ins.PreviousAttemptTime()
	status := ins.Record(500)
	assert.Equal(t, ErrRecordingAPriorAttempt, status)

	after, _ := ins.PreviousAttemptTime()
	assert.Equal(t, before, after) // state unchanged
}

func TestInstance_DebtOverflowSaturates(t *testing.T) {
	ins := NewConfiguredInstance(2.0, math.MaxInt64-5, math.MaxInt64)
	assert.Equal(t, Status(0), ins.Record(0))
	status := ins.Record(1)
	assert.Equal(t, WarnExcessCostLimitBreachWithDebtOverflow, status)

	payBack, s := ins.PayBackTime()
	assert.Equal(t, ErrPayBackTimeOverflow, s)
	assert.Equal(t, int64(0), payBack)
}

func TestInstance_NoConfig(t *testing.T) {
	var ins Instance
	assert.Equal(t, ErrNoConfig, ins.Record(0))
}

func TestInstance_NilReceiver(t *testing.T) {
	var ins *Instance
	assert.Equal(t, ErrNoInstance, ins.Record(0))
	_, s := ins.PreviousAttemptTime()
	assert.Equal(t, ErrNoInstance, s)
	_, s = ins.NextAttemptTime()
	assert.Equal(t, ErrNoInstance, s)
	_, s = ins.PayBackTime()
	assert.Equal(t, ErrNoInstance, s)
}

func TestInstance_NegativeStateInvariantChecks(t *testing.T) {
	ins := NewConfiguredInstance(2.0, 10, 30)
	assert.Equal(t, Status(0), ins.Record(0))

	ins.i = -1
	_, s := ins.NextAttemptTime()
	assert.Equal(t, ErrStateWithNegativeI, s)

	ins.i = 2
	ins.d = -1
	_, s = ins.PayBackTime()
	assert.Equal(t, ErrStateWithNegativeD, s)
}

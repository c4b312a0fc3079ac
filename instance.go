package exbo

import (
	"fmt"
	"math"
)

// neverRecorded is the sentinel T value for an Instance that has not yet
// had an attempt recorded against it. It is chosen to coincide with
// EncodeTimeError(0): "nothing has happened yet" and "no error" share a
// representation.
const neverRecorded = int64(math.MinInt64)

// Instance is a single, stateful back-off tracker: the policy it was built
// with (X, A, L), plus the mutable attempt state (T, D, I).
//
// An Instance is not safe for concurrent use.
type Instance struct {
	config *Config
	t      int64
	d      int64
	i      int64
}

// NewInstance creates an empty Instance with a default, unconfigured
// policy. The policy is validated and frozen lazily, on the first Record
// call.
func NewInstance() *Instance {
	return &Instance{config: &Config{}, t: neverRecorded}
}

// NewConfiguredInstance creates an Instance with an explicit policy,
// validating and freezing it immediately. It panics if the policy is
// invalid, the same way catrate.NewLimiter panics on invalid rates:
// constructing with a bad policy is a programmer error, not a recoverable
// runtime condition.
func NewConfiguredInstance(x float64, a, l int64) *Instance {
	ins := NewInstance()
	if s := ins.config.ConfigureX(x); s != 0 {
		panic(fmt.Errorf("exbo: invalid policy X=%v: %v", x, s))
	}
	if s := ins.config.ConfigureA(a); s != 0 {
		panic(fmt.Errorf("exbo: invalid policy A=%v: %v", a, s))
	}
	if s := ins.config.ConfigureL(l); s != 0 {
		panic(fmt.Errorf("exbo: invalid policy L=%v: %v", l, s))
	}
	if s := ins.config.Finish(); s != 0 {
		panic(fmt.Errorf("exbo: invalid policy (X=%v, A=%v, L=%v): %v", x, a, l, s))
	}
	return ins
}

func (ins *Instance) ok() bool { return ins != nil && ins.config != nil }

// Config exposes the policy owned by this Instance, for configuring prior
// to the first Record. Once Record has finished the config, further
// Configure* calls still work (they unfreeze it), but take effect only
// from the next Record onward.
func (ins *Instance) Config() *Config {
	if ins == nil {
		return nil
	}
	return ins.config
}

// Record advances the state machine with a newly observed attempt time. It
// returns a hard error (and leaves state untouched) if the instance has no
// config, the config is invalid, or tOut predates the previously recorded
// attempt. Otherwise it returns 0 or a warning, and T, D, I are all
// updated.
func (ins *Instance) Record(tOut int64) Status {
	if ins == nil {
		return ErrNoInstance
	}
	if ins.config == nil {
		return ErrNoConfig
	}
	if !ins.config.finished {
		if s := ins.config.Finish(); s != 0 {
			return s
		}
	}

	tIn := ins.t
	if tIn != neverRecorded && tOut < tIn {
		return ErrRecordingAPriorAttempt
	}

	delta, deltaOK := int64(0), false
	if tIn != neverRecorded {
		delta, deltaOK = checkedSubInt64(tOut, tIn)
	}
	deltaOverflowed := tIn == neverRecorded || !deltaOK

	dIn := ins.d
	var dPrime int64
	if deltaOverflowed || delta >= dIn {
		dPrime = 0
	} else {
		dPrime = dIn - delta
	}

	a, _ := ins.config.A()
	l, _ := ins.config.L()
	x, _ := ins.config.X()

	dOut, addOK := checkedAddInt64(dPrime, a)
	debtOverflowed := !addOK
	if debtOverflowed {
		dOut = math.MaxInt64
	}

	iOut, intervalStatus := interval(l, a, x, dOut)

	earlyWarning := false
	if tIn != neverRecorded {
		if recommended, ok := checkedAddInt64(tIn, ins.i); ok {
			earlyWarning = tOut < recommended
		}
	}

	ins.t = tOut
	ins.d = dOut
	ins.i = iOut

	switch {
	case debtOverflowed:
		return WarnExcessCostLimitBreachWithDebtOverflow
	case intervalStatus == WarnExcessCostLimitBreach:
		return WarnExcessCostLimitBreach
	case earlyWarning:
		return WarnAttemptIsEarlierThanRecommended
	default:
		return 0
	}
}

// PreviousAttemptTime returns T: the time of the last recorded attempt.
// Before the first Record, T holds the never-recorded sentinel, which is
// clamped up to MinimumTime rather than returned raw, so callers never see
// a value inside the reserved error band.
func (ins *Instance) PreviousAttemptTime() (int64, Status) {
	if !ins.ok() {
		return 0, ErrNoInstance
	}
	if ins.t < MinimumTime {
		return MinimumTime, 0
	}
	return ins.t, 0
}

// NextAttemptTime returns T + I: the earliest recommended time of the next
// attempt. It fails with ErrNextTimeOverflow if that sum overflows, and
// with ErrStateWithNegativeI if the internal I invariant has somehow been
// violated. A sum that is legal but still falls below MinimumTime is
// masked up to MinimumTime rather than returned raw.
func (ins *Instance) NextAttemptTime() (int64, Status) {
	if !ins.ok() {
		return 0, ErrNoInstance
	}
	if ins.i < 0 {
		return 0, ErrStateWithNegativeI
	}
	sum, ok := checkedAddInt64(ins.t, ins.i)
	if !ok {
		return 0, ErrNextTimeOverflow
	}
	if sum < MinimumTime {
		return MinimumTime, 0
	}
	return sum, 0
}

// PayBackTime returns T + D: the projected time at which accumulated
// excess cost would decay to zero if no further attempts occurred. It
// fails with ErrPayBackTimeOverflow if that sum overflows, and with
// ErrStateWithNegativeD if the internal D invariant has somehow been
// violated. A sum that is legal but still falls below MinimumTime is
// masked up to MinimumTime rather than returned raw.
func (ins *Instance) PayBackTime() (int64, Status) {
	if !ins.ok() {
		return 0, ErrNoInstance
	}
	if ins.d < 0 {
		return 0, ErrStateWithNegativeD
	}
	sum, ok := checkedAddInt64(ins.t, ins.d)
	if !ok {
		return 0, ErrPayBackTimeOverflow
	}
	if sum < MinimumTime {
		return MinimumTime, 0
	}
	return sum, 0
}

// checkedAddInt64 adds a and b, reporting ok=false on signed overflow.
func checkedAddInt64(a, b int64) (sum int64, ok bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// checkedSubInt64 computes a - b, reporting ok=false on signed overflow.
// Implemented without negating b, so it is correct even when b ==
// math.MinInt64.
func checkedSubInt64(a, b int64) (diff int64, ok bool) {
	diff = a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, false
	}
	return diff, true
}

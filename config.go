package exbo

import "math"

// Default policy values. DefaultA is chosen in millisecond units (one
// minute), though the library itself is unit-agnostic.
const (
	DefaultX       = 2.0
	DefaultA int64 = 60_000
	defaultLOverA  = 6
)

// Config is the policy triple (X, A, L). It accepts partial specification,
// validates each field, fills defaults, and freezes ("finishes") before
// any attempt may be recorded against an Instance that owns it.
//
// The zero value is a valid, empty Config (the same zero-value-friendly
// style as catrate.Limiter{}): created empty, policy present but no fields
// set.
type Config struct {
	x float64
	a int64
	l int64

	hasX, hasA, hasL   bool
	validated, finished bool
}

// ConfigureX records the relaxation factor X. It demotes the config to
// unvalidated/unfinished; no validation happens until Validate or Finish.
func (c *Config) ConfigureX(x float64) Status {
	c.hasX = true
	c.x = x
	c.validated = false
	c.finished = false
	return 0
}

// ConfigureA records the base interval A.
func (c *Config) ConfigureA(a int64) Status {
	c.hasA = true
	c.a = a
	c.validated = false
	c.finished = false
	return 0
}

// ConfigureL records the excess-cost limit L.
func (c *Config) ConfigureL(l int64) Status {
	c.hasL = true
	c.l = l
	c.validated = false
	c.finished = false
	return 0
}

// Clear resets all fields and flags, returning the Config to its zero
// state.
func (c *Config) Clear() Status {
	*c = Config{}
	return 0
}

// Validate runs per-field validation on whatever fields are currently set,
// without defaulting anything. It is idempotent.
func (c *Config) Validate() Status {
	if c.finished {
		return 0 // finished implies validated
	}
	if c.validated {
		return 0
	}
	if s := c.revalidate(); s != 0 {
		return s
	}
	c.validated = true
	return 0
}

// revalidate checks whatever subset of (X, A, L) is currently present,
// without mutating validated/finished.
func (c *Config) revalidate() Status {
	if s := c.validateX(); s != 0 {
		return s
	}
	if s := c.validateA(); s != 0 {
		return s
	}
	return c.validateL()
}

func (c *Config) validateX() Status {
	if !c.hasX {
		return 0
	}
	if !isFiniteFloat(c.x) {
		return ErrInvalidConfigX1
	}
	if c.x < 1.0 {
		return ErrInvalidConfigX2
	}
	return 0
}

func (c *Config) validateA() Status {
	if !c.hasA {
		return 0
	}
	if c.a <= 0 {
		return ErrInvalidConfigA1
	}
	return 0
}

func (c *Config) validateL() Status {
	if !c.hasL {
		return 0
	}
	if c.l <= 0 {
		return ErrInvalidConfigL1
	}
	if c.hasA && c.l < c.a {
		return ErrInvalidConfigL2
	}
	return 0
}

// Finish validates, defaults, and freezes the config. It is idempotent. On
// any self-check failure it rolls back both the validated and finished
// flags and returns an internal-error code, rather than leaving the
// config in a half-frozen state.
func (c *Config) Finish() Status {
	if c.finished {
		return 0
	}
	if s := c.Validate(); s != 0 {
		return s
	}
	c.setDefaults()
	c.finished = true
	if s := c.validateFinish(); s != 0 {
		c.finished = false
		c.validated = false
		return s
	}
	return 0
}

// setDefaults fills in whatever of (X, A, L) is still missing, in the
// fixed order X, then A, then L.
func (c *Config) setDefaults() {
	if !c.hasX {
		c.x = DefaultX
		c.hasX = true
	}
	if !c.hasA {
		if c.hasL {
			c.a = int64(math.Ceil(float64(c.l) / defaultLOverA))
		} else {
			c.a = DefaultA
		}
		c.hasA = true
	}
	if !c.hasL {
		const maxA = math.MaxInt64 / defaultLOverA
		if c.a <= maxA {
			c.l = c.a * defaultLOverA
		} else {
			c.l = math.MaxInt64
		}
		c.hasL = true
	}
}

// validateFinish is the final self-check run once a config claims to be
// finished: every field must be present and the whole triple must still be
// internally consistent.
func (c *Config) validateFinish() Status {
	if !c.finished || !c.validated {
		return ErrInternalError1
	}
	if !c.hasX || !c.hasA || !c.hasL {
		return ErrInternalError2
	}
	if s := c.revalidate(); s != 0 {
		return ErrInternalError3
	}
	return 0
}

// IsFinished reports whether the config has been validated, defaulted, and
// frozen.
func (c *Config) IsFinished() bool { return c != nil && c.finished }

// IsValidated reports whether the config's currently-set fields have
// passed validation.
func (c *Config) IsValidated() bool { return c != nil && c.validated }

// HasX reports whether X has been explicitly configured (or defaulted, once
// finished).
func (c *Config) HasX() bool { return c != nil && c.hasX }

// HasA reports whether A has been explicitly configured (or defaulted).
func (c *Config) HasA() bool { return c != nil && c.hasA }

// HasL reports whether L has been explicitly configured (or defaulted).
func (c *Config) HasL() bool { return c != nil && c.hasL }

// X returns the configured (or defaulted) relaxation factor, and whether it
// is set.
func (c *Config) X() (float64, bool) {
	if c == nil || !c.hasX {
		return 0, false
	}
	return c.x, true
}

// A returns the configured (or defaulted) base interval, and whether it is
// set.
func (c *Config) A() (int64, bool) {
	if c == nil || !c.hasA {
		return 0, false
	}
	return c.a, true
}

// L returns the configured (or defaulted) excess-cost limit, and whether it
// is set.
func (c *Config) L() (int64, bool) {
	if c == nil || !c.hasL {
		return 0, false
	}
	return c.l, true
}

func isFiniteFloat(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

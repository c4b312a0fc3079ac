package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joeycumines/go-exbo"
)

// simMetrics mirrors tfd-sim's pattern of a handful of Prometheus
// collectors registered once at startup: gauges for the Instance's current
// debt and recommended interval, a counter of all recorded attempts, and
// counters of warnings and hard errors broken down by kind.
type simMetrics struct {
	debt      prometheus.Gauge
	interval  prometheus.Gauge
	recorded  prometheus.Counter
	warnings  *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

func newSimMetrics(reg prometheus.Registerer) *simMetrics {
	m := &simMetrics{
		debt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exbosim_current_debt",
			Help: "Current excess-cost debt (D) of the simulated instance.",
		}),
		interval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exbosim_current_interval",
			Help: "Recommended interval (I) until the next attempt.",
		}),
		recorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exbosim_attempts_recorded_total",
			Help: "Total attempts recorded against the simulated instance.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exbosim_warnings_total",
			Help: "Recorded attempts that returned a warning status, by kind.",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exbosim_errors_total",
			Help: "Recorded attempts that returned a hard-error status, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.debt, m.interval, m.recorded, m.warnings, m.errors)
	return m
}

// observe updates the metrics following a single Record call. debt and interval are
// only meaningful when status did not report a hard error; callers pass
// the instance's own PayBackTime/NextAttemptTime deltas.
func (m *simMetrics) observe(status exbo.Status, debt, interval int64) {
	m.recorded.Inc()
	switch {
	case status.IsError():
		m.errors.WithLabelValues(statusKind(status)).Inc()
	case status.IsWarning():
		m.warnings.WithLabelValues(statusKind(status)).Inc()
		fallthrough
	default:
		m.debt.Set(float64(debt))
		m.interval.Set(float64(interval))
	}
}

func statusKind(s exbo.Status) string {
	switch s {
	case exbo.WarnAttemptIsEarlierThanRecommended:
		return "early"
	case exbo.WarnExcessCostLimitBreach:
		return "breach"
	case exbo.WarnExcessCostLimitBreachWithDebtOverflow:
		return "breach_overflow"
	default:
		return exbo.ErrorMessage(s)
	}
}

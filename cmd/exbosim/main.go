// Command exbosim drives a single exbo.Instance against either a fixed
// schedule of attempt times or a live HTTP feed, logging every decision and
// (in serve mode) exposing Prometheus metrics for it.
//
// Usage:
//
//	exbosim simulate -policy policy.toml
//	exbosim serve -policy policy.toml -http :8080
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/joeycumines/go-exbo"
)

var policyFlag = &cli.StringFlag{
	Name:    "policy",
	Aliases: []string{"p"},
	Usage:   "TOML policy file ([policy] x, a, l; optional schedule)",
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	app := &cli.App{
		Name:  "exbosim",
		Usage: "drive an exbo.Instance from a fixed schedule or live HTTP feed",
		Commands: []*cli.Command{
			simulateCommand(),
			serveCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("exbosim")
	}
}

func buildInstance(cfg policyFile) *exbo.Instance {
	ins := exbo.NewInstance()
	c := ins.Config()
	if cfg.Policy.X != 0 {
		c.ConfigureX(cfg.Policy.X)
	}
	if cfg.Policy.A != 0 {
		c.ConfigureA(cfg.Policy.A)
	}
	if cfg.Policy.L != 0 {
		c.ConfigureL(cfg.Policy.L)
	}
	if s := c.Finish(); s != 0 {
		log.Fatal().Stringer("status", statusStringer(s)).Msg("invalid policy")
	}
	return ins
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "replay a fixed schedule of attempt times against one instance",
		Flags: []cli.Flag{policyFlag},
		Action: func(c *cli.Context) error {
			cfg, err := loadPolicyFile(c.String(policyFlag.Name))
			if err != nil {
				return err
			}
			ins := buildInstance(cfg)

			schedule := cfg.Schedule
			if len(schedule) == 0 {
				a, _ := ins.Config().A()
				schedule = []int64{0, a / 2, a, a * 2, a * 4}
			}

			for _, t := range schedule {
				recordAndLog(ins, t, nil)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	httpFlag := &cli.StringFlag{Name: "http", Value: ":8080", Usage: "HTTP listen address"}
	return &cli.Command{
		Name:  "serve",
		Usage: "expose /attempt and /metrics for a live-driven instance",
		Flags: []cli.Flag{policyFlag, httpFlag},
		Action: func(c *cli.Context) error {
			cfg, err := loadPolicyFile(c.String(policyFlag.Name))
			if err != nil {
				return err
			}
			ins := buildInstance(cfg)
			metrics := newSimMetrics(prometheus.DefaultRegisterer)

			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/attempt", func(w http.ResponseWriter, r *http.Request) {
				tStr := r.URL.Query().Get("t")
				if tStr == "" {
					tStr = strconv.FormatInt(time.Now().UnixMilli(), 10)
				}
				t, err := strconv.ParseInt(tStr, 10, 64)
				if err != nil {
					http.Error(w, fmt.Sprintf("invalid t: %v", err), http.StatusBadRequest)
					return
				}
				status := recordAndLog(ins, t, metrics)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(attemptResult(ins, status))
			})

			addr := c.String(httpFlag.Name)
			log.Info().Str("addr", addr).Msg("exbosim serve listening")
			return http.ListenAndServe(addr, mux)
		},
	}
}

type attemptResponse struct {
	Status       int    `json:"status"`
	StatusText   string `json:"status_text"`
	NextAttempt  int64  `json:"next_attempt,omitempty"`
	PayBackTime  int64  `json:"pay_back_time,omitempty"`
}

func attemptResult(ins *exbo.Instance, status exbo.Status) attemptResponse {
	resp := attemptResponse{Status: int(status), StatusText: exbo.ErrorMessage(status)}
	if next, s := ins.NextAttemptTime(); s == 0 {
		resp.NextAttempt = next
	}
	if pb, s := ins.PayBackTime(); s == 0 {
		resp.PayBackTime = pb
	}
	return resp
}

// recordAndLog records a single attempt, logs the outcome as a structured
// event, and (if metrics is non-nil) updates it.
func recordAndLog(ins *exbo.Instance, t int64, metrics *simMetrics) exbo.Status {
	status := ins.Record(t)

	ev := log.Info()
	if status.IsError() {
		ev = log.Error()
	} else if status.IsWarning() {
		ev = log.Warn()
	}
	ev = ev.Int64("t", t).Stringer("status", statusStringer(status))

	var debt, interval int64
	if pb, s := ins.PayBackTime(); s == 0 {
		debt = pb - t
		ev = ev.Int64("debt", debt)
	}
	if next, s := ins.NextAttemptTime(); s == 0 {
		interval = next - t
		ev = ev.Int64("interval", interval)
	}
	ev.Msg("recorded attempt")

	if metrics != nil {
		metrics.observe(status, debt, interval)
	}
	return status
}

type statusStringer exbo.Status

func (s statusStringer) String() string { return exbo.ErrorMessage(exbo.Status(s)) }

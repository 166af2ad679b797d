// Package driver runs the scenario sequence against a handshaken session and
// classifies each exchange.
package driver

import (
	"context"
	"time"

	"mcp-fetch-driver/internal/logging"
	"mcp-fetch-driver/pkg/mcp/protocol"
)

// Runner issues one tools/call per scenario, strictly sequentially.
type Runner struct {
	sess         Session
	callTimeout  time.Duration
	fetchSeconds int
	log          logging.Logger
}

// NewRunner creates a runner. callTimeout bounds each RPC exchange;
// fetchSeconds is the timeout_seconds argument forwarded to the tool.
func NewRunner(sess Session, callTimeout time.Duration, fetchSeconds int, log logging.Logger) *Runner {
	if log == nil {
		log = logging.NewNoop()
	}
	return &Runner{
		sess:         sess,
		callTimeout:  callTimeout,
		fetchSeconds: fetchSeconds,
		log:          log.WithComponent("runner"),
	}
}

// RunAll executes the scenarios in order, numbered from 1. A failure in one
// scenario never prevents the next from running; only context cancellation
// (operator interrupt) cuts the sequence short.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Outcome {
	outcomes := make([]Outcome, 0, len(scenarios))
	for i, sc := range scenarios {
		if ctx.Err() != nil {
			r.log.Warn("run interrupted", "completed", len(outcomes), "total", len(scenarios))
			break
		}
		out := r.runOne(ctx, i+1, sc)
		r.log.Info("scenario finished", "index", out.Index, "name", sc.Name, "kind", out.Kind.String(), "elapsed", out.Elapsed)
		outcomes = append(outcomes, out)
	}
	return outcomes
}

func (r *Runner) runOne(ctx context.Context, index int, sc Scenario) Outcome {
	params := protocol.ToolCallRequest{
		Name: protocol.ToolFetchWebContent,
		Arguments: map[string]any{
			"url":             sc.URL,
			"timeout_seconds": r.fetchSeconds,
		},
	}

	start := time.Now()
	resp, err := r.sess.Call(ctx, protocol.MethodToolsCall, params, r.callTimeout)
	out := Outcome{
		Index:    index,
		Scenario: sc,
		Elapsed:  time.Since(start),
	}

	switch {
	case err != nil:
		out.Kind = OutcomeTransportFailure
		out.Failure = err
	case resp.Error != nil:
		out.Kind = OutcomeAPIError
		out.APIError = resp.Error
	default:
		out.Kind = OutcomeSuccess
		out.Fetch = decodeFetchReport(resp.Result, r.log)
	}
	return out
}

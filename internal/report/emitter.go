// Package report renders scenario outcomes as human-readable console text.
// Purely observational; nothing here affects control flow.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"mcp-fetch-driver/internal/driver"
	"mcp-fetch-driver/internal/session"
)

// Emitter writes the per-scenario report and the run summary.
type Emitter struct {
	out        io.Writer
	titleColor *color.Color
	passColor  *color.Color
	failColor  *color.Color
	warnColor  *color.Color
}

// NewEmitter creates an emitter writing to out.
func NewEmitter(out io.Writer) *Emitter {
	return &Emitter{
		out:        out,
		titleColor: color.New(color.FgCyan, color.Bold),
		passColor:  color.New(color.FgGreen),
		failColor:  color.New(color.FgRed),
		warnColor:  color.New(color.FgYellow),
	}
}

// Banner prints the run header.
func (e *Emitter) Banner(command string) {
	e.titleColor.Fprintln(e.out, "Browser Automation Test Driver")
	fmt.Fprintf(e.out, "Target: %s\n", command)
}

// Emit renders one scenario's outcome.
func (e *Emitter) Emit(o driver.Outcome) {
	e.titleColor.Fprintf(e.out, "\nTest %d: %s\n", o.Index, o.Scenario.Name)
	fmt.Fprintf(e.out, "  URL: %s\n", o.Scenario.URL)
	if o.Scenario.Note != "" {
		fmt.Fprintf(e.out, "  Expectation: %s\n", o.Scenario.Note)
	}

	switch o.Kind {
	case driver.OutcomeSuccess:
		e.passColor.Fprintln(e.out, "  Fetch successful")
		fmt.Fprintf(e.out, "  Fetch method: %s\n", o.Fetch.Method)
		fmt.Fprintf(e.out, "  JavaScript detected: %s\n", formatDetected(o.Fetch.JavascriptDetected))
		fmt.Fprintf(e.out, "  Content length: %d\n", o.Fetch.ContentLength)
		fmt.Fprintf(e.out, "  Title: %s\n", formatTitle(o.Fetch.Title))
	case driver.OutcomeAPIError:
		e.failColor.Fprintf(e.out, "  Server error %d: %s\n", o.APIError.Code, o.APIError.Message)
		if o.APIError.Data != nil {
			fmt.Fprintf(e.out, "  Error data: %v\n", o.APIError.Data)
		}
	case driver.OutcomeTransportFailure:
		e.failColor.Fprintf(e.out, "  %s: %v\n", failureLabel(o.Failure), o.Failure)
	}
	fmt.Fprintf(e.out, "  Elapsed: %s\n", o.Elapsed.Round(time.Millisecond))
}

// Summary prints pass/fail counts for the whole run.
func (e *Emitter) Summary(outcomes []driver.Outcome, elapsed time.Duration) {
	passed := 0
	for _, o := range outcomes {
		if o.Kind == driver.OutcomeSuccess {
			passed++
		}
	}
	failed := len(outcomes) - passed

	fmt.Fprintln(e.out)
	if failed == 0 {
		e.passColor.Fprintf(e.out, "All %d scenarios succeeded", passed)
	} else {
		e.failColor.Fprintf(e.out, "%d of %d scenarios failed", failed, len(outcomes))
	}
	fmt.Fprintf(e.out, " in %s\n", elapsed.Round(time.Millisecond))
}

// failureLabel names the transport failure category for the operator.
func failureLabel(err error) string {
	var te *session.TimeoutError
	var pe *session.PeerClosedError
	var pre *session.ProtocolError
	switch {
	case errors.As(err, &te):
		return "Timed out"
	case errors.As(err, &pe):
		return "Peer closed"
	case errors.As(err, &pre):
		return "Protocol violation"
	default:
		return "Transport failure"
	}
}

func formatDetected(detected *bool) string {
	if detected == nil {
		return "Unknown"
	}
	return strconv.FormatBool(*detected)
}

func formatTitle(title string) string {
	if title == "" {
		return "No title"
	}
	return title
}

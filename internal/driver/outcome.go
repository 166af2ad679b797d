package driver

import (
	"time"

	"mcp-fetch-driver/pkg/mcp/protocol"
)

// Scenario is one test case: a target URL plus the qualitative fetch
// behavior expected of it. Order is significant; scenarios run sequentially.
type Scenario struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Note string `yaml:"note,omitempty"`
}

// OutcomeKind classifies how a scenario resolved.
type OutcomeKind int

const (
	// OutcomeSuccess means the server answered with a result envelope.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeAPIError means the server answered with an error envelope.
	OutcomeAPIError
	// OutcomeTransportFailure means no usable response arrived: timeout,
	// peer closed, or protocol violation.
	OutcomeTransportFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAPIError:
		return "api_error"
	case OutcomeTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// FetchReport carries the observed fetch metadata from a successful response.
// Absent fields are reported, never failed: Method falls back to "Unknown"
// and JavascriptDetected stays nil.
type FetchReport struct {
	Method             string
	JavascriptDetected *bool
	ContentLength      int
	Title              string
}

// Outcome is the tagged per-scenario result. Exactly one of Fetch, APIError
// and Failure is set, matching Kind.
type Outcome struct {
	Index    int
	Scenario Scenario
	Kind     OutcomeKind
	Fetch    *FetchReport
	APIError *protocol.JSONRPCError
	Failure  error
	Elapsed  time.Duration
}

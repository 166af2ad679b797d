package driver

import (
	"encoding/json"

	"github.com/go-viper/mapstructure/v2"

	"mcp-fetch-driver/internal/logging"
)

// unknownValue stands in for fetch metadata the server did not report.
const unknownValue = "Unknown"

// fetchResult mirrors the result payload of a successful fetch_web_content
// call. Every field is optional on the wire.
type fetchResult struct {
	Content fetchContent `mapstructure:"content"`
}

type fetchContent struct {
	TextContent string        `mapstructure:"text_content"`
	Title       string        `mapstructure:"title"`
	Metadata    fetchMetadata `mapstructure:"metadata"`
}

type fetchMetadata struct {
	FetchMethod        string `mapstructure:"fetch_method"`
	JavascriptDetected *bool  `mapstructure:"javascript_detected"`
}

// decodeFetchReport extracts fetch metadata from a raw result payload. It
// never fails: a payload that does not match the expected shape degrades to a
// report full of unknowns, keeping classification observational.
func decodeFetchReport(raw json.RawMessage, log logging.Logger) *FetchReport {
	report := &FetchReport{Method: unknownValue}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Debug("result payload is not an object", "error", err)
		return report
	}

	var res fetchResult
	if err := mapstructure.Decode(payload, &res); err != nil {
		log.Debug("result payload does not match fetch shape", "error", err)
		return report
	}

	if res.Content.Metadata.FetchMethod != "" {
		report.Method = res.Content.Metadata.FetchMethod
	}
	report.JavascriptDetected = res.Content.Metadata.JavascriptDetected
	report.ContentLength = len(res.Content.TextContent)
	report.Title = res.Content.Title
	return report
}

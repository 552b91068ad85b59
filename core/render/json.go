// Package render — JSON renderer.
// Encodes a Report as indented JSON. The same encoding is the transfer
// format between the analyze and render phases, so ParseJSON reads it back.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/gaurav-prasanna/termscan/core"
)

// JSONRenderer produces structured JSON output from a Report.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the report as indented JSON.
func (r *JSONRenderer) Render(report core.Report) ([]byte, error) {
	if report.Sections == nil {
		report.Sections = []core.Section{}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// ParseJSON decodes a report written by JSONRenderer. A bare array of
// sections is accepted too.
func ParseJSON(data []byte) (core.Report, error) {
	var report core.Report
	if err := json.Unmarshal(data, &report); err == nil {
		return report, nil
	}

	var sections []core.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return core.Report{}, fmt.Errorf("decoding sections JSON: %w", err)
	}
	return core.Report{Sections: sections}, nil
}

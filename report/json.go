package report

import (
	"encoding/json"
	"fmt"
)

// JSON renders the report as indented JSON for CI/CD consumption.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

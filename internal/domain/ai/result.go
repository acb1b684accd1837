package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// BillAnalysisResult fields are presentation strings as the model formats them ("₹500", "1200 units").
type BillAnalysisResult struct {
	TotalConsumption string   `json:"totalConsumption"`
	PeakCharges      string   `json:"peakCharges"`
	FixedCharges     string   `json:"fixedCharges"`
	SavingsPotential string   `json:"savingsPotential"`
	Recommendations  []string `json:"recommendations"`
}

type HealthStatus string

const (
	StatusHealthy  HealthStatus = "Healthy"
	StatusWarning  HealthStatus = "Warning"
	StatusCritical HealthStatus = "Critical"
)

type AudioAnalysisResult struct {
	Status          HealthStatus `json:"status"`
	HealthScore     int          `json:"healthScore"`
	Description     string       `json:"description"`
	MaintenanceTips []string     `json:"maintenanceTips"`
}

var billFields = []string{"totalConsumption", "peakCharges", "fixedCharges", "savingsPotential", "recommendations"}

var audioFields = []string{"status", "healthScore", "description", "maintenanceTips"}

// DecodeBillResult validates raw JSON against the bill schema.
func DecodeBillResult(raw []byte) (*BillAnalysisResult, error) {
	if err := requireFields(raw, billFields); err != nil {
		return nil, Malformed("bill", err)
	}
	var out BillAnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, Malformed("bill", fmt.Errorf("schema: %w", err))
	}
	return &out, nil
}

// DecodeAudioResult validates raw JSON against the audio schema.
func DecodeAudioResult(raw []byte) (*AudioAnalysisResult, error) {
	if err := requireFields(raw, audioFields); err != nil {
		return nil, Malformed("audio", err)
	}
	// healthScore may arrive as 85.0
	var wire struct {
		AudioAnalysisResult
		HealthScore float64 `json:"healthScore"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, Malformed("audio", fmt.Errorf("schema: %w", err))
	}
	if wire.HealthScore != math.Trunc(wire.HealthScore) || wire.HealthScore < 0 || wire.HealthScore > 100 {
		return nil, Malformed("audio", fmt.Errorf("schema: healthScore %v is not a whole number in 0-100", wire.HealthScore))
	}
	out := wire.AudioAnalysisResult
	out.HealthScore = int(wire.HealthScore)
	status, ok := parseStatus(string(out.Status))
	if !ok {
		return nil, Malformed("audio", fmt.Errorf("schema: unknown status %q", out.Status))
	}
	out.Status = status
	return &out, nil
}

func parseStatus(s string) (HealthStatus, bool) {
	for _, st := range []HealthStatus{StatusHealthy, StatusWarning, StatusCritical} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// requireFields checks that raw is an object holding every key with a non-null value.
func requireFields(raw []byte, fields []string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("schema: expected object: %w", err)
	}
	var missing []string
	for _, f := range fields {
		v, ok := obj[f]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

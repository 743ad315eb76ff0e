package models

import (
	"encoding/json"
	"testing"
)

func TestIsValidOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   ReadingOrigin
		expected bool
	}{
		{"manual", OriginManual, true},
		{"service completion", OriginServiceCompletion, true},
		{"telemetry", OriginTelemetry, true},
		{"unknown", "ocr", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidOrigin(tt.origin); got != tt.expected {
				t.Errorf("IsValidOrigin(%s) = %v, want %v", tt.origin, got, tt.expected)
			}
		})
	}
}

func TestOdometerTelemetry_MissingDistance(t *testing.T) {
	var tele OdometerTelemetry
	if err := json.Unmarshal([]byte(`{"recorded_at":"2025-03-15T10:00:00Z"}`), &tele); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if tele.Distance != nil {
		t.Errorf("expected nil distance, got %d", *tele.Distance)
	}
	if tele.RecordedAt == nil {
		t.Error("expected recorded_at to be set")
	}
}

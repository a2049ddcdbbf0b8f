// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package metadata

import (
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"processing_time", "Processing Time"},
		{"risk_score", "Risk Score"},
		{"cross_session_access", "Cross Session Access"},
		{"retrieval-count", "Retrieval Count"},
		{"sources", "Sources"},
		{"a.b", "A B"},
		// Only the first character of each word is capitalized; the rest
		// keeps the backend's casing.
		{"RAG_score", "RAG Score"},
		{"detected_LLM", "Detected LLM"},
	}

	for _, tt := range tests {
		if got := Label(tt.key); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFormatTimeKeys(t *testing.T) {
	pairs := Format(map[string]any{"processing_time": 12.345})

	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	p := pairs[0]
	if p.Label != "Processing Time" {
		t.Errorf("Label = %q", p.Label)
	}
	if p.Value != "12.35ms" {
		t.Errorf("Value = %q, want 12.35ms", p.Value)
	}
	if p.Hint != HintNone {
		t.Errorf("time values carry no hint, got %q", p.Hint)
	}
}

func TestFormatScoreKeys(t *testing.T) {
	tests := []struct {
		name  string
		score any
		value string
		hint  Hint
	}{
		{"high score", 0.73, "73.0%", HintHigh},
		{"low score", 0.25, "25.0%", HintLow},
		{"boundary is low", 0.5, "50.0%", HintLow},
		{"just above boundary", 0.501, "50.1%", HintHigh},
		{"integer score", 1, "100.0%", HintHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := Format(map[string]any{"risk_score": tt.score})
			p := pairs[0]
			if p.Value != tt.value {
				t.Errorf("Value = %q, want %q", p.Value, tt.value)
			}
			if p.Hint != tt.hint {
				t.Errorf("Hint = %q, want %q", p.Hint, tt.hint)
			}
		})
	}
}

func TestFormatBool(t *testing.T) {
	pairs := Format(map[string]any{"cross_session_access": true, "filtered": false})

	// Sorted key order: cross_session_access, filtered.
	if pairs[0].Label != "Cross Session Access" || pairs[0].Value != "Yes" || pairs[0].Hint != HintPositive {
		t.Errorf("true bool = %+v", pairs[0])
	}
	if pairs[1].Value != "No" || pairs[1].Hint != HintNegative {
		t.Errorf("false bool = %+v", pairs[1])
	}
}

func TestFormatSequence(t *testing.T) {
	pairs := Format(map[string]any{"sources": []any{"a.txt", "b.txt"}})
	if pairs[0].Value != "a.txt, b.txt" {
		t.Errorf("sequence Value = %q, want %q", pairs[0].Value, "a.txt, b.txt")
	}

	pairs = Format(map[string]any{"sources": []string{"x", "y"}})
	if pairs[0].Value != "x, y" {
		t.Errorf("string slice Value = %q", pairs[0].Value)
	}
}

func TestFormatNested(t *testing.T) {
	pairs := Format(map[string]any{"chunk": map[string]any{"id": "c1"}})
	if pairs[0].Value != `{"id":"c1"}` {
		t.Errorf("nested Value = %q", pairs[0].Value)
	}
}

func TestFormatPlain(t *testing.T) {
	pairs := Format(map[string]any{
		"technique": "role-play",
		"count":     float64(3),
	})

	// Sorted: count, technique.
	if pairs[0].Value != "3" {
		t.Errorf("numeric plain Value = %q, want 3", pairs[0].Value)
	}
	if pairs[1].Value != "role-play" {
		t.Errorf("string Value = %q", pairs[1].Value)
	}
}

func TestFormatEmptyAndNil(t *testing.T) {
	if pairs := Format(nil); pairs != nil {
		t.Errorf("Format(nil) = %v, want nil", pairs)
	}
	if pairs := Format(map[string]any{}); pairs != nil {
		t.Errorf("Format(empty) = %v, want nil", pairs)
	}

	pairs := Format(map[string]any{"missing": nil})
	if pairs[0].Value != "" {
		t.Errorf("nil value should render empty, got %q", pairs[0].Value)
	}
}

func TestFormatOrderingIsStable(t *testing.T) {
	meta := map[string]any{"b": 1, "a": 2, "c": 3}
	first := Format(meta)
	for i := 0; i < 10; i++ {
		again := Format(meta)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("unstable ordering at %d: %+v vs %+v", j, first[j], again[j])
			}
		}
	}
	if first[0].Key != "a" || first[1].Key != "b" || first[2].Key != "c" {
		t.Errorf("keys not sorted: %+v", first)
	}
}

// Score and time rules only apply to numeric values; a string that happens to
// contain "score" in its key renders plainly.
func TestNumericRulesRequireNumbers(t *testing.T) {
	pairs := Format(map[string]any{"risk_score": "unknown"})
	if pairs[0].Value != "unknown" || pairs[0].Hint != HintNone {
		t.Errorf("non-numeric score = %+v", pairs[0])
	}
}

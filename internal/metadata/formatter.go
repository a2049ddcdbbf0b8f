// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metadata turns backend-supplied annotation mappings into
// human-readable display pairs. Pure: no state, no I/O.
package metadata

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Hint is a semantic styling hint attached to a formatted value.
// It never changes the value itself.
type Hint string

const (
	HintNone     Hint = ""
	HintHigh     Hint = "high"
	HintLow      Hint = "low"
	HintPositive Hint = "positive"
	HintNegative Hint = "negative"
)

// Pair is one formatted annotation entry.
type Pair struct {
	Key   string
	Label string
	Value string
	Hint  Hint
}

// NoLower keeps the tail of each word intact so acronym keys ("llm", "rag")
// survive with their backend casing.
var titleCaser = cases.Title(language.Und, cases.NoLower)

// Format renders an annotation mapping as display pairs in sorted key order,
// so repeated renders of the same metadata are stable.
func Format(meta map[string]any) []Pair {
	if len(meta) == 0 {
		return nil
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		value, hint := formatValue(k, meta[k])
		pairs = append(pairs, Pair{
			Key:   k,
			Label: Label(k),
			Value: value,
			Hint:  hint,
		})
	}
	return pairs
}

// Label derives a display label from an annotation key: separators become
// spaces and the first character of each word is capitalized
// ("processing_time" -> "Processing Time"); the rest of each word keeps its
// original casing ("RAG_score" -> "RAG Score").
func Label(key string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(key)
	return titleCaser.String(replaced)
}

// formatValue applies the per-key rendering rules.
func formatValue(key string, v any) (string, Hint) {
	lowerKey := strings.ToLower(key)

	if n, ok := asNumber(v); ok {
		if strings.Contains(lowerKey, "time") {
			return strconv.FormatFloat(n, 'f', 2, 64) + "ms", HintNone
		}
		if strings.Contains(lowerKey, "score") {
			hint := HintLow
			if n > 0.5 {
				hint = HintHigh
			}
			return strconv.FormatFloat(n*100, 'f', 1, 64) + "%", hint
		}
	}

	switch val := v.(type) {
	case nil:
		return "", HintNone

	case bool:
		if val {
			return "Yes", HintPositive
		}
		return "No", HintNegative

	case string:
		return val, HintNone

	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = plainText(elem)
		}
		return strings.Join(parts, ", "), HintNone

	case []string:
		return strings.Join(val, ", "), HintNone

	case map[string]any:
		// Nested structure: compact serialization.
		b, err := json.Marshal(val)
		if err != nil {
			return plainText(val), HintNone
		}
		return string(b), HintNone

	default:
		return plainText(v), HintNone
	}
}

// plainText renders a value in its plain textual form.
func plainText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// asNumber reports v as a float64 for the numeric formatting rules.
// JSON decoding yields float64; the other cases cover direct construction.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

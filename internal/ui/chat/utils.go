// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
)

// wrapText wraps text to the given width, preserving existing newlines.
// Rune-safe: long unbreakable words are split at the width boundary.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLen := 0
		for j, word := range words {
			wordLen := len([]rune(word))

			if currentLen > 0 && currentLen+1+wordLen > width {
				result.WriteString("\n")
				currentLen = 0
			} else if j > 0 && currentLen > 0 {
				result.WriteString(" ")
				currentLen++
			}

			// Split words longer than the full width.
			for wordLen > width {
				runes := []rune(word)
				result.WriteString(string(runes[:width]))
				result.WriteString("\n")
				word = string(runes[width:])
				wordLen = len([]rune(word))
			}

			result.WriteString(word)
			currentLen += wordLen
		}
	}

	return result.String()
}

// formatTimestamp renders a message timestamp relative to the local day:
// clock time for today, weekday for this week, full date beyond that.
func formatTimestamp(t time.Time) string {
	now := time.Now()
	local := t.Local()

	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04")
	}
	if now.Sub(local) < 7*24*time.Hour {
		return local.Format("Mon 15:04")
	}
	return local.Format("Jan 2 15:04")
}

// formatSize renders a byte count in human units.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDocuments renders the backend's per-session document listing.
func formatDocuments(resp *backend.DocumentsResponse) string {
	if resp == nil || len(resp.Documents) == 0 {
		return "No documents stored for this session."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Documents for this session (%d):\n", len(resp.Documents))
	for _, doc := range resp.Documents {
		fmt.Fprintf(&b, "  %s (%s)\n", doc.Filename, formatSize(doc.Size))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatHistory renders the server-side record of the bound conversation.
func formatHistory(resp *backend.ConversationResponse) string {
	if resp == nil || len(resp.History) == 0 {
		return "The server has no history for this conversation."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Server history for %s (%d messages):\n", resp.ConversationID, len(resp.History))
	for _, entry := range resp.History {
		oneLine := strings.Join(strings.Fields(entry.Content), " ")
		fmt.Fprintf(&b, "  [%s] %s\n", entry.Role, truncate(oneLine, 80))
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatAnalysis renders an adversarial-prompt assessment.
func formatAnalysis(attempt string, a *backend.Analysis) string {
	if a == nil {
		return "Analysis returned no result."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analysis of %q\n", truncate(attempt, 60))
	fmt.Fprintf(&b, "  Attempt type:        %s\n", a.AttemptType)
	fmt.Fprintf(&b, "  Success probability: %.0f%%\n", a.SuccessProbability*100)
	fmt.Fprintf(&b, "  Risk level:          %s\n", a.RiskLevel)
	if len(a.DetectedTechniques) > 0 {
		fmt.Fprintf(&b, "  Techniques:          %s\n", strings.Join(a.DetectedTechniques, ", "))
	}
	for _, rec := range a.Recommendations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncate shortens s to at most maxLen runes, appending an ellipsis when
// there is room for one.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

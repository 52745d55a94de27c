// Package ledger reads and writes the notes of a daily summary.
//
// Notes are free text shown to the user, one log line per entry, plus one
// machine-readable marker holding the cumulative exercise calories burned that
// day: "[ExKcal: N]". Stored summaries already carry this exact format, so the
// label, brackets and spacing must not change.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	TagCorrection = "[CORRECCIÓN]"
	TagVoice      = "[VOZ]"
)

var markerRegex = regexp.MustCompile(`\[ExKcal:\s*(\d+)\]`)

// Marker renders the exercise-calories marker for kcal (negative values clamp to 0).
func Marker(kcal int) string {
	return fmt.Sprintf("[ExKcal: %d]", max(kcal, 0))
}

// Parse returns the exercise calories held by the marker in notes, or 0 when
// there is none. With several markers (legacy rows) the last one wins.
func Parse(notes string) int {
	matches := markerRegex.FindAllStringSubmatch(notes, -1)
	if len(matches) == 0 {
		return 0
	}
	kcal, err := strconv.Atoi(matches[len(matches)-1][1])
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return kcal
}

// Strip removes every marker and the blank lines they leave behind.
func Strip(notes string) string {
	return compact(markerRegex.ReplaceAllString(notes, ""))
}

// AppendEntry strips old markers, appends the entry line and exactly one fresh
// marker line.
func AppendEntry(notes, line string, kcal int) string {
	parts := make([]string, 0, 3)
	if base := Strip(notes); base != "" {
		parts = append(parts, base)
	}
	if line = strings.TrimSpace(line); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, Marker(kcal))
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// RemoveEntry drops the first line containing rawText along with all markers,
// and appends a new marker only when kcal is nonzero.
func RemoveEntry(notes, rawText string, kcal int) string {
	lines := strings.Split(Strip(notes), "\n")
	rawText = CleanText(rawText)

	kept := make([]string, 0, len(lines)+1)
	removed := rawText == ""
	for _, line := range lines {
		if !removed && strings.Contains(line, rawText) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if kcal > 0 {
		kept = append(kept, Marker(kcal))
	}
	return compact(strings.Join(kept, "\n"))
}

// EntryLine formats the log line for a raw input.
func EntryLine(rawText string, correction, voice bool) string {
	rawText = CleanText(rawText)
	switch {
	case rawText == "":
		return ""
	case correction:
		return TagCorrection + " " + rawText
	case voice:
		return TagVoice + " " + rawText
	default:
		return rawText
	}
}

// CleanText turns raw input into the text of one notes line. Markers typed by
// the user are dropped and whitespace runs, newlines included, become one space.
func CleanText(rawText string) string {
	return strings.Join(strings.Fields(markerRegex.ReplaceAllString(rawText, " ")), " ")
}

// Count returns how many markers notes holds.
func Count(notes string) int {
	return len(markerRegex.FindAllStringIndex(notes, -1))
}

func compact(notes string) string {
	lines := strings.Split(notes, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

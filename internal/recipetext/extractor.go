// Package recipetext parses free-text recipe instructions: splitting
// them into ordered steps and pulling cook durations out of time
// expressions like "10 minutes" or "1 hour".
package recipetext

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

var (
	// Step boundaries, most structured first: numbered-list markers,
	// then newlines, then a sentence-level fallback.
	numberedStep = regexp.MustCompile(`(?im)(?:\bstep\s+\d+[:.)]?|^\s*\d+[.)])\s*`)
	sentenceEnd  = regexp.MustCompile(`[.!?]+\s+`)

	// A time expression: numeric value followed by a minute/hour unit
	// token. Matched case-insensitively, first occurrence wins.
	timeExpr = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(hours?|hrs?|hr|minutes?|mins?|min)\b`)

	hourUnit = regexp.MustCompile(`(?i)^h`)
)

// SplitSteps splits free-text instructions into discrete steps.
// Deterministic for identical input: numbered-list markers are tried
// first, then non-empty lines, then sentences.
func SplitSteps(instructions string) []string {
	text := strings.TrimSpace(instructions)
	if text == "" {
		return nil
	}

	if numberedStep.MatchString(text) {
		parts := numberedStep.Split(text, -1)
		steps := compact(parts)
		if len(steps) > 0 {
			return steps
		}
	}

	if strings.Contains(text, "\n") {
		steps := compact(strings.Split(text, "\n"))
		if len(steps) > 1 {
			return steps
		}
	}

	return compact(splitSentences(text))
}

// ExtractDuration scans step text for the first time expression and
// returns its value in minutes. Hours are normalized to minutes.
func ExtractDuration(step string) (minutes int, ok bool) {
	m := timeExpr.FindStringSubmatch(step)
	if m == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	if hourUnit.MatchString(m[2]) {
		value *= 60
	}

	minutes = int(math.Round(value))
	if minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// FindItemDuration searches the recipe's instructions for a sentence
// mentioning itemName (case-insensitive) and extracts a duration from
// that sentence. Returns false when no time expression co-occurs with
// the item mention.
func FindItemDuration(recipe domain.Recipe, itemName string) (minutes int, ok bool) {
	item := strings.ToLower(strings.TrimSpace(itemName))
	if item == "" {
		return 0, false
	}

	for _, sentence := range splitSentences(recipe.Instructions) {
		if !strings.Contains(strings.ToLower(sentence), item) {
			continue
		}
		if m, found := ExtractDuration(sentence); found {
			return m, true
		}
	}
	return 0, false
}

// RemoveTimeExpressions strips every time expression from text, leaving
// the surrounding words. Used by the command parser to isolate item
// names from utterances like "set a timer for the chicken for 10 minutes".
func RemoveTimeExpressions(text string) string {
	cleaned := timeExpr.ReplaceAllString(text, " ")
	return strings.TrimSpace(strings.Join(strings.Fields(cleaned), " "))
}

func splitSentences(text string) []string {
	return sentenceEnd.Split(text, -1)
}

func compact(parts []string) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

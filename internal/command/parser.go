// Package command classifies free-text utterances into timer and recipe
// commands and executes them against the live cooking context.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
	"github.com/RobMcd12/kiwicook/internal/recipetext"
)

// rule is one entry in the ordered precedence table. Rules are evaluated
// top to bottom and the first match wins, which encodes the precedence
// contract as data: timer rules sit above read rules, so an utterance
// containing both kinds of keyword resolves to the timer action.
type rule struct {
	name  string
	match *regexp.Regexp
	build func(p *Parser, utterance string) domain.ParsedCommand
}

// Parser maps utterances to ParsedCommands using keyword patterns. It is
// pure classification: no timer or recipe state is consulted.
type Parser struct {
	log   *zap.SugaredLogger
	rules []rule
}

// NewParser creates the keyword command parser.
func NewParser(log *zap.SugaredLogger) *Parser {
	p := &Parser{log: log}
	p.rules = []rule{
		{"stop-timer", stopRe, (*Parser).buildStop},
		{"check-timer", checkRe, (*Parser).buildCheck},
		{"start-timer", startRe, (*Parser).buildStart},
		{"read-next", readNextRe, buildRead(domain.ReadNext)},
		{"read-previous", readPrevRe, buildRead(domain.ReadPrevious)},
		{"read-step", readStepRe, (*Parser).buildReadStep},
		{"read-ingredients", readIngredientsRe, buildRead(domain.ReadIngredients)},
		{"read-full", readFullRe, buildRead(domain.ReadFull)},
	}
	return p
}

// Parse classifies an utterance. Unrecognized input yields CommandNone
// with the raw text preserved for the conversational assistant.
func (p *Parser) Parse(utterance string) domain.ParsedCommand {
	trimmed := strings.TrimSpace(utterance)
	if trimmed == "" {
		return domain.ParsedCommand{Type: domain.CommandNone}
	}

	for _, r := range p.rules {
		if r.match.MatchString(trimmed) {
			cmd := r.build(p, trimmed)
			p.log.Debugf("parser: %q -> %s", trimmed, cmd.Type)
			return cmd
		}
	}

	p.log.Debugf("parser: %q -> none", trimmed)
	return domain.ParsedCommand{Type: domain.CommandNone, Raw: trimmed}
}

// ── Patterns ─────────────────────────────────────────────────────

var (
	stopRe = regexp.MustCompile(`(?i)\b(?:stop|cancel|turn\s+off|dismiss)\b.*\b(?:timer|alarm)\b|^\s*(?:stop|cancel)\b`)

	checkRe = regexp.MustCompile(`(?i)\bhow\s+much\s+time\b|\bhow\s+long\b.*\bleft\b|\btime\s+(?:is\s+)?left\b|\bcheck\b.*\btimer\b`)

	startRe = regexp.MustCompile(`(?i)\b(?:set|start|put|create|make|add)\b.*\btimer\b|\btimer\s+for\b`)

	readNextRe        = regexp.MustCompile(`(?i)\bnext\s+step\b|\bwhat'?s\s+next\b|^\s*next\s*[.!?]?\s*$`)
	readPrevRe        = regexp.MustCompile(`(?i)\bprevious\s+step\b|\bgo\s+back\b|^\s*(?:previous|back)\s*[.!?]?\s*$`)
	readStepRe        = regexp.MustCompile(`(?i)\bstep\s+(\d+)\b`)
	readIngredientsRe = regexp.MustCompile(`(?i)\bingredients?\b`)
	readFullRe        = regexp.MustCompile(`(?i)\bread\b.*\brecipe\b|\bwhole\s+recipe\b|\bread\s+it\b`)

	stepNumberRe = regexp.MustCompile(`(?i)\bstep\s+(\d+)\b`)

	stopNameRe  = regexp.MustCompile(`(?i)\b(?:stop|cancel|turn\s+off|dismiss)\s+(?:the\s+|my\s+)?(.+?)\s*[.!?]?$`)
	checkOnRe   = regexp.MustCompile(`(?i)\b(?:left\s+)?on\s+(?:the\s+|my\s+)?(.+?)\s*[.!?]?$`)
	checkTheRe  = regexp.MustCompile(`(?i)\bcheck\s+(?:on\s+)?(?:the\s+|my\s+)?(.+?)\s*[.!?]?$`)
	itemForRe   = regexp.MustCompile(`(?i)\bfor\s+(?:the\s+|my\s+|some\s+)?([a-z][a-z\s-]*?)\s*[.!?]?$`)
	itemTimerRe = regexp.MustCompile(`(?i)\b(?:the|my)\s+([a-z][a-z\s-]+?)\s+timer\b`)
)

// fillerTokens are stripped from the edges of extracted names. A name
// reduced to nothing means the utterance named no specific timer.
var fillerTokens = map[string]bool{
	"the": true, "a": true, "an": true, "my": true, "for": true,
	"timer": true, "alarm": true, "please": true, "now": true, "it": true,
}

// ── Builders ─────────────────────────────────────────────────────

// buildStart applies the Start sub-precedence: explicit minutes, then a
// step-number reference, then a named item, then a bare default timer.
func (p *Parser) buildStart(utterance string) domain.ParsedCommand {
	cmd := domain.ParsedCommand{Type: domain.CommandStartTimer}

	item := extractItem(recipetext.RemoveTimeExpressions(utterance))

	if minutes, ok := recipetext.ExtractDuration(utterance); ok {
		cmd.Minutes = minutes
		cmd.Name = item
		return cmd
	}
	if m := stepNumberRe.FindStringSubmatch(utterance); m != nil {
		cmd.StepNumber, _ = strconv.Atoi(m[1])
		return cmd
	}
	if item != "" {
		cmd.ItemName = item
		cmd.Name = item
		return cmd
	}
	return cmd
}

func (p *Parser) buildStop(utterance string) domain.ParsedCommand {
	cmd := domain.ParsedCommand{Type: domain.CommandStopTimer}
	if m := stopNameRe.FindStringSubmatch(utterance); m != nil {
		cmd.Name = cleanName(m[1])
	}
	return cmd
}

func (p *Parser) buildCheck(utterance string) domain.ParsedCommand {
	cmd := domain.ParsedCommand{Type: domain.CommandCheckTimer}
	if m := checkOnRe.FindStringSubmatch(utterance); m != nil {
		cmd.Name = cleanName(m[1])
	} else if m := checkTheRe.FindStringSubmatch(utterance); m != nil {
		cmd.Name = cleanName(m[1])
	}
	return cmd
}

func (p *Parser) buildReadStep(utterance string) domain.ParsedCommand {
	cmd := domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadStep}
	if m := readStepRe.FindStringSubmatch(utterance); m != nil {
		cmd.StepNumber, _ = strconv.Atoi(m[1])
	}
	return cmd
}

func buildRead(mode domain.ReadMode) func(*Parser, string) domain.ParsedCommand {
	return func(*Parser, string) domain.ParsedCommand {
		return domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: mode}
	}
}

// extractItem pulls a named cooking item out of a start utterance, e.g.
// "set a timer for the chicken" -> "chicken".
func extractItem(utterance string) string {
	if m := itemForRe.FindStringSubmatch(utterance); m != nil {
		if name := cleanName(m[1]); name != "" {
			return name
		}
	}
	if m := itemTimerRe.FindStringSubmatch(utterance); m != nil {
		return cleanName(m[1])
	}
	return ""
}

// cleanName lowercases an extracted name and strips filler tokens from
// both edges.
func cleanName(raw string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	for len(tokens) > 0 && fillerTokens[tokens[0]] {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && fillerTokens[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// Package gameupdate reads the [GAME_UPDATE] block the narrator appends to a
// reply and applies it to a client-side game state.
//
// The orchestrator never looks inside the block; only clients do.
package gameupdate

import (
	"regexp"
	"strings"
)

var blockRe = regexp.MustCompile(`(?s)\[GAME_UPDATE\](.*?)\[/GAME_UPDATE\]`)

// Directive is one "key: value" line of an update block.
type Directive struct {
	Key   string
	Value string
}

// Parse splits text into the narrative shown to the player and the
// directives of its first update block. Lines without a colon are skipped.
func Parse(text string) (string, []Directive) {
	loc := blockRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return strings.TrimSpace(text), nil
	}

	narrative := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	body := strings.TrimSpace(text[loc[2]:loc[3]])

	var out []Directive
	for _, line := range strings.Split(body, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		out = append(out, Directive{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return narrative, out
}

// Package exhibit scores a filing's attachment manifest to locate the
// exhibit most likely to be the press release. Scoring is a pure string
// heuristic over the manifest entry's filename and declared exhibit type, so
// it stays unit-testable and tunable without touching fetch or extraction.
package exhibit

import (
	"strings"
)

// Attachment is one entry from a filing's attachment manifest, carried
// verbatim from the index listing. Size is informational only.
type Attachment struct {
	Name string
	Type string
	Size int64
}

// Empirically chosen weights. The exact values matter less than their
// ordering: an explicit EX-99.1 type beats filename hints, which beat
// press-terminology keywords.
const (
	weightType99       = 100
	weightTypeExact991 = 120
	weightNameEx99     = 50
	weightName991      = 30
	weightNameKeyword  = 20
	weightTextFile     = 10
	penaltyNonTextFile = -100
)

// DefaultMinScore is the acceptance threshold below which the best-scoring
// candidate is still rejected as too weak a match.
const DefaultMinScore = 20

// PressKeywords are filename terms that mark earnings-related exhibits.
// Each distinct match adds weightNameKeyword.
var PressKeywords = []string{
	"press release",
	"earnings release",
	"news release",
	"conference call",
	"prepared remarks",
	"investor presentation",
}

// Options configures selection.
type Options struct {
	// MinScore rejects winners scoring below it. Zero means the default (20).
	MinScore int
}

// IsTextFile reports whether the filename extension indicates textual or
// markup content.
func IsTextFile(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(n, ".htm") || strings.HasSuffix(n, ".html") || strings.HasSuffix(n, ".txt")
}

// Score rates how likely the attachment is to be the press-release exhibit.
// All matching signals accumulate. The non-textual penalty is unreachable
// through SelectBest, which filters those out first, but keeps Score ranking
// correctly when used on an unfiltered manifest.
func Score(a Attachment) int {
	name := normalize(a.Name)
	typ := normalize(a.Type)

	score := 0
	if strings.Contains(typ, "99.1") || strings.Contains(typ, "99.01") || strings.Contains(typ, "ex-99") {
		score += weightType99
	}
	if strings.Contains(typ, "ex-99.1") || strings.Contains(typ, "ex-99.01") {
		score += weightTypeExact991
	}
	if strings.Contains(name, "ex99") || strings.Contains(name, "ex-99") {
		score += weightNameEx99
	}
	if containsAny(name, "99_1", "99-1", "99.1", "9901") {
		score += weightName991
	}
	for _, kw := range PressKeywords {
		if strings.Contains(name, kw) {
			score += weightNameKeyword
		}
	}
	if IsTextFile(a.Name) {
		score += weightTextFile
	} else {
		score += penaltyNonTextFile
	}
	return score
}

// SelectBest filters the manifest to textual attachments, scores them, and
// returns the first maximum. Selection is stable: reordering entries with a
// unique maximum never changes the winner, and ties go to manifest order.
// Returns false when nothing survives the filter or the winner scores below
// the acceptance threshold.
func SelectBest(items []Attachment, opt Options) (Attachment, bool) {
	minScore := opt.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}

	var best Attachment
	bestScore := 0
	found := false
	for _, it := range items {
		if !IsTextFile(it.Name) {
			continue
		}
		if s := Score(it); !found || s > bestScore {
			best, bestScore, found = it, s, true
		}
	}
	if !found || bestScore < minScore {
		return Attachment{}, false
	}
	return best, true
}

// normalize lower-cases and whitespace-normalizes a manifest string before
// matching.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

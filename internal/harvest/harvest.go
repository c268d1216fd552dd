// Package harvest runs the per-filing pipeline: manifest fetch, candidate
// selection, content fetch, text extraction, length validation.
package harvest

import (
	"context"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/edgarpress/edgarpress/internal/edgar"
	"github.com/edgarpress/edgarpress/internal/exhibit"
	"github.com/edgarpress/edgarpress/internal/extract"
)

// DefaultMinTextChars rejects extracts shorter than this many characters.
// Cover pages, stub exhibits, and error pages masquerading as content all
// fall under it.
const DefaultMinTextChars = 1000

// PressRelease is the validated output of one filing. Never mutated after
// creation; the caller owns it from here.
type PressRelease struct {
	ExhibitFile string
	ExhibitType string
	SourceURL   string
	Text        string
}

// Processor locates and extracts the press-release exhibit of one filing.
type Processor struct {
	Edgar *edgar.Client
	// MinTextChars overrides DefaultMinTextChars when positive.
	MinTextChars int
	Select       exhibit.Options
}

// ProcessFiling returns the filing's press release, or false for every
// expected "no press release here" condition: unusable or empty manifest,
// no candidate clearing the score threshold, a failed content fetch, or an
// extract below the length threshold. None of these is an error; skip
// reasons go to debug logs and the caller moves on to the next filing.
func (p *Processor) ProcessFiling(ctx context.Context, cik, accession string) (PressRelease, bool) {
	items, err := p.Edgar.FilingIndex(ctx, cik, accession)
	if err != nil {
		log.Debug().Err(err).Str("accession", accession).Msg("manifest unavailable")
		return PressRelease{}, false
	}
	if len(items) == 0 {
		log.Debug().Str("accession", accession).Msg("empty manifest")
		return PressRelease{}, false
	}

	best, ok := exhibit.SelectBest(items, p.Select)
	if !ok {
		log.Debug().Str("accession", accession).Msg("no acceptable exhibit")
		return PressRelease{}, false
	}

	u := p.Edgar.AttachmentURL(cik, accession, best.Name)
	out, err := p.Edgar.Fetch.Get(ctx, u)
	if err != nil || !out.OK() {
		log.Debug().Err(err).Int("status", out.StatusCode).Str("url", u).Msg("content fetch failed")
		return PressRelease{}, false
	}

	text := extract.Text(out.Body)
	min := p.MinTextChars
	if min <= 0 {
		min = DefaultMinTextChars
	}
	if utf8.RuneCountInString(text) < min {
		log.Debug().Str("accession", accession).Str("exhibit", best.Name).Int("chars", utf8.RuneCountInString(text)).Msg("extract too short")
		return PressRelease{}, false
	}

	return PressRelease{
		ExhibitFile: best.Name,
		ExhibitType: best.Type,
		SourceURL:   u,
		Text:        text,
	}, true
}

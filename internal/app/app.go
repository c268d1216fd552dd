package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/edgarpress/edgarpress/internal/edgar"
	"github.com/edgarpress/edgarpress/internal/exhibit"
	"github.com/edgarpress/edgarpress/internal/fetch"
	"github.com/edgarpress/edgarpress/internal/harvest"
	"github.com/edgarpress/edgarpress/internal/sink"
)

// ErrNoPressReleases is returned when the run ends with zero accepted
// filings across every company. The dataset file is still written (empty
// but for the header) so downstream tooling sees a consistent artifact.
var ErrNoPressReleases = fmt.Errorf("no press releases found")

// App wires the fetch client, the EDGAR client, and the per-filing
// processor, and owns the company loop.
type App struct {
	cfg       Config
	edgar     *edgar.Client
	processor *harvest.Processor
}

func New(cfg Config) (*App, error) {
	if len(cfg.Companies) == 0 {
		return nil, fmt.Errorf("no companies configured")
	}
	if cfg.Contact == "" {
		return nil, fmt.Errorf("missing contact identity: EDGAR requires a descriptive User-Agent with a reachable address")
	}
	if cfg.FormType == "" {
		cfg.FormType = "8-K"
	}
	if cfg.MaxFilingsPerCompany <= 0 {
		cfg.MaxFilingsPerCompany = 300
	}

	client := &fetch.Client{
		UserAgent:         cfg.Contact,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.RequestTimeout,
		MinInterval:       cfg.MinInterval,
	}
	ec := &edgar.Client{
		Fetch:          client,
		DataBaseURL:    cfg.DataBaseURL,
		ArchiveBaseURL: cfg.ArchiveBaseURL,
	}
	p := &harvest.Processor{
		Edgar:        ec,
		MinTextChars: cfg.MinTextChars,
		Select:       exhibit.Options{MinScore: cfg.MinScore},
	}
	return &App{cfg: cfg, edgar: ec, processor: p}, nil
}

// Run processes every configured company sequentially and writes the CSV
// dataset. A company whose filing list cannot be fetched is logged and
// skipped; sibling companies are unaffected. Individual filing failures
// never abort a company. The run therefore completes with a partial
// dataset: filings that failed selection or validation are simply absent.
func (a *App) Run(ctx context.Context) error {
	var rows []sink.Record
	for _, company := range a.cfg.Companies {
		recs, err := a.runCompany(ctx, company)
		rows = append(rows, recs...)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Str("company", company.Name).Msg("company aborted")
		}
	}

	if a.cfg.OutputPath != "" {
		if err := sink.WriteCSVFile(a.cfg.OutputPath, rows); err != nil {
			return fmt.Errorf("write dataset: %w", err)
		}
		log.Info().Str("path", a.cfg.OutputPath).Int("rows", len(rows)).Msg("dataset written")
	}
	if len(rows) == 0 {
		return ErrNoPressReleases
	}
	return nil
}

func (a *App) runCompany(ctx context.Context, company Company) ([]sink.Record, error) {
	log.Info().Str("company", company.Name).Str("form", a.cfg.FormType).Int("target", a.cfg.MaxFilingsPerCompany).Msg("fetching filing list")

	filings, err := a.edgar.RecentFilings(ctx, company.CIK)
	if err != nil {
		return nil, fmt.Errorf("filing list: %w", err)
	}
	selected := filterRecent(filings, a.cfg.FormType, a.cfg.MaxFilingsPerCompany)
	log.Info().Str("company", company.Name).Int("count", len(selected)).Msg("filings to scan")

	var rows []sink.Record
	for _, f := range selected {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		pr, ok := a.processor.ProcessFiling(ctx, company.CIK, f.Accession)
		if !ok {
			continue
		}
		rows = append(rows, sink.Record{
			Company:            company.Name,
			CIK:                company.CIK,
			FilingDate:         f.Date,
			AcceptanceDateTime: f.Acceptance,
			Accession:          f.Accession,
			ExhibitType:        pr.ExhibitType,
			ExhibitFile:        pr.ExhibitFile,
			URL:                pr.SourceURL,
			Text:               pr.Text,
		})
		if len(rows)%10 == 0 {
			log.Info().Str("company", company.Name).Int("found", len(rows)).Msg("press releases so far")
		}
	}
	log.Info().Str("company", company.Name).Int("found", len(rows)).Msg("company done")
	return rows, nil
}

// filterRecent keeps only the requested form type, newest first by filing
// date then acceptance time, capped at max.
func filterRecent(filings []edgar.Filing, form string, max int) []edgar.Filing {
	out := make([]edgar.Filing, 0, len(filings))
	for _, f := range filings {
		if f.Form == form {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Acceptance > out[j].Acceptance
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

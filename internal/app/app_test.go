package app

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/edgarpress/edgarpress/internal/edgar"
)

func TestFilterRecent(t *testing.T) {
	in := []edgar.Filing{
		{Date: "2025-04-30", Acceptance: "2025-04-30T16:30:00.000Z", Form: "8-K", Accession: "acc-3"},
		{Date: "2025-07-30", Acceptance: "2025-07-30T20:05:01.000Z", Form: "8-K", Accession: "acc-1"},
		{Date: "2025-05-01", Acceptance: "2025-05-01T20:01:12.000Z", Form: "10-Q", Accession: "acc-q"},
		{Date: "2025-07-30", Acceptance: "2025-07-30T08:00:00.000Z", Form: "8-K", Accession: "acc-2"},
	}
	out := filterRecent(in, "8-K", 2)
	if len(out) != 2 {
		t.Fatalf("expected cap at 2, got %d", len(out))
	}
	if out[0].Accession != "acc-1" || out[1].Accession != "acc-2" {
		t.Fatalf("expected newest first by date then acceptance, got %+v", out)
	}
	for _, f := range out {
		if f.Form != "8-K" {
			t.Fatalf("non-matching form survived the filter: %+v", f)
		}
	}
}

// fakeEdgar stands up data.sec.gov and www.sec.gov lookalikes for one
// company with two 8-K filings: one carrying a press release, one with only
// a cover page.
func fakeEdgar(t *testing.T) (dataURL, archiveURL string) {
	t.Helper()

	prose := "<html><body><p>" + strings.Repeat("Quarterly revenue grew. ", 60) + "</p></body></html>"

	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/000032019325000001/index.json"):
			_, _ = w.Write([]byte(`{"directory":{"item":[
				{"name":"ex991pressrelease.htm","type":"EX-99.1","size":5000},
				{"name":"form8k.htm","type":"8-K","size":3000}
			]}}`))
		case strings.HasSuffix(r.URL.Path, "/000032019325000002/index.json"):
			_, _ = w.Write([]byte(`{"directory":{"item":[
				{"name":"form8k.htm","type":"8-K","size":3000}
			]}}`))
		case strings.HasSuffix(r.URL.Path, "/ex991pressrelease.htm"):
			_, _ = w.Write([]byte(prose))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(archive.Close)

	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submissions/CIK0000320193.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"filings":{"recent":{
			"filingDate":["2025-08-01","2025-07-01","2025-06-15"],
			"acceptanceDateTime":["2025-08-01T20:00:00.000Z","2025-07-01T20:00:00.000Z","2025-06-15T12:00:00.000Z"],
			"form":["8-K","8-K","10-Q"],
			"accessionNumber":["0000320193-25-000001","0000320193-25-000002","0000320193-25-000003"]
		}}}`))
	}))
	t.Cleanup(data.Close)

	return data.URL, archive.URL
}

func testConfig(t *testing.T, dataURL, archiveURL string) Config {
	t.Helper()
	return Config{
		Companies:      []Company{{Name: "Apple", CIK: "0000320193"}},
		OutputPath:     filepath.Join(t.TempDir(), "out.csv"),
		Contact:        "edgarpress-test test@example.com",
		MinInterval:    time.Millisecond,
		MaxAttempts:    1,
		RequestTimeout: 2 * time.Second,
		DataBaseURL:    dataURL,
		ArchiveBaseURL: archiveURL,
	}
}

func TestRun_WritesDataset(t *testing.T) {
	dataURL, archiveURL := fakeEdgar(t)
	cfg := testConfig(t, dataURL, archiveURL)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	// Header plus exactly one accepted filing: the second 8-K has no
	// acceptable exhibit and the 10-Q is filtered out.
	if len(rows) != 2 {
		t.Fatalf("expected 1 dataset row, got %d", len(rows)-1)
	}
	row := rows[1]
	if row[0] != "Apple" || row[1] != "0000320193" {
		t.Fatalf("unexpected company columns: %v", row[:2])
	}
	if row[2] != "2025-08-01" || row[4] != "0000320193-25-000001" {
		t.Fatalf("record not joined to its filing metadata: %v", row[2:5])
	}
	if row[5] != "EX-99.1" || row[6] != "ex991pressrelease.htm" {
		t.Fatalf("unexpected exhibit columns: %v", row[5:7])
	}
	if !strings.Contains(row[8], "Quarterly revenue grew.") {
		t.Fatalf("extracted text missing: %q", row[8])
	}
}

func TestRun_CompanyFaultIsolated(t *testing.T) {
	dataURL, archiveURL := fakeEdgar(t)
	cfg := testConfig(t, dataURL, archiveURL)
	// The first company's filing list cannot be fetched; the second must
	// still be processed.
	cfg.Companies = []Company{
		{Name: "Ghost", CIK: "0000999999"},
		{Name: "Apple", CIK: "0000320193"},
	}

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run must not fail when one company aborts: %v", err)
	}

	f, err := os.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("open dataset: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Apple" {
		t.Fatalf("expected the surviving company's row, got %v", rows)
	}
}

func TestRun_NoPressReleases(t *testing.T) {
	data := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"filings":{"recent":{"filingDate":[],"acceptanceDateTime":[],"form":[],"accessionNumber":[]}}}`))
	}))
	defer data.Close()

	cfg := testConfig(t, data.URL, data.URL)
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := a.Run(context.Background()); err != ErrNoPressReleases {
		t.Fatalf("expected ErrNoPressReleases, got %v", err)
	}
	// The empty dataset is still written, header only.
	b, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	if !strings.HasPrefix(string(b), "Company,") {
		t.Fatalf("expected header-only dataset, got %q", b)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Contact: "x"}); err == nil {
		t.Fatalf("expected error without companies")
	}
	if _, err := New(Config{Companies: []Company{{Name: "A", CIK: "1"}}}); err == nil {
		t.Fatalf("expected error without a contact identity")
	}
}

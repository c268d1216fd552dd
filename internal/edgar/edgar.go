// Package edgar is a minimal client for the SEC EDGAR submissions and
// archive endpoints. All requests go through the paced fetch client.
package edgar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgarpress/edgarpress/internal/exhibit"
	"github.com/edgarpress/edgarpress/internal/fetch"
)

const (
	defaultDataBaseURL    = "https://data.sec.gov"
	defaultArchiveBaseURL = "https://www.sec.gov"
)

// Client resolves a company's recent filings and each filing's attachment
// manifest. Base URLs default to the public EDGAR hosts and are overridable
// for tests.
type Client struct {
	Fetch          *fetch.Client
	DataBaseURL    string
	ArchiveBaseURL string
}

// Filing is one row of a company's recent-filings listing. Accession keeps
// the hyphenated display form; URL building strips the hyphens.
type Filing struct {
	Date       string
	Acceptance string
	Form       string
	Accession  string
}

type submissionsResponse struct {
	Filings struct {
		Recent struct {
			FilingDate         []string `json:"filingDate"`
			AcceptanceDateTime []string `json:"acceptanceDateTime"`
			Form               []string `json:"form"`
			AccessionNumber    []string `json:"accessionNumber"`
		} `json:"recent"`
	} `json:"filings"`
}

type indexResponse struct {
	Directory struct {
		Item []struct {
			Name string   `json:"name"`
			Type string   `json:"type"`
			Size flexSize `json:"size"`
		} `json:"item"`
	} `json:"directory"`
}

// flexSize tolerates the index listing carrying size as a number, a quoted
// number, or an empty string. The value is informational, so anything
// unparseable decodes to zero instead of failing the manifest.
type flexSize int64

func (f *flexSize) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexSize(n)
	return nil
}

// RecentFilings fetches the submissions resource for a CIK and zips its
// parallel arrays into Filing rows. Decode faults and terminal statuses
// propagate; the caller decides whether to abort the company.
func (c *Client) RecentFilings(ctx context.Context, cik string) ([]Filing, error) {
	u := fmt.Sprintf("%s/submissions/CIK%s.json", c.dataBase(), padCIK(cik))
	var sub submissionsResponse
	if err := c.Fetch.GetJSON(ctx, u, &sub); err != nil {
		return nil, fmt.Errorf("recent filings for CIK %s: %w", cik, err)
	}
	r := sub.Filings.Recent
	filings := make([]Filing, 0, len(r.AccessionNumber))
	for i, acc := range r.AccessionNumber {
		f := Filing{Accession: acc}
		if i < len(r.FilingDate) {
			f.Date = r.FilingDate[i]
		}
		if i < len(r.AcceptanceDateTime) {
			f.Acceptance = r.AcceptanceDateTime[i]
		}
		if i < len(r.Form) {
			f.Form = r.Form[i]
		}
		filings = append(filings, f)
	}
	return filings, nil
}

// FilingIndex fetches one filing's attachment manifest (index.json).
func (c *Client) FilingIndex(ctx context.Context, cik, accession string) ([]exhibit.Attachment, error) {
	u := c.AttachmentURL(cik, accession, "index.json")
	var idx indexResponse
	if err := c.Fetch.GetJSON(ctx, u, &idx); err != nil {
		return nil, fmt.Errorf("filing index %s: %w", accession, err)
	}
	atts := make([]exhibit.Attachment, 0, len(idx.Directory.Item))
	for _, it := range idx.Directory.Item {
		atts = append(atts, exhibit.Attachment{Name: it.Name, Type: it.Type, Size: int64(it.Size)})
	}
	return atts, nil
}

// AttachmentURL builds the archive URL for one file of a filing, using the
// short CIK and the non-hyphenated accession path forms.
func (c *Client) AttachmentURL(cik, accession, name string) string {
	return fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		c.archiveBase(), shortCIK(cik), cleanAccession(accession), name)
}

func (c *Client) dataBase() string {
	if c.DataBaseURL != "" {
		return strings.TrimRight(c.DataBaseURL, "/")
	}
	return defaultDataBaseURL
}

func (c *Client) archiveBase() string {
	if c.ArchiveBaseURL != "" {
		return strings.TrimRight(c.ArchiveBaseURL, "/")
	}
	return defaultArchiveBaseURL
}

// padCIK left-pads a CIK with zeros to the ten digits the submissions
// endpoint expects.
func padCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}

// shortCIK strips leading zeros for the archive path form.
func shortCIK(cik string) string {
	s := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if s == "" {
		return "0"
	}
	return s
}

func cleanAccession(accession string) string {
	return strings.ReplaceAll(strings.TrimSpace(accession), "-", "")
}

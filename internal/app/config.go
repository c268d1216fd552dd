package app

import "time"

// Company maps a display name to its EDGAR CIK.
type Company struct {
	Name string
	CIK  string
}

// Config holds runtime configuration for the harvester.
type Config struct {
	// Companies are processed in order; order is preserved in the dataset.
	Companies []Company

	// FormType selects which filings to scan. Default "8-K".
	FormType string
	// MaxFilingsPerCompany caps how many recent filings are scanned per
	// company. Default 300. Only the "recent" submissions block is read;
	// there is no pagination into older history.
	MaxFilingsPerCompany int

	// OutputPath is where the CSV dataset is written.
	OutputPath string

	// Contact is the User-Agent identity required by EDGAR's access policy,
	// e.g. "Jane Doe jane@example.com". Requests without it risk being
	// blocked.
	Contact string

	// Fetch pacing and retry knobs; zero values take the fetch defaults.
	MinInterval    time.Duration
	RequestTimeout time.Duration
	MaxAttempts    int

	// Acceptance thresholds; zero values take the package defaults.
	MinTextChars int
	MinScore     int

	// Endpoint overrides, used by tests to point at local servers.
	DataBaseURL    string
	ArchiveBaseURL string

	Verbose bool
}

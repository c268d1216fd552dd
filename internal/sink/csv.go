// Package sink writes the assembled dataset as a flat CSV table.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Record is one row of the output dataset: one accepted press release.
type Record struct {
	Company            string
	CIK                string
	FilingDate         string
	AcceptanceDateTime string
	Accession          string
	ExhibitType        string
	ExhibitFile        string
	URL                string
	Text               string
}

var header = []string{
	"Company", "CIK", "FilingDate", "AcceptanceDateTime", "Accession",
	"ExhibitType", "ExhibitFile", "URL", "Text",
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, rows []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		fields := []string{
			r.Company, r.CIK, r.FilingDate, r.AcceptanceDateTime, r.Accession,
			r.ExhibitType, r.ExhibitFile, r.URL, r.Text,
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the dataset to path, truncating any existing file.
func WriteCSVFile(path string, rows []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"skillaudit/audit"
	"skillaudit/linkcheck"
)

// WriteJSON writes the full audit results as formatted JSON to the writer.
func WriteJSON(w io.Writer, res *audit.Results) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteBrokenCSV writes the broken links as CSV, one row per citation site.
// Always includes a header row, even if there are no broken links.
func WriteBrokenCSV(w io.Writer, rep *linkcheck.Report) error {
	cw := csv.NewWriter(w)

	header := []string{"url", "reason", "status_code", "file", "line", "archive_available", "archive_url"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	if rep != nil {
		for _, broken := range rep.Broken {
			for _, loc := range broken.Locations {
				record := []string{
					broken.URL,
					string(broken.Outcome.Reason),
					statusCodeStr(broken.Outcome.StatusCode),
					loc.File,
					strconv.Itoa(loc.Line),
					strconv.FormatBool(broken.Archive.Available),
					broken.Archive.ArchiveURL,
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("write csv record for %s: %w", broken.URL, err)
				}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

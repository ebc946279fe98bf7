package leads

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// utf8BOM makes spreadsheet apps detect the encoding of the export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV renders leads as a spreadsheet-friendly CSV document with a
// header row and a UTF-8 byte-order mark.
func WriteCSV(leads []*Lead) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Name", "Phone", "Requirement", "Status", "Captured At"}); err != nil {
		return nil, fmt.Errorf("leads: csv header: %w", err)
	}
	for _, l := range leads {
		record := []string{
			l.Name,
			l.Phone,
			l.Requirement,
			string(l.Status),
			l.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("leads: csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("leads: csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportFilename names the download after the export date.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("leads_export_%s.csv", now.Format("2006-01-02"))
}

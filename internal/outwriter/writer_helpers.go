package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// withDestination runs write against outputFile, or against ow.stdout when it is empty.
func (ow *OutWriter) withDestination(outputFile string, write func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return write(ow.stdout)
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := write(file); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ow.stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSV writes a header row followed by rows.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := csvWriter.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// numberFormat renders numbers with the configured precision.
type numberFormat struct {
	precision int
}

func (nf numberFormat) float(v float64) string {
	return fmt.Sprintf("%.*f", nf.precision, v)
}

// pct renders a share such as a language percentage.
func (nf numberFormat) pct(v float64) string {
	return nf.float(v) + "%"
}

// change renders a signed percent change such as a trend.
func (nf numberFormat) change(v float64) string {
	return fmt.Sprintf("%+.*f%%", nf.precision, v)
}

// bar draws a horizontal bar of value relative to peak.
func bar(value, peak, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	n := max(1, value*width/peak)
	return strings.Repeat("█", min(n, width))
}

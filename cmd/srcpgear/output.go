package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/srcpgear/internal/report"
)

// newReportWriter returns the report writer for the requested format and a
// function that closes the report file. Without a report file the report
// goes to stdout.
func newReportWriter(stdout io.Writer, reportFile string, asJSON, asMarkdown, verbose bool) (report.Writer, func(), error) {
	output := stdout
	closeFn := func() {}

	if reportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(reportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		output = f
		closeFn = func() { _ = f.Close() }
	}

	switch {
	case asJSON:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion())), closeFn, nil
	case asMarkdown:
		return report.NewMarkdownWriter(output), closeFn, nil
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(verbose)), closeFn, nil
	}
}

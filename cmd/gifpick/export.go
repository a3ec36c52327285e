package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/gifpick/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export <query> [path]",
	Short: `Export the first page of results as an HTML gallery ("" for recommended)`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExport,
}

// runExport writes an HTML gallery for a query. The empty query exports a
// recommended batch.
func runExport(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])

	outputPath := ""
	if len(args) == 2 {
		outputPath = args[1]
	}
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath(query, time.Now())
		if err != nil {
			return fmt.Errorf("default export path: %w", err)
		}
	}

	items, err := firstPage(cmd.Context(), query)
	if err != nil {
		return err
	}

	page, err := exporter.ExportHTML(query, items)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d GIFs to %s\n", len(items), outputPath)
	return nil
}

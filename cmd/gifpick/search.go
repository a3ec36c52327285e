package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/gifpick/internal/fetch"
	"github.com/nikbrunner/gifpick/internal/model"
	"github.com/nikbrunner/gifpick/internal/picker"
)

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search once, pick a GIF and copy its URL",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuickSearch,
}

// firstPage fetches what the picker would show first for query and turns
// failures into the same messages the interactive picker shows.
func firstPage(ctx context.Context, query string) ([]model.Item, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	items, err := fetch.FirstPage(ctx, client, query, cfg.PageSize, cfg.RecommendedCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fetch.Classify(err).Message(fetch.ModeFor(query)), err)
	}
	return items, nil
}

// runQuickSearch fetches the first page for a query and copies the chosen URL.
func runQuickSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	out := cmd.OutOrStdout()

	results, err := firstPage(cmd.Context(), query)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No GIFs found for '%s'\n", query)
		return nil
	}

	var selected *model.Item

	if len(results) == 1 {
		// Single result - copy it directly
		selected = &results[0]
		if err := copyToClipboard(selected.CanonicalURL); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(out, "Copied: %s\n", selected.DisplayTitle())
	} else {
		p := picker.New(picker.Params{Items: results, Query: query, Copy: copyToClipboard})
		finalModel, err := tea.NewProgram(p, tea.WithOutput(out)).Run()
		if err != nil {
			return fmt.Errorf("running picker: %w", err)
		}
		selected = finalModel.(picker.Picker).Chosen()
	}

	if selected == nil {
		return nil
	}

	log.Info().Str("id", selected.ID).Str("query", query).Msg("copied url")
	fmt.Fprintln(out, selected.CanonicalURL)
	return nil
}

package layout

// GridLayout holds calculated grid dimensions.
type GridLayout struct {
	Columns     int
	CardWidth   int
	VisibleRows int
}

// CalculateGrid computes the column count, card width and number of card rows
// that fit the terminal.
func CalculateGrid(terminalWidth, terminalHeight int, cfg GridConfig) GridLayout {
	available := terminalWidth - cfg.WidthReduction
	if available < cfg.MinCardWidth {
		available = cfg.MinCardWidth
	}

	columns := (available + cfg.CardGap) / (cfg.MinCardWidth + cfg.CardGap)
	if columns < 1 {
		columns = 1
	}
	if cfg.MaxColumns > 0 && columns > cfg.MaxColumns {
		columns = cfg.MaxColumns
	}

	cardWidth := (available - cfg.CardGap*(columns-1)) / columns

	return GridLayout{
		Columns:     columns,
		CardWidth:   cardWidth,
		VisibleRows: CalculateVisibleRows(terminalHeight, cfg),
	}
}

// CalculateVisibleRows computes how many card rows fit. Always at least one.
func CalculateVisibleRows(terminalHeight int, cfg GridConfig) int {
	if cfg.CardHeight <= 0 {
		return 1
	}
	rows := (terminalHeight - cfg.HeightReduction) / cfg.CardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// CalculateCardContentWidth computes the width available for text inside a card.
func CalculateCardContentWidth(cardWidth int, cfg GridConfig) int {
	width := cardWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// RowCount returns the number of rows needed for total items.
func RowCount(total, columns int) int {
	if total <= 0 || columns <= 0 {
		return 0
	}
	return (total + columns - 1) / columns
}

// CalculateViewportOffset calculates the row offset needed to keep the
// selected row visible within the viewport.
func CalculateViewportOffset(selectedRow, totalRows, visibleRows int) int {
	if totalRows <= visibleRows {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selectedRow - visibleRows/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := totalRows - visibleRows
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}

// SentinelVisible reports whether the end of the grid is on screen, i.e. the
// last row is rendered within the viewport starting at offset.
func SentinelVisible(offset, totalRows, visibleRows int) bool {
	return totalRows-offset <= visibleRows
}

package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Grid  GridConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// GridConfig holds result grid dimension configuration.
type GridConfig struct {
	// HeightReduction is subtracted from terminal height for the grid area.
	// Accounts for: app padding (1) + header (1) + search box (1) + status line (2) + help bar (2) = 7
	HeightReduction int

	// WidthReduction is subtracted from terminal width before splitting into columns.
	WidthReduction int

	// MinCardWidth is the narrowest a card may get before a column is dropped.
	MinCardWidth int

	// MaxColumns caps the number of cards per row.
	MaxColumns int

	// CardHeight is the rendered height of one card, borders included.
	CardHeight int

	// CardGap is the horizontal space between cards in a row.
	CardGap int

	// ContentPadding is subtracted from card width for text rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the help overlay width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// HelpLeftColumnWidth: width for help overlay key column.
	HelpLeftColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	FilterCharLimit int

	SearchWidth int
	FilterWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Grid: GridConfig{
			HeightReduction: 7,
			WidthReduction:  4,
			MinCardWidth:    28,
			MaxColumns:      3,
			CardHeight:      5,
			CardGap:         1,
			ContentPadding:  4,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 50,
			MinWidth:            40,
			MaxWidth:            70,
			HelpLeftColumnWidth: 14,
		},
		Input: InputConfig{
			SearchCharLimit: 0, // unlimited, overlong queries surface as QueryTooLong
			FilterCharLimit: 50,
			SearchWidth:     50,
			FilterWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}

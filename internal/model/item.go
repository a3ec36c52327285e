package model

// Item is a single GIF result. Items are immutable once fetched.
type Item struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	PreviewURL   string `json:"previewUrl"`   // playable mp4 preview
	CanonicalURL string `json:"canonicalUrl"` // permalink copied to the clipboard
}

// DisplayTitle returns a display title, falling back to the ID.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.ID
}

package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nikbrunner/gifpick/internal/model"
)

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/gifs-<query>-YYYY-MM-DD.html
func DefaultExportPath(query string, now time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(query), "-"), "-")
	if slug == "" {
		slug = "recommended"
	}
	filename := fmt.Sprintf("gifs-%s-%s.html", slug, now.Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML renders items as a standalone HTML gallery page. Each card
// plays the preview and links to the canonical page.
func ExportHTML(query string, items []model.Item) (string, error) {
	title := "Recommended GIFs"
	if q := strings.TrimSpace(query); q != "" {
		title = fmt.Sprintf("GIFs for %q", q)
	}

	head := element(atom.Head,
		withAttrs(element(atom.Meta), "charset", "utf-8"),
		element(atom.Title, text(title)),
		element(atom.Style, text(galleryCSS)),
	)

	grid := withAttrs(element(atom.Div), "class", "grid")
	if len(items) == 0 {
		grid.AppendChild(withAttrs(element(atom.P, text("No GIFs found.")), "class", "empty"))
	}
	for _, item := range items {
		grid.AppendChild(card(item))
	}

	body := element(atom.Body, element(atom.H1, text(title)), grid)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(withAttrs(element(atom.Html, head, body), "lang", "en"))

	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", fmt.Errorf("render gallery: %w", err)
	}
	b.WriteString("\n")
	return b.String(), nil
}

func card(item model.Item) *html.Node {
	video := withAttrs(element(atom.Video),
		"src", item.PreviewURL,
		"autoplay", "",
		"loop", "",
		"muted", "",
		"playsinline", "",
	)
	link := withAttrs(element(atom.A, text(item.DisplayTitle())), "href", item.CanonicalURL)

	return withAttrs(element(atom.Div, video, link),
		"class", "card",
		"data-id", item.ID,
	)
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// withAttrs appends key/value pairs as attributes and returns n.
func withAttrs(n *html.Node, kv ...string) *html.Node {
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

const galleryCSS = `body{font-family:sans-serif;background:#f9fafb;padding:3rem}
h1{text-align:center}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(240px,1fr));gap:1rem;max-width:64rem;margin:0 auto}
.card{background:#fff;border:1px solid #e2e8f0;border-radius:4px;padding:.5rem;display:flex;flex-direction:column;align-items:center}
.card video{max-width:100%}
.empty{grid-column:1/-1;text-align:center}`

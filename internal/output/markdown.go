package output

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	rendererCache sync.Map // map[int]*glamour.TermRenderer
	plainMarkdown bool
)

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := rendererCache.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}

	style := glamour.WithAutoStyle()
	if plainMarkdown {
		style = glamour.WithStandardStyle("notty")
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	rendererCache.Store(width, renderer)
	return renderer, nil
}

// Markdown renders notes or comment text for the terminal. Rendering
// failures fall back to the raw text.
func Markdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	renderer, err := markdownRenderer(width)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

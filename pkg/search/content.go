package search

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/loomworks/scout/pkg/normalize"
	"github.com/loomworks/scout/pkg/types"
)

// searchContent extracts the document's plain text and finds every
// case-insensitive occurrence of the term, collecting up to
// MaxContentSnippets context snippets of window characters either side.
func searchContent(content json.RawMessage, term string, window int) *types.DocContentResult {
	tree := normalize.Decode(content)
	// Drivers without native JSON columns store the rich-text tree as a
	// JSON-encoded string; unwrap one level before walking.
	if s, ok := tree.(string); ok {
		if inner := normalize.Decode(json.RawMessage(s)); inner != nil {
			tree = inner
		}
	}
	text := extractText(tree)
	result := &types.DocContentResult{}
	if text == "" || term == "" {
		return result
	}

	lower := strings.ToLower(text)
	needle := strings.ToLower(term)

	for from := 0; ; {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			break
		}
		at := from + i
		result.MatchCount++
		if len(result.Snippets) < types.MaxContentSnippets {
			result.Snippets = append(result.Snippets, snippet(text, at, len(needle), window))
		}
		from = at + len(needle)
	}
	result.Found = result.MatchCount > 0
	return result
}

// snippet cuts the window around one match. The window is counted in bytes
// but the cut never lands inside a multi-byte rune. Ellipses are added only
// where the cut actually truncated text.
func snippet(text string, at, matchLen, window int) string {
	start := at - window
	if start < 0 {
		start = 0
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	end := at + matchLen + window
	if end > len(text) {
		end = len(text)
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	out := text[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(text) {
		out = out + "..."
	}
	return out
}

// extractText walks a rich-text tree depth-first and concatenates every
// text node's content in document order. The tree shape is the editor's:
// nodes are objects with a "type", text nodes carry their string under
// "text", and children sit under "content" or "children".
func extractText(node any) string {
	var b strings.Builder
	walkText(node, &b)
	return b.String()
}

func walkText(node any, b *strings.Builder) {
	switch n := node.(type) {
	case []any:
		for _, child := range n {
			walkText(child, b)
		}
	case map[string]any:
		if t, _ := n["type"].(string); t == "text" {
			if txt, ok := n["text"].(string); ok {
				b.WriteString(txt)
			}
			return
		}
		// Block-level nodes separate their text with a space so words from
		// adjacent paragraphs do not run together.
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		for _, key := range []string{"content", "children"} {
			if children, ok := n[key]; ok {
				walkText(children, b)
			}
		}
	}
}

package structuredoutput

import (
	"regexp"
	"strings"
)

// MiniMapNode is one node of the recursive wiki-structure summary.
type MiniMapNode struct {
	Title string         `json:"title"`
	URL   string         `json:"url,omitempty"`
	Nodes []*MiniMapNode `json:"nodes,omitempty"`
}

var headingLine = regexp.MustCompile(`^(#+)\s*(.+)$`)

// ParseMiniMap turns Markdown-style headings into a MiniMapNode forest,
// wrapped under a synthetic root. Heading level (count of leading '#')
// drives nesting; a heading may encode a URL as "# Title: path/to/file",
// where the portion after the last ':' becomes the URL.
//
// This is a well-formed recursive descent over an explicit line cursor:
// each call to parseLevel advances the cursor by exactly one line per
// line it consumes, and never more than once per iteration, regardless
// of whether that line is consumed as a heading or skipped as prose.
func ParseMiniMap(text string) *MiniMapNode {
	lines := strings.Split(text, "\n")
	root := &MiniMapNode{Title: "root"}
	i := 0
	root.Nodes = parseLevel(lines, &i, 1)
	return root
}

// parseLevel consumes headings at minLevel or deeper as siblings, recursing
// for each one's children (headings deeper than it), and returns once the
// cursor reaches a heading shallower than minLevel or the input ends.
func parseLevel(lines []string, i *int, minLevel int) []*MiniMapNode {
	var nodes []*MiniMapNode
	for *i < len(lines) {
		line := lines[*i]
		m := headingLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			*i++
			continue
		}
		level := len(m[1])
		if level < minLevel {
			return nodes
		}
		// A heading deeper than minLevel with no matching parent consumed
		// first belongs to the current level rather than being dropped; its
		// children are the headings deeper than its own level.
		title, url := splitTitleURL(m[2])
		node := &MiniMapNode{Title: title, URL: url}
		*i++
		node.Nodes = parseLevel(lines, i, level+1)
		nodes = append(nodes, node)
	}
	return nodes
}

// splitTitleURL splits "Title: path/to/file" into ("Title", "path/to/file")
// using the last colon as the separator; a heading with no colon has no
// URL.
func splitTitleURL(heading string) (title, url string) {
	idx := strings.LastIndex(heading, ":")
	if idx < 0 {
		return strings.TrimSpace(heading), ""
	}
	return strings.TrimSpace(heading[:idx]), strings.TrimSpace(heading[idx+1:])
}

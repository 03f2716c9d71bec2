package compressor

import (
	"regexp"
	"strings"
)

func init() {
	register([]string{"markdown"}, markdownCompressor)
}

var (
	markdownHeading   = regexp.MustCompile(`^\s{0,3}#{1,6}\s`)
	markdownListItem  = regexp.MustCompile(`^(\s*)([-*+]|\d+\.)\s+(.*)$`)
	markdownQuote     = regexp.MustCompile(`^\s*>`)
	markdownFence     = regexp.MustCompile("^\\s*(```|~~~)")
	markdownTableRow  = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	markdownRule      = regexp.MustCompile(`^\s*([-*_])(\s*\1){2,}\s*$`)
	markdownLinkImage = regexp.MustCompile(`!?\[[^\]]*\]\([^)]*\)`)
)

// markdownCompressor implements the §4.3 Markdown rules: preserve
// headings (level and text), block quotes, code-fence markers, links,
// images, tables, and horizontal rules; list items keep their marker but
// have their content replaced with an ellipsis.
var markdownCompressor = Func(func(text string) string {
	var out []string
	inFence := false

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if markdownFence.MatchString(line) {
			out = append(out, line)
			inFence = !inFence
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		switch {
		case markdownHeading.MatchString(line),
			markdownQuote.MatchString(line),
			markdownTableRow.MatchString(line),
			markdownRule.MatchString(line),
			markdownLinkImage.MatchString(line):
			out = append(out, line)
		default:
			if m := markdownListItem.FindStringSubmatch(line); m != nil {
				out = append(out, m[1]+m[2]+" …")
				continue
			}
			// plain prose paragraph line: dropped.
		}
	}
	return strings.Join(out, "\n")
})

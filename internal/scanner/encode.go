package scanner

import (
	"strconv"
	"strings"

	"github.com/tangerg/codewiki/internal/codewikierr"
)

// Format selects one of the four FileTree encodings.
type Format string

const (
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
	FormatPathList Format = "pathlist"
	FormatUnix     Format = "unix"
)

// EncodeOptions configures an encoding pass.
type EncodeOptions struct {
	// CollapseSingleChild collapses a directory with exactly one child into
	// its child's path in the pathlist format — the spec'd compact-path
	// optimization. Defaults to true; exposed so a caller can turn it off
	// when a literal one-entry-per-directory listing is wanted instead.
	CollapseSingleChild bool
}

// DefaultEncodeOptions returns the spec'd default options.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{CollapseSingleChild: true}
}

// Encode renders tree in the given format. Output is deterministic for a
// given tree and format.
func Encode(tree *FileTree, format Format, opts EncodeOptions) (string, error) {
	switch format {
	case FormatCompact:
		return encodeCompact(tree), nil
	case FormatJSON:
		return encodeJSON(tree), nil
	case FormatPathList:
		return encodePathList(tree, opts), nil
	case FormatUnix:
		return encodeUnix(tree), nil
	default:
		return "", codewikierr.New(codewikierr.KindValidation, "unknown filetree encoding: "+string(format))
	}
}

func encodeCompact(tree *FileTree) string {
	var b strings.Builder
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		for _, child := range sortedChildren(node) {
			kind := "F"
			if child.IsDirectory {
				kind = "D"
			}
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(child.Name)
			b.WriteByte('/')
			b.WriteString(kind)
			b.WriteByte('\n')
			if child.IsDirectory {
				walk(child, depth+1)
			}
		}
	}
	walk(tree.Root, 0)
	return b.String()
}

func encodeJSON(tree *FileTree) string {
	var b strings.Builder
	var walk func(node *Node)
	walk = func(node *Node) {
		b.WriteByte('{')
		children := sortedChildren(node)
		for i, child := range children {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(child.Name))
			b.WriteByte(':')
			if child.IsDirectory {
				walk(child)
			} else {
				b.WriteString(`"F"`)
			}
		}
		b.WriteByte('}')
	}
	walk(tree.Root)
	return b.String()
}

func encodePathList(tree *FileTree, opts EncodeOptions) string {
	var lines []string
	var walk func(node *Node, prefix string)
	walk = func(node *Node, prefix string) {
		children := sortedChildren(node)
		for _, child := range children {
			path := prefix + child.Name
			if !child.IsDirectory {
				lines = append(lines, path)
				continue
			}
			dirPath := path + "/"
			if opts.CollapseSingleChild && len(child.Children) == 1 {
				walk(child, dirPath)
				continue
			}
			lines = append(lines, dirPath)
			walk(child, dirPath)
		}
	}
	walk(tree.Root, "")
	return strings.Join(lines, "\n")
}

func encodeUnix(tree *FileTree) string {
	var b strings.Builder
	var walk func(node *Node, prefix string)
	walk = func(node *Node, prefix string) {
		children := sortedChildren(node)
		for i, child := range children {
			last := i == len(children)-1
			connector := "├── "
			nextPrefix := prefix + "│   "
			if last {
				connector = "└── "
				nextPrefix = prefix + "    "
			}
			b.WriteString(prefix)
			b.WriteString(connector)
			b.WriteString(child.Name)
			if child.IsDirectory {
				b.WriteByte('/')
			}
			b.WriteByte('\n')
			if child.IsDirectory {
				walk(child, nextPrefix)
			}
		}
	}
	walk(tree.Root, "")
	return b.String()
}

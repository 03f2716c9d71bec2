package scanner

import (
	"path/filepath"
	"sort"
	"strings"
)

// Node is one entry in a FileTree: either a Directory (Children non-nil)
// or a File (leaf).
type Node struct {
	Name        string
	IsDirectory bool
	SizeBytes   int64
	Children    map[string]*Node
}

// FileTree is a rooted tree built by splitting each PathInfo's path
// relative to the scan root on the system separator.
type FileTree struct {
	Root *Node
}

// BuildFileTree builds a FileTree from a flat PathInfo list, relative to
// root.
func BuildFileTree(root string, infos []PathInfo) (*FileTree, error) {
	tree := &FileTree{Root: &Node{IsDirectory: true, Children: map[string]*Node{}}}
	for _, info := range infos {
		rel, err := filepath.Rel(root, info.AbsolutePath)
		if err != nil {
			return nil, err
		}
		segments := strings.Split(filepath.ToSlash(rel), "/")
		insert(tree.Root, segments, info)
	}
	return tree, nil
}

func insert(node *Node, segments []string, info PathInfo) {
	name := segments[0]
	child, ok := node.Children[name]
	if !ok {
		child = &Node{Name: name}
		node.Children[name] = child
	}
	if len(segments) == 1 {
		child.IsDirectory = info.IsDirectory
		child.SizeBytes = info.SizeBytes
		if info.IsDirectory && child.Children == nil {
			child.Children = map[string]*Node{}
		}
		return
	}
	if child.Children == nil {
		child.Children = map[string]*Node{}
		child.IsDirectory = true
	}
	insert(child, segments[1:], info)
}

// sortedChildren returns node's children ordered directories-before-files,
// then alphabetically — the order every encoder renders in.
func sortedChildren(node *Node) []*Node {
	children := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool {
		a, b := children[i], children[j]
		if a.IsDirectory != b.IsDirectory {
			return a.IsDirectory
		}
		return a.Name < b.Name
	})
	return children
}

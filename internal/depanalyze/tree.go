package depanalyze

// MaxTreeDepth bounds how deep BuildTree descends before stopping a
// branch even if it isn't cyclic.
const MaxTreeDepth = 10

// TreeNode is one file in a dependency tree rooted at a starting file.
type TreeNode struct {
	Path     string
	IsCyclic bool
	Children []*TreeNode
}

// BuildTree walks idx's file dependency graph depth-first from root,
// stopping a branch when it revisits a file already on the current path
// (marking that child IsCyclic and not descending into it) or when it
// reaches MaxTreeDepth.
func BuildTree(idx *Index, root string) *TreeNode {
	return buildNode(idx, root, map[string]bool{root: true}, 0)
}

func buildNode(idx *Index, path string, onPath map[string]bool, depth int) *TreeNode {
	node := &TreeNode{Path: path}
	if depth >= MaxTreeDepth {
		return node
	}
	deps := idx.FileDeps[path]
	children := sortedKeys(deps)
	for _, dep := range children {
		if onPath[dep] {
			node.Children = append(node.Children, &TreeNode{Path: dep, IsCyclic: true})
			continue
		}
		onPath[dep] = true
		node.Children = append(node.Children, buildNode(idx, dep, onPath, depth+1))
		delete(onPath, dep)
	}
	return node
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

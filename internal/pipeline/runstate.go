package pipeline

import (
	"github.com/tangerg/codewiki/internal/scanner"
	"github.com/tangerg/codewiki/internal/wikimodel"
)

// runState threads one WikiDocument run's accumulated state through the
// compiled flow.Flow. Each stage reads the fields earlier stages filled
// in and fills in its own; flow.Flow only ever sees it boxed as `any`.
type runState struct {
	doc  *wikimodel.WikiDocument
	repo *wikimodel.Repository

	infos []scanner.PathInfo
	tree  *scanner.FileTree

	miniMapRoot *wikimodel.MiniMapNode

	// catalogNodes is the flattened Catalog forest produced by stage 6,
	// parent-before-child, ready for wikistore.CatalogStore.PutTree.
	catalogNodes []*wikimodel.Catalog
}

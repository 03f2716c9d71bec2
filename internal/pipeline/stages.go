package pipeline

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/docctx"
	"github.com/tangerg/codewiki/internal/llm/kernel"
	"github.com/tangerg/codewiki/internal/scanner"
	"github.com/tangerg/codewiki/internal/structuredoutput"
	"github.com/tangerg/codewiki/internal/wikimodel"
)

// classifyValues is the fixed allow-list stage 3's classifier output is
// checked against, grounded on generate_classify's ClassifyType enum.
var classifyValues = []string{
	"Applications", "Frameworks", "Libraries", "DevelopmentTools",
	"CLITools", "DevOpsConfiguration", "Documentation",
}

// runReadmeStage is stage 1: generate_readme. Scans the repository,
// encodes the tree, and asks the model for a README wrapped in <readme>,
// letting it use the file-inspection tools along the way.
func (p *Pipeline) runReadmeStage(ctx context.Context, rs *runState) error {
	infos, tree, catalogue, err := p.scanAndEncode(rs.repo.LocalPath)
	if err != nil {
		return err
	}
	rs.infos = infos
	rs.tree = tree

	prompt, err := renderPrompt(readmePrompt, map[string]any{
		"git_repository": rs.repo.Name,
		"branch":         rs.repo.Branch,
		"catalogue":      catalogue,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render readme prompt", err)
	}

	raw, err := invokeWithTools(ctx, p.deps.Kernel, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceAuto,
	})
	if err != nil {
		return err
	}

	rs.doc.Readme = structuredoutput.ExtractReadme(raw)
	rs.doc.CatalogueText = catalogue
	return nil
}

// scanAndEncode walks root and encodes it with the configured catalogue
// format, the shared first step of every stage that needs a directory
// listing in a prompt.
func (p *Pipeline) scanAndEncode(root string) ([]scanner.PathInfo, *scanner.FileTree, string, error) {
	infos, err := scanner.Scan(root)
	if err != nil {
		return nil, nil, "", err
	}
	tree, err := scanner.BuildFileTree(root, infos)
	if err != nil {
		return nil, nil, "", err
	}
	encoded, err := scanner.Encode(tree, p.deps.CatalogueFormat, scanner.DefaultEncodeOptions())
	if err != nil {
		return nil, nil, "", err
	}
	return infos, tree, encoded, nil
}

// runCatalogueStage is stage 2: generate_repo_catalogue. When smart
// filtering is enabled and the scan is large, asks the model to reduce
// the listing to what matters; otherwise keeps the raw encoding from
// stage 1 as-is. The model call here is the one spec §7 gives 5 attempts
// and a 5*(attempt+1)s linear wait, which runStage already provides via
// this stage's stageDef.maxAttempts.
func (p *Pipeline) runCatalogueStage(ctx context.Context, rs *runState) error {
	if !p.deps.EnableSmartFilter || len(rs.infos) <= p.deps.SmartFilterThreshold {
		return nil
	}

	prompt, err := renderPrompt(directorySimplifierPrompt, map[string]any{
		"readme":     rs.doc.Readme,
		"code_files": rs.doc.CatalogueText,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render directory simplifier prompt", err)
	}

	raw, _, err := p.deps.Kernel.InvokePrompt(ctx, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceNone,
	})
	if err != nil {
		return err
	}

	simplified := structuredoutput.ExtractResponseFile(raw.Content)
	if simplified != "" {
		rs.doc.CatalogueText = simplified
	}
	return nil
}

// runClassifyStage is stage 3: generate_classify.
func (p *Pipeline) runClassifyStage(ctx context.Context, rs *runState) error {
	prompt, err := renderPrompt(classifyPrompt, map[string]any{
		"readme":    rs.doc.Readme,
		"catalogue": rs.doc.CatalogueText,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render classify prompt", err)
	}

	raw, _, err := p.deps.Kernel.InvokePrompt(ctx, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceNone,
	})
	if err != nil {
		return err
	}

	// An unrecognized or absent classification resolves to "", never an
	// error: classification only narrows which overview prompt variant
	// runs next, it never gates the pipeline.
	rs.doc.ClassifyName = structuredoutput.ExtractClassify(raw.Content, classifyValues)
	return nil
}

// runMiniMapStage is stage 4, grounded on spec's own description plus
// structuredoutput.ParseMiniMap's heading-based parser (no original_source
// file covers this stage).
func (p *Pipeline) runMiniMapStage(ctx context.Context, rs *runState) error {
	prompt, err := renderPrompt(miniMapPrompt, map[string]any{
		"catalogue": rs.doc.CatalogueText,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render minimap prompt", err)
	}

	raw, _, err := p.deps.Kernel.InvokePrompt(ctx, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceNone,
	})
	if err != nil {
		return err
	}

	parsed := structuredoutput.ParseMiniMap(raw.Content)
	rs.miniMapRoot = convertMiniMapNode(parsed)

	miniMap, err := wikimodel.NewMiniMap(rs.doc.ID, rs.miniMapRoot)
	if err != nil {
		return err
	}
	return p.deps.Store.PutMiniMap(ctx, miniMap)
}

// runOverviewStage is stage 5: generate_overview. The prompt variant
// changes with classification, matching "Overview" + classify.value.
func (p *Pipeline) runOverviewStage(ctx context.Context, rs *runState) error {
	prompt, err := renderPrompt(overviewPrompt, map[string]any{
		"git_repository": strings.TrimSuffix(rs.repo.Name, ".git"),
		"branch":         rs.repo.Branch,
		"classify":       rs.doc.ClassifyName,
		"readme":         rs.doc.Readme,
		"catalogue":      rs.doc.CatalogueText,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render overview prompt", err)
	}

	raw, _, err := p.deps.Kernel.InvokePrompt(ctx, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceNone,
	})
	if err != nil {
		return err
	}

	body := structuredoutput.ExtractBlog(raw.Content)
	title := overviewTitle(rs.repo.Name)
	overview, err := wikimodel.NewOverview(rs.doc.ID, title, body)
	if err != nil {
		return err
	}
	return p.deps.Store.PutOverview(ctx, overview)
}

func overviewTitle(repoName string) string {
	if repoName == "" {
		return "Overview"
	}
	return repoName + " Overview"
}

// runWikiCatalogueStage is stage 6: lays out the wiki's table of contents
// as a Catalog forest, assigning Order by traversal order itself since
// wikistore.CatalogStore.PutTree's in-memory implementation stores
// whatever order it is given rather than deriving one.
func (p *Pipeline) runWikiCatalogueStage(ctx context.Context, rs *runState) error {
	prompt, err := renderPrompt(wikiCatalogueTreePrompt, map[string]any{
		"classify":  rs.doc.ClassifyName,
		"catalogue": rs.doc.CatalogueText,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render wiki catalogue prompt", err)
	}

	raw, _, err := p.deps.Kernel.InvokePrompt(ctx, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceNone,
	})
	if err != nil {
		return err
	}

	parsed := structuredoutput.ParseMiniMap(raw.Content)

	nodes, err := buildCatalogForest(rs.doc.ID, parsed)
	if err != nil {
		return err
	}
	rs.catalogNodes = nodes
	return p.deps.Store.PutTree(ctx, rs.doc.ID, nodes)
}

// buildCatalogForest flattens parsed's children into a Catalog slice,
// parent-before-child, assigning Order by depth-first traversal order
// within each sibling group.
func buildCatalogForest(documentID uuid.UUID, parsed *structuredoutput.MiniMapNode) ([]*wikimodel.Catalog, error) {
	var out []*wikimodel.Catalog
	var walk func(nodes []*structuredoutput.MiniMapNode, parent *uuid.UUID) error
	walk = func(nodes []*structuredoutput.MiniMapNode, parent *uuid.UUID) error {
		for i, n := range nodes {
			cat, err := wikimodel.NewCatalog(documentID, parent, n.Title, n.URL, "", i, "")
			if err != nil {
				return err
			}
			out = append(out, cat)
			id := cat.ID
			if err := walk(n.Nodes, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(parsed.Nodes, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// runWikiContentStage is stage 7: fans out one article-generation call per
// leaf catalog node, bounded by the configured pool. Only leaves get a
// Content row; intermediate nodes exist to organize the table of contents.
func (p *Pipeline) runWikiContentStage(ctx context.Context, rs *runState) error {
	leaves := leafCatalogNodes(rs.catalogNodes)

	var wg sync.WaitGroup
	errs := make([]error, len(leaves))

	for i, node := range leaves {
		i, node := i, node
		wg.Add(1)
		submitErr := p.deps.Pool.Submit(func() {
			defer wg.Done()
			errs[i] = p.generateArticle(ctx, rs, node)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// leafCatalogNodes returns the nodes that no other node names as its
// parent.
func leafCatalogNodes(nodes []*wikimodel.Catalog) []*wikimodel.Catalog {
	parentIDs := make(map[uuid.UUID]bool, len(nodes))
	for _, n := range nodes {
		if n.ParentID != nil {
			parentIDs[*n.ParentID] = true
		}
	}
	leaves := make([]*wikimodel.Catalog, 0, len(nodes))
	for _, n := range nodes {
		if !parentIDs[n.ID] {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

func (p *Pipeline) generateArticle(ctx context.Context, rs *runState, node *wikimodel.Catalog) error {
	prompt, err := renderPrompt(wikiContentPrompt, map[string]any{
		"title":       node.Title,
		"prompt_hint": node.PromptHint,
		"classify":    rs.doc.ClassifyName,
		"catalogue":   rs.doc.CatalogueText,
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render wiki content prompt", err)
	}

	docCtx := docctx.New()
	raw, err := invokeWithTools(docctx.With(ctx, docCtx), p.deps.Kernel, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceAuto,
	})
	if err != nil {
		return err
	}

	content, err := wikimodel.NewContent(node.ID, node.Title, node.Description, structuredoutput.ExtractBlog(raw), nil)
	if err != nil {
		return err
	}

	var sources []*wikimodel.ContentSource
	for _, file := range docCtx.Files() {
		source, err := wikimodel.NewContentSource(content.ID, file, path.Base(file))
		if err != nil {
			return err
		}
		sources = append(sources, source)
	}
	content.Update(content.Body, sources)

	return p.deps.Store.PutContent(ctx, content)
}

// runChangelogStage is stage 8: generate_update_log. Skipped entirely
// when the repository has no remote URL, matching the git-URL-gated
// behavior of the original stage.
func (p *Pipeline) runChangelogStage(ctx context.Context, rs *runState) error {
	if rs.repo.RemoteURL == nil || *rs.repo.RemoteURL == "" {
		return nil
	}
	return p.generateChangelog(ctx, rs)
}

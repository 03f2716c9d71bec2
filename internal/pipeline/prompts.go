package pipeline

import "github.com/tangerg/codewiki/internal/prompttemplate"

// Prompt bodies, grounded on original_source's generate_readme /
// generate_repo_catalogue / generate_classify / generate_overview /
// generate_update_log call sites (app/services/code_wiki/document_gen_service.py),
// rendered with prompttemplate.Render the same way the kernel package
// renders a loaded semantic-function template.

const readmePrompt = `Generate a README for this repository in Markdown.
Repository: {{.git_repository}}
Branch: {{.branch}}
Directory structure:
{{.catalogue}}

Use the ReadFile, ListFiles, and SearchFiles tools to inspect source files
as needed. Respond with the README wrapped in <readme></readme>.`

const directorySimplifierPrompt = `Reduce this directory listing to the files and
directories most relevant to understanding the project, keeping its nesting.
README:
{{.readme}}

Directory listing:
{{.code_files}}

Respond with the reduced listing wrapped in <response_file></response_file>.`

const classifyPrompt = `Classify this repository into exactly one of:
Applications, Frameworks, Libraries, DevelopmentTools, CLITools,
DevOpsConfiguration, Documentation.

README:
{{.readme}}

Directory structure:
{{.catalogue}}

Respond with <classify>classifyName: <one of the above></classify>.`

const miniMapPrompt = `Produce a nested knowledge map of this repository as
Markdown headings, deepest heading per leaf topic, each heading formatted
as "### Title: optional/relative/path".

Directory structure:
{{.catalogue}}`

const overviewPrompt = `Write a project overview in Markdown for this repository.
Repository: {{.git_repository}}
Branch: {{.branch}}
Classification: {{.classify}}
README:
{{.readme}}

Directory structure:
{{.catalogue}}

Respond with the overview wrapped in <blog></blog>.`

const wikiCatalogueTreePrompt = `Design a hierarchical table of contents for
this repository's wiki, as nested Markdown headings, one heading per topic,
formatted as "### Title: short one-line description of what this topic covers".
Classification: {{.classify}}

Directory structure:
{{.catalogue}}`

const wikiContentPrompt = `Write a Markdown article for the wiki topic
"{{.title}}" ({{.prompt_hint}}).

Use the ReadFile, ListFiles, and SearchFiles tools to ground the article in
the actual source files under the repository root. Cite every file you
relied on.

Repository classification: {{.classify}}
Directory structure:
{{.catalogue}}`

const commitAnalyzePrompt = `Summarize the following commit history into a
JSON array of {"date","title","description"} objects, most recent first,
grouping trivial commits together.
Repository: {{.git_repository}}
Branch: {{.branch}}
README:
{{.readme}}

Commits:
{{.commit_message}}

Respond with the JSON array wrapped in <changelog></changelog>.`

func renderPrompt(body string, vars map[string]any) (string, error) {
	return prompttemplate.Render(body, vars)
}

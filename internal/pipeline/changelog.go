package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/llm/kernel"
	"github.com/tangerg/codewiki/internal/structuredoutput"
	"github.com/tangerg/codewiki/internal/wikimodel"
)

// changelogCommitLimit matches generate_update_log's "last 20 commits".
const changelogCommitLimit = 20

// commitLogSeparator delimits the four %H/%an/%cI/%s fields git log emits
// per commit; chosen because it cannot appear in a commit subject.
const commitLogSeparator = "\x1f"

type rawCommit struct {
	sha       string
	author    string
	timestamp time.Time
	subject   string
}

// commitSummary is one entry the model returns from commitAnalyzePrompt.
type commitSummary struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// generateChangelog is stage 8's body: reads recent commit history,
// summarizes it through the model, and persists the resulting
// CommitRecord set.
func (p *Pipeline) generateChangelog(ctx context.Context, rs *runState) error {
	commits, err := readRecentCommits(ctx, rs.repo.LocalPath, changelogCommitLimit)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		return p.deps.Store.PutCommits(ctx, rs.doc.ID, nil)
	}

	prompt, err := renderPrompt(commitAnalyzePrompt, map[string]any{
		"git_repository": rs.repo.Name,
		"branch":         rs.repo.Branch,
		"readme":         rs.doc.Readme,
		"commit_message": formatCommitBlob(commits),
	})
	if err != nil {
		return codewikierr.Wrap(codewikierr.KindIO, "render changelog prompt", err)
	}

	raw, _, err := p.deps.Kernel.InvokePrompt(ctx, kernel.PromptRequest{
		Question: prompt,
		Behavior: kernel.FunctionChoiceNone,
	})
	if err != nil {
		return err
	}

	summaries := parseChangelogSummaries(structuredoutput.ExtractChangelog(raw.Content))

	records := make([]*wikimodel.CommitRecord, 0, len(summaries))
	for i, s := range summaries {
		sha := ""
		if i < len(commits) {
			sha = commits[i].sha
		}
		date, parseErr := time.Parse(time.RFC3339, s.Date)
		if parseErr != nil {
			date = time.Now()
		}
		record, err := wikimodel.NewCommitRecord(rs.doc.ID, shaOrPlaceholder(sha, i), date, s.Title, s.Description)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return p.deps.Store.PutCommits(ctx, rs.doc.ID, records)
}

func shaOrPlaceholder(sha string, index int) string {
	if sha != "" {
		return sha
	}
	return "summary-" + time.Now().Format("20060102150405") + "-" + strconv.Itoa(index)
}

// parseChangelogSummaries decodes extracted into a commitSummary slice,
// tolerating malformed JSON by returning an empty slice: a changelog stage
// failure to parse must never abort the pipeline.
func parseChangelogSummaries(extracted string) []commitSummary {
	if extracted == "" {
		return nil
	}
	var summaries []commitSummary
	if err := json.Unmarshal([]byte(extracted), &summaries); err != nil {
		return nil
	}
	return summaries
}

// readRecentCommits shells out to git log, matching generate_update_log's
// "last 20 commits ordered by committer timestamp" query.
func readRecentCommits(ctx context.Context, repoPath string, limit int) ([]rawCommit, error) {
	format := strings.Join([]string{"%H", "%an", "%cI", "%s"}, commitLogSeparator)
	cmd := exec.CommandContext(ctx, "git", "-C", repoPath, "log",
		"-n", strconv.Itoa(limit), "--date=iso-strict", "--pretty=format:"+format)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, codewikierr.Wrap(codewikierr.KindIO, "read git log", err)
	}

	var commits []rawCommit
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, commitLogSeparator)
		if len(fields) != 4 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			ts = time.Now()
		}
		commits = append(commits, rawCommit{sha: fields[0], author: fields[1], timestamp: ts, subject: fields[3]})
	}
	return commits, nil
}

// formatCommitBlob renders commits into the author/message/timestamp
// text block commitAnalyzePrompt expects, one entry per commit.
func formatCommitBlob(commits []rawCommit) string {
	var b strings.Builder
	for _, c := range commits {
		b.WriteString("Author: ")
		b.WriteString(c.author)
		b.WriteString("\nMessage:\n")
		b.WriteString(c.subject)
		b.WriteString("\nDate: ")
		b.WriteString(c.timestamp.Format(time.RFC3339))
		b.WriteString("\n\n")
	}
	return b.String()
}

package depanalyze

import (
	"os"

	"github.com/tangerg/codewiki/internal/codewikierr"
	"github.com/tangerg/codewiki/internal/compressor"
	"github.com/tangerg/codewiki/internal/scanner"
)

// CollectSourceFiles scans root with the same .gitignore and size rules
// used for the file tree, reads every surviving regular file, and tags it
// with its detected language. Files with no recognized language are
// still returned (AnalyzeFiles simply skips them), since a caller may
// want the full file list for other purposes.
func CollectSourceFiles(root string) ([]SourceFile, error) {
	infos, err := scanner.Scan(root)
	if err != nil {
		return nil, err
	}
	var files []SourceFile
	for _, info := range infos {
		if info.IsDirectory {
			continue
		}
		data, err := os.ReadFile(info.AbsolutePath)
		if err != nil {
			return nil, codewikierr.Wrap(codewikierr.KindIO, "read "+info.AbsolutePath, err)
		}
		files = append(files, SourceFile{
			Path:     info.AbsolutePath,
			Language: compressor.DetectLanguage(info.AbsolutePath),
			Content:  data,
		})
	}
	return files, nil
}

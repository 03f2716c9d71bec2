package compressor

import "strings"

// genericCompressor is the fallback for unrecognized language tags and the
// languages the spec does not describe a dedicated algorithm for (shell
// dialects, PowerShell, SQL, the CSS family): strip blank lines, keep
// comments verbatim, keep everything else as-is. It never drops a
// non-blank line, so it can never desynchronize top-level declaration
// order.
var genericCompressor = Func(func(text string) string {
	var kept []string
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
})

package shader

import (
	"embed"
	"fmt"
	"path"
	"strings"
)

// includePrefix marks an include directive. The directive must be the only thing on its line:
//
//	//@oxy:include fullscreen
const includePrefix = "//@oxy:include"

//go:embed assets/*.wgsl
var chunks embed.FS

// Chunks lists the names that can be included.
func Chunks() []string {
	entries, _ := chunks.ReadDir("assets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".wgsl"))
	}
	return names
}

// Preprocess replaces every include directive with the named chunk. A chunk is injected at most
// once per source; later includes of the same chunk are dropped.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - string: the expanded source
//   - error: error if a directive is malformed or names an unknown chunk
func Preprocess(source string) (string, error) {
	seen := map[string]bool{}
	var sb strings.Builder
	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, includePrefix) {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}
		args := strings.Fields(strings.TrimPrefix(trimmed, includePrefix))
		if len(args) != 1 {
			return "", fmt.Errorf("line %d: include takes exactly one chunk name, got %d", i+1, len(args))
		}
		name := args[0]
		if seen[name] {
			continue
		}
		data, err := chunks.ReadFile(path.Join("assets", name+".wgsl"))
		if err != nil {
			return "", fmt.Errorf("line %d: unknown chunk %q", i+1, name)
		}
		seen[name] = true
		sb.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// Package export is the chart/export boundary: it renders operation results
// and bounded dataset slices to files. The core hands it values; it never
// reaches back into registry internals.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteInsights serializes an operation result to a file under dir and
// returns the path. Supported formats: "json", "markdown".
func WriteInsights(dir, name string, result any, format string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir export dir: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102_150405")
	switch strings.ToLower(format) {
	case "", "json":
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, stamp))
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal insights: %w", err)
		}
		return path, safeWriteFile(path, b)
	case "markdown", "md":
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.md", name, stamp))
		return path, safeWriteFile(path, []byte(markdown(name, result)))
	default:
		return "", fmt.Errorf("unsupported export format %q: use json or markdown", format)
	}
}

// safeWriteFile writes to a temp file and atomically renames it into place,
// so a crashed export never leaves a truncated report behind.
func safeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// markdown renders a result as a fenced JSON block under a heading; callers
// wanting richer layout post-process the JSON themselves.
func markdown(name string, result any) string {
	var sb strings.Builder
	sb.WriteString("# " + name + "\n\n")
	sb.WriteString("Generated " + time.Now().UTC().Format(time.RFC3339) + "\n\n")
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		sb.WriteString("_failed to render result_\n")
		return sb.String()
	}
	sb.WriteString("```json\n")
	sb.Write(b)
	sb.WriteString("\n```\n")
	return sb.String()
}

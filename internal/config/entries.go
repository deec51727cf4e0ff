package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ironsheep/ui-detect/internal/detection"
)

// Entry is one "name path" line of a detector or template catalogue.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line"`
}

// ReadEntries opens dir/file and parses it with ParseEntries, resolving
// relative paths against dir.
//
// Only an unopenable file is an error (detection.ErrConfigUnreadable).
// Malformed lines come back as advisories.
func ReadEntries(dir, file string) ([]Entry, detection.Diagnostics, error) {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, file)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, detection.NewError(detection.KindConfigUnreadable, "read config",
			fmt.Errorf("can't open file %s: %w", path, err))
	}
	defer f.Close()

	entries, diags, err := ParseEntries(f, dir)
	if err != nil {
		return nil, diags, detection.NewError(detection.KindConfigUnreadable, "read config",
			fmt.Errorf("%s: %w", path, err))
	}
	return entries, diags, nil
}

// ParseEntries reads whitespace separated "name path" lines.
//
// Blank lines and lines starting with '#' are ignored. A line with fewer
// than two fields is skipped with a malformed_entry advisory; fields past
// the second are ignored. Relative paths are joined to baseDir; absolute
// paths and names with a scheme such as "builtin:boxes" are kept as is.
func ParseEntries(r io.Reader, baseDir string) ([]Entry, detection.Diagnostics, error) {
	var (
		entries []Entry
		diags   detection.Diagnostics
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 2 {
			diags = append(diags, detection.Advisory{
				Code:    detection.CodeMalformedEntry,
				Class:   fields[0],
				Message: fmt.Sprintf("line %d: expected \"name path\", got %q", line, text),
			})
			continue
		}

		entries = append(entries, Entry{
			Name: fields[0],
			Path: resolve(baseDir, fields[1]),
			Line: line,
		})
	}
	if err := scanner.Err(); err != nil {
		return entries, diags, err
	}
	return entries, diags, nil
}

var schemeRE = regexp.MustCompile(`^[a-z][a-z0-9+.-]+:`)

func resolve(baseDir, p string) string {
	if filepath.IsAbs(p) || schemeRE.MatchString(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

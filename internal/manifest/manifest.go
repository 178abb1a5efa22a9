// Package manifest reads the source-list file driving a splice run: one
// source repository per line, tab-separated fields.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Source describes one repository feeding the combined history.
type Source struct {
	// Name identifies the source in logs, fetch refs and rewritten commit
	// messages. It is derived from TargetDir.
	Name string
	// URL is the repository to fetch from. A "#branch" suffix selects the
	// branch; otherwise the configured default applies.
	URL string
	// Branch is the branch parsed from the URL fragment, or empty.
	Branch string
	// SourceTree is the subtree of the source to splice in, as path
	// segments. Empty means the whole tree.
	SourceTree []string
	// TargetDir is the top-level directory of the combined repository the
	// source's tree lands under. Always exactly one segment.
	TargetDir string
}

// Parse reads a manifest file. Blank lines are ignored. Every malformed line
// is reported; a single bad line fails the whole parse.
func Parse(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer f.Close()

	var sources []Source
	var errs error

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		src, err := parseLine(line)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s:%d: %w", path, lineNum, err))
			continue
		}
		sources = append(sources, src)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if errs != nil {
		return nil, errs
	}

	return sources, nil
}

func parseLine(line string) (Source, error) {
	var fields []string
	for _, f := range strings.Split(line, "\t") {
		if f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) < 2 || len(fields) > 3 {
		return Source{}, fmt.Errorf("expected 2 or 3 tab-separated fields, got %d", len(fields))
	}

	target := splitPath(fields[0])
	if len(target) != 1 {
		return Source{}, fmt.Errorf("target path %q must be exactly one directory deep", fields[0])
	}

	url, branch := splitURL(fields[1])

	var sourceTree []string
	if len(fields) == 3 {
		sourceTree = splitPath(fields[2])
	}

	return Source{
		Name:       target[0],
		URL:        url,
		Branch:     branch,
		SourceTree: sourceTree,
		TargetDir:  target[0],
	}, nil
}

// splitPath splits a slash-separated path into its non-empty segments.
func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// splitURL separates an optional "#branch" fragment from a repository URL.
func splitURL(u string) (string, string) {
	if i := strings.LastIndex(u, "#"); i >= 0 {
		return u[:i], u[i+1:]
	}
	return u, ""
}

package fixer

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// directiveRe matches object description directives emitted by API
// generators, capturing the leading indent and the object name.
var directiveRe = regexp.MustCompile(`^(\s*)\.\. (?:py:)?(?:class|exception|function|method|data|attribute)::\s+([A-Za-z_][A-Za-z0-9_.]*)`)

type objectSite struct {
	file string
	line int
}

// harmonizeNoindex finds object names described in more than one place and
// marks every description except the canonical one with :noindex:. The
// canonical site is the first one outside an autoapi directory, falling back
// to the first site overall.
func (f *Fixer) harmonizeNoindex(files []string, result *Result) error {
	sites := make(map[string][]objectSite)
	contents := make(map[string][]string)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		lines := strings.Split(string(data), "\n")
		contents[path] = lines
		for i, line := range lines {
			if m := directiveRe.FindStringSubmatch(line); m != nil {
				sites[m[2]] = append(sites[m[2]], objectSite{file: path, line: i})
			}
		}
	}

	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)

	changed := make(map[string]bool)
	for _, name := range names {
		dup := sites[name]
		if len(dup) < 2 {
			continue
		}

		canonical := 0
		for i, site := range dup {
			if !strings.Contains(site.file, "autoapi") {
				canonical = i
				break
			}
		}

		for i, site := range dup {
			if i == canonical {
				continue
			}
			lines := contents[site.file]
			if hasNoindex(lines, site.line) {
				continue
			}
			indent := directiveRe.FindStringSubmatch(lines[site.line])[1]
			option := indent + "   :noindex:"
			updated := make([]string, 0, len(lines)+1)
			updated = append(updated, lines[:site.line+1]...)
			updated = append(updated, option)
			updated = append(updated, lines[site.line+1:]...)
			contents[site.file] = updated
			shiftSites(sites, site.file, site.line)
			changed[site.file] = true
			result.Fixes[FixNoindex]++
			logFixer.Printf("Marked duplicate %s in %s with :noindex:", name, site.file)
		}
	}

	for _, path := range files {
		if !changed[path] {
			continue
		}
		if err := os.WriteFile(path, []byte(strings.Join(contents[path], "\n")), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		result.markChanged(path)
	}
	return nil
}

// hasNoindex checks whether the option block directly under the directive at
// line already carries :noindex:.
func hasNoindex(lines []string, line int) bool {
	for i := line + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == ":noindex:" {
			return true
		}
		if trimmed == "" || !strings.HasPrefix(trimmed, ":") {
			return false
		}
	}
	return false
}

// shiftSites bumps recorded line numbers in file after an insertion at line.
func shiftSites(sites map[string][]objectSite, file string, line int) {
	for _, list := range sites {
		for i := range list {
			if list[i].file == file && list[i].line > line {
				list[i].line++
			}
		}
	}
}

package interp

import (
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// glob expands a "*" pattern against the filesystem. Matches come back in
// ascending byte-wise order; entries starting with "." only match pattern
// segments that themselves start with ".".
func (ctx *Context) glob(pattern string) ([]string, error) {
	dir := ctx.Dir
	if dir == "" {
		dir = "."
	}
	prefix := ""
	if strings.HasPrefix(pattern, "/") {
		dir = "/"
		prefix = "/"
		pattern = strings.TrimPrefix(pattern, "/")
	}

	matches := ctx.globSegments(dir, prefix, strings.Split(pattern, "/"))
	sort.Strings(matches)
	return matches, nil
}

func (ctx *Context) globSegments(dir, prefix string, segments []string) []string {
	segment := segments[0]
	rest := segments[1:]

	if !strings.Contains(segment, "*") {
		next := path.Join(dir, segment)
		info, err := ctx.FS.Stat(next)
		if err != nil {
			return nil
		}
		if len(rest) == 0 {
			return []string{prefix + segment}
		}
		if !info.IsDir() {
			return nil
		}
		return ctx.globSegments(next, prefix+segment+"/", rest)
	}

	entries, err := afero.ReadDir(ctx.FS, dir)
	if err != nil {
		return nil
	}
	var matches []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(segment, ".") {
			continue
		}
		if !matchStars(segment, name) {
			continue
		}
		if len(rest) == 0 {
			matches = append(matches, prefix+name)
			continue
		}
		if !entry.IsDir() {
			continue
		}
		matches = append(matches, ctx.globSegments(path.Join(dir, name), prefix+name+"/", rest)...)
	}
	return matches
}

// matchStars matches a pattern whose only wildcard is "*" against a name.
func matchStars(pattern, name string) bool {
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]
	for i := 1; i < len(parts); i++ {
		part := parts[i]
		if i == len(parts)-1 {
			return strings.HasSuffix(name, part)
		}
		idx := strings.Index(name, part)
		if idx < 0 {
			return false
		}
		name = name[idx+len(part):]
	}
	return true
}

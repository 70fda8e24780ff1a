package document

import (
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var listedAge = regexp.MustCompile(`^(.+?) \(Age: .*?\)`)

// ListedNames returns the names of "- Name (Age: ...)" list items in
// document order. Items using "*" or "+" markers are ignored since the age
// rule only rewrites dash items.
func ListedNames(markdown string) []string {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var names []string
	seen := make(map[string]bool)
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindListItem {
			return ast.WalkContinue, nil
		}
		list, ok := n.Parent().(*ast.List)
		if !ok || list.Marker != '-' {
			return ast.WalkContinue, nil
		}
		first := n.FirstChild()
		if first == nil || first.Lines().Len() == 0 {
			return ast.WalkContinue, nil
		}
		line := first.Lines().At(0)
		raw := strings.TrimSpace(string(line.Value(source)))
		if m := listedAge.FindStringSubmatch(raw); m != nil && !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
		return ast.WalkContinue, nil
	})
	return names
}

const maxSuggestions = 3

// Suggest returns up to three candidates that fuzzy-match name, best first.
// Candidates that name itself is a fuzzy match for (a shortened name, say)
// follow the direct matches.
func Suggest(name string, candidates []string) []string {
	var out []string
	added := map[string]bool{name: true}
	add := func(s string) bool {
		if !added[s] {
			added[s] = true
			out = append(out, s)
		}
		return len(out) == maxSuggestions
	}

	for _, m := range fuzzy.Find(name, candidates) {
		if add(m.Str) {
			return out
		}
	}
	for _, c := range candidates {
		if len(fuzzy.Find(c, []string{name})) > 0 && add(c) {
			return out
		}
	}
	return out
}

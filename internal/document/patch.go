package document

import (
	"regexp"
	"sort"
)

// timestampBlock matches the "Updates Ages" header and an optional
// "Last updated" line followed by a blank line.
var timestampBlock = regexp.MustCompile(`(?i)> Updates Ages :\s*\n(?:## Last updated: .*?\n\n)?`)

const timestampTemplate = "> Updates Ages :\n\n## Last updated: "

// Change is a single rewritten age line
type Change struct {
	Name string
	Old  string
	New  string
}

// Result is the outcome of patching a document
type Result struct {
	Text             string
	Changes          []Change
	Missing          []string // names with no age line in the document
	TimestampUpdated bool
}

// AgeLine renders the line prefix used for a name
func AgeLine(name, age string) string {
	return "- " + name + " (Age: " + age + ")"
}

func agePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`- ` + regexp.QuoteMeta(name) + ` \(Age: .*?\)`)
}

// PatchAges rewrites every "- <name> (Age: ...)" occurrence for each name in
// ages. Lines are never added for names that do not appear.
func PatchAges(text string, ages map[string]string) (string, []Change, []string) {
	names := make([]string, 0, len(ages))
	for name := range ages {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []Change
	var missing []string
	for _, name := range names {
		repl := AgeLine(name, ages[name])
		found := false
		text = agePattern(name).ReplaceAllStringFunc(text, func(match string) string {
			found = true
			if match != repl {
				changes = append(changes, Change{Name: name, Old: match, New: repl})
			}
			return repl
		})
		if !found {
			missing = append(missing, name)
		}
	}
	return text, changes, missing
}

// PatchTimestamp replaces the first timestamp block with one carrying stamp.
// It reports false and returns text unchanged when there is no block.
func PatchTimestamp(text, stamp string) (string, bool) {
	loc := timestampBlock.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	return text[:loc[0]] + timestampTemplate + stamp + "\n\n" + text[loc[1]:], true
}

// Patch applies the age rule and then the timestamp rule
func Patch(text string, ages map[string]string, stamp string) Result {
	text, changes, missing := PatchAges(text, ages)
	text, updated := PatchTimestamp(text, stamp)
	return Result{
		Text:             text,
		Changes:          changes,
		Missing:          missing,
		TimestampUpdated: updated,
	}
}

package yamls

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/dustin/go-humanize/english"
)

// Diff returns the unified diff between two documents, or an empty string
// when they are equal.
func Diff(oldName, newName, oldDoc, newDoc string) string {
	return udiff.Unified(oldName, newName, oldDoc, newDoc)
}

// DiffStat counts the changed lines of a unified diff.
type DiffStat struct {
	Insertions int
	Deletions  int
}

// Stat counts the inserted and deleted lines of a unified diff, ignoring
// the file headers.
func Stat(diff string) DiffStat {
	var s DiffStat

	for line := range strings.SplitSeq(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			s.Insertions++
		case strings.HasPrefix(line, "-"):
			s.Deletions++
		}
	}

	return s
}

func (s DiffStat) Empty() bool {
	return s.Insertions == 0 && s.Deletions == 0
}

// String summarizes the stat, e.g. "2 insertions, 1 deletion".
func (s DiffStat) String() string {
	if s.Empty() {
		return "no changes"
	}

	return fmt.Sprintf("%s, %s",
		english.Plural(s.Insertions, "insertion", ""),
		english.Plural(s.Deletions, "deletion", ""),
	)
}

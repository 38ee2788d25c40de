package analysis

import (
	"strings"
	"unicode"

	"github.com/shinyvision/hsp3ls/internal/token"
)

func isOrnamentRune(r rune) bool {
	return unicode.IsControl(r) || unicode.IsSpace(r) || (r <= unicode.MaxASCII && unicode.IsPunct(r)) ||
		strings.ContainsRune("$+<=>^`|~", r)
}

// isOrnamentComment reports whether s has only whitespace and ASCII
// punctuation, like `// ------`.
func isOrnamentComment(s string) bool {
	for _, r := range s {
		if !isOrnamentRune(r) {
			return false
		}
	}
	return true
}

func trimCommentLeader(s string) string {
	for _, prefix := range []string{"/// ", "///", "// ", "//", "; ", ";"} {
		if strings.HasPrefix(s, prefix) {
			return s[len(prefix):]
		}
	}
	return s
}

// calculateDetails turns comment lines into details: the first
// non-ornamental line is the description, the rest after the next
// non-ornamental line is documentation.
func calculateDetails(comments []string) Details {
	var d Details

	y := 0
	for _, c := range comments {
		y++
		if isOrnamentComment(strings.TrimSpace(c)) {
			continue
		}
		d.Desc = trimCommentLeader(c)
		break
	}

	for _, c := range comments[y:] {
		if !isOrnamentComment(strings.TrimSpace(c)) {
			break
		}
		y++
	}

	if y < len(comments) {
		var lines []string
		for _, c := range comments[y:] {
			lines = append(lines, strings.TrimRightFunc(trimCommentLeader(c), unicode.IsSpace))
		}
		d.Docs = []string{strings.Join(lines, "\r\n")}
	}
	return d
}

// collectComments returns the comments directly above the leader token:
// those not separated from it by a blank line.
func collectComments(leader *token.PToken) []string {
	leading := leader.Leading

	n := 0
	for i := len(leading) - 1; i >= 0; i-- {
		t := leading[i]
		if t.Kind == token.Newlines && strings.Count(t.Text, "\n") > 1 {
			break
		}
		n++
	}

	var out []string
	for _, t := range leading[len(leading)-n:] {
		if t.Kind == token.Comment && !isOrnamentComment(t.Text) {
			out = append(out, t.Text)
		}
	}
	return out
}

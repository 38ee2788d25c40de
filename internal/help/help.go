// Package help reads HSP help source files (.hs).
package help

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/shinyvision/hsp3ls/internal/utils"
)

const eol = "\r\n"

// Symbol is one %index entry of a help source.
type Symbol struct {
	Name          string
	Description   string
	Documentation []string
	// Params are the parameter names from the first %prm line.
	Params []string
	// Row is the line of the %index directive.
	Row uint32
}

type line struct {
	text string
	row  uint32
}

// IsBuiltin reports whether the help file with the given base name describes
// the standard commands, which are always in scope.
func IsBuiltin(path string) bool {
	stem := strings.ToLower(utils.BaseStem(filepath.Base(path)))
	switch {
	case stem == "ex_macro", stem == "sysval":
		return true
	case stem == "i_hsp3util":
		return false
	}
	return strings.HasPrefix(stem, "i_")
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

func splitSections(content string) [][]line {
	var (
		sections [][]line
		section  []line
		inHTML   bool
	)
	for i, text := range strings.Split(content, "\n") {
		text = strings.TrimSuffix(text, "\r")
		row := uint32(i)

		if strings.HasPrefix(text, ";") {
			continue
		}
		if inHTML {
			if strings.HasPrefix(text, "}html") {
				section = append(section, line{"<Some HTML contents>", row})
				inHTML = false
			}
			continue
		}
		if strings.HasPrefix(text, "html{") {
			inHTML = true
			continue
		}

		if strings.HasPrefix(strings.ToLower(text), "%index") {
			sections = append(sections, section)
			section = nil
		}
		section = append(section, line{text, row})
	}
	return append(sections, section)
}

type field struct {
	row   uint32
	lines []string
}

func parseFields(section []line) map[string]*field {
	fields := map[string]*field{}
	var cur *field
	for _, l := range section {
		if strings.HasPrefix(l.text, "%") {
			key := l.text[1:]
			if i := strings.IndexFunc(key, func(r rune) bool {
				return r > unicode.MaxASCII || !unicode.IsLetter(r)
			}); i >= 0 {
				key = key[:i]
			}
			key = strings.ToLower(key)
			cur = &field{row: l.row}
			fields[key] = cur
			continue
		}
		if cur != nil {
			cur.lines = append(cur.lines, l.text)
		}
	}

	for key, f := range fields {
		f.lines = tidy(f.lines)
		if len(f.lines) == 0 && key != "index" {
			delete(fields, key)
		}
	}
	return fields
}

// tidy drops control lines and collapses blank runs.
func tidy(lines []string) []string {
	var out []string
	for _, s := range lines {
		if t := strings.TrimSpace(s); t == "^p" || t == "^" {
			continue
		}
		if isBlank(s) && (len(out) == 0 || isBlank(out[len(out)-1])) {
			continue
		}
		out = append(out, s)
	}
	for len(out) > 0 && isBlank(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func parseParams(prm string) []string {
	prm = strings.TrimSpace(prm)
	prm = strings.TrimSuffix(strings.TrimPrefix(prm, "("), ")")
	if prm == "" {
		return nil
	}
	var params []string
	for _, p := range strings.Split(prm, ",") {
		params = append(params, strings.TrimSpace(p))
	}
	return params
}

// Parse extracts the entries of a help source. The first section holds
// defaults for every entry. Sections without a usable %index are reported
// as warnings and skipped.
func Parse(content string) ([]Symbol, []string) {
	sections := splitSections(content)

	defaults := parseFields(sections[0])
	var (
		symbols  []Symbol
		warnings []string
	)
	for _, section := range sections[1:] {
		fields := parseFields(section)
		for k, v := range defaults {
			if _, ok := fields[k]; !ok {
				fields[k] = v
			}
		}

		index := fields["index"]
		if len(index.lines) == 0 {
			warnings = append(warnings, fmt.Sprintf("empty %%index at line %d", index.row+1))
			continue
		}

		sym := Symbol{
			Name:        strings.TrimSpace(index.lines[0]),
			Description: strings.Join(index.lines[1:], eol),
			Row:         index.row,
		}
		if prm, ok := fields["prm"]; ok {
			sym.Params = parseParams(prm.lines[0])
		}
		for _, key := range []string{"prm", "inst", "note"} {
			if f, ok := fields[key]; ok {
				sym.Documentation = append(sym.Documentation, strings.Join(f.lines, eol))
			}
		}
		symbols = append(symbols, sym)
	}
	return symbols, warnings
}

package analysis

import (
	"github.com/shinyvision/hsp3ls/internal/parse"
	"github.com/shinyvision/hsp3ls/internal/source"
	"github.com/shinyvision/hsp3ls/internal/token"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

const (
	CodeUnresolvedInclude     = "unresolved-include"
	CodeDuplicatePublicSymbol = "duplicate-public-symbol"
	CodeUnterminatedModule    = "unterminated-module"
	CodeInvalidTokens         = "invalid-tokens"
	CodeReturnInLoop          = "return-in-loop"
)

type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Loc      source.Loc
}

// syntaxLint flags `return` between repeat/foreach and the matching loop.
func syntaxLint(root *parse.Root) []Diagnostic {
	var (
		diagnostics []Diagnostic
		loops       []*token.PToken
	)
	parse.Inspect(root.Stmts, func(n parse.Node) bool {
		cmd, ok := n.(*parse.CommandStmt)
		if !ok {
			return true
		}
		switch cmd.Command.Text() {
		case "repeat", "foreach":
			loops = append(loops, cmd.Command)
		case "loop":
			if len(loops) > 0 {
				loops = loops[:len(loops)-1]
			}
		case "return":
			if len(loops) > 0 {
				diagnostics = append(diagnostics, Diagnostic{
					Code:     CodeReturnInLoop,
					Severity: SeverityError,
					Message:  "return inside repeat/foreach is not allowed; leave the loop with break first",
					Loc:      cmd.Command.Loc(),
				})
			}
		}
		return true
	})
	return diagnostics
}

func skippedTokenDiagnostics(root *parse.Root) []Diagnostic {
	var diagnostics []Diagnostic
	for _, t := range root.Skipped {
		switch t.Kind() {
		case token.Eos, token.Colon:
			continue
		}
		diagnostics = append(diagnostics, Diagnostic{
			Code:     CodeInvalidTokens,
			Severity: SeverityError,
			Message:  "invalid tokens",
			Loc:      t.Loc(),
		})
	}
	return diagnostics
}

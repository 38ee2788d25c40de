package token

// Kind classifies a token.
type Kind int

const (
	Eof Kind = iota
	// Eos ends a statement. Inserted before every newline and at end of file.
	Eos
	// Blank is a run of non-newline whitespace.
	Blank
	// Newlines is one or more LF/CRLF together with the whitespace after them.
	Newlines
	Comment
	// Bad is a run of characters no rule accepts.
	Bad
	Number
	Char
	Str
	Ident

	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftAngle
	RightAngle
	And
	AndAnd
	AndEqual
	Backslash
	BackslashEqual
	Bang
	BangEqual
	Colon
	Comma
	Dot
	Equal
	EqualEqual
	Hash
	Hat
	HatEqual
	LeftEqual
	LeftShift
	Minus
	MinusEqual
	MinusMinus
	Percent
	Pipe
	PipeEqual
	PipePipe
	Plus
	PlusEqual
	PlusPlus
	RightEqual
	RightShift
	Slash
	SlashEqual
	SlimArrow
	Star
	StarEqual
)

var kindNames = [...]string{
	Eof: "eof", Eos: "eos", Blank: "blank", Newlines: "newlines", Comment: "comment",
	Bad: "bad", Number: "number", Char: "char", Str: "str", Ident: "ident",
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	LeftAngle: "<", RightAngle: ">", And: "&", AndAnd: "&&", AndEqual: "&=",
	Backslash: `\`, BackslashEqual: `\=`, Bang: "!", BangEqual: "!=", Colon: ":",
	Comma: ",", Dot: ".", Equal: "=", EqualEqual: "==", Hash: "#", Hat: "^",
	HatEqual: "^=", LeftEqual: "<=", LeftShift: "<<", Minus: "-", MinusEqual: "-=",
	MinusMinus: "--", Percent: "%", Pipe: "|", PipeEqual: "|=", PipePipe: "||",
	Plus: "+", PlusEqual: "+=", PlusPlus: "++", RightEqual: ">=", RightShift: ">>",
	Slash: "/", SlashEqual: "/=", SlimArrow: "->", Star: "*", StarEqual: "*=",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// IsLeadingTrivia reports whether k attaches to the following token.
func (k Kind) IsLeadingTrivia() bool {
	switch k {
	case Newlines, Blank, Comment, Bad:
		return true
	}
	return false
}

// IsTrailingTrivia reports whether k attaches to the preceding token.
// Newlines never trail.
func (k Kind) IsTrailingTrivia() bool {
	switch k {
	case Blank, Comment, Bad:
		return true
	}
	return false
}

// OpKind says how a token may be read as an operator.
type OpKind int

const (
	OpNone OpKind = iota
	OpInfix
	OpAssign
	OpInfixOrAssign
	OpPrefixOrInfixOrAssign
)

func (k Kind) OpKind() OpKind {
	switch k {
	case Minus, Star:
		return OpPrefixOrInfixOrAssign
	case LeftAngle, RightAngle, AndAnd, BangEqual, EqualEqual, LeftEqual, RightEqual, PipePipe:
		return OpInfix
	case And, Backslash, Bang, Equal, Hat, LeftShift, Pipe, Plus, RightShift, Slash:
		return OpInfixOrAssign
	case AndEqual, BackslashEqual, HatEqual, MinusEqual, MinusMinus, PipeEqual,
		PlusEqual, PlusPlus, SlashEqual, StarEqual:
		return OpAssign
	}
	return OpNone
}

func (k Kind) IsInfixOp() bool {
	switch k.OpKind() {
	case OpInfix, OpInfixOrAssign, OpPrefixOrInfixOrAssign:
		return true
	}
	return false
}

func (k Kind) IsAssignOp() bool {
	switch k.OpKind() {
	case OpAssign, OpInfixOrAssign, OpPrefixOrInfixOrAssign:
		return true
	}
	return false
}

// IsEndOfStmt reports whether k terminates a statement.
func (k Kind) IsEndOfStmt() bool {
	switch k {
	case Eof, Eos, Colon, LeftBrace, RightBrace:
		return true
	}
	return false
}

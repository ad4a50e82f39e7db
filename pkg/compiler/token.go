package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	END TokenType = iota // sentinel: end of input
	ERR                  // unrecognized character

	// Literals
	ID        // identifier
	NUM       // decimal integer literal
	FLOAT_LIT // floating-point literal
	STRING_LIT

	// Keywords honored by the parser
	INT
	LONG
	FLOAT
	VOID
	UNSIGNED
	IF
	ELSE
	WHILE
	FOR
	RETURN
	TYPEDEF

	// Keywords reserved but not honored (§6.1): using them past the
	// point where a type or statement keyword is expected is a parse error.
	DOUBLE
	CHAR
	SHORT
	STRUCT
	CONST
	STATIC
	BREAK
	CONTINUE
	SWITCH
	CASE
	DEFAULT
	DO

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	COLON
	SEMICOLON
	ARROW // ->
	DOT

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN

	EQUALS
	NOT_EQ
	LESS
	GREATER
	LESS_EQ
	GREATER_EQ

	AND_LOGICAL // &&
	OR_LOGICAL  // ||
	NOT         // !
	QUESTION    // ?

	PLUS_PLUS    // ++
	MINUS_MINUS  // --
	PLUS_ASSIGN  // += (lexed, not consumed by the parser)
	MINUS_ASSIGN // -= (lexed, not consumed by the parser)
)

// keywords maps source text to its keyword TokenType. Every entry in
// §6.1's keyword list is present, including the reserved-but-unused ones,
// so that the scanner always emits a keyword token rather than ID for
// them; the parser is what turns their use into a parse error.
var keywords = map[string]TokenType{
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"return":   RETURN,
	"int":      INT,
	"long":     LONG,
	"float":    FLOAT,
	"double":   DOUBLE,
	"char":     CHAR,
	"short":    SHORT,
	"unsigned": UNSIGNED,
	"void":     VOID,
	"struct":   STRUCT,
	"typedef":  TYPEDEF,
	"const":    CONST,
	"static":   STATIC,
	"break":    BREAK,
	"continue": CONTINUE,
	"switch":   SWITCH,
	"case":     CASE,
	"default":  DEFAULT,
	"do":       DO,
}

var tokenNames = map[TokenType]string{
	END: "END", ERR: "ERR",
	ID: "ID", NUM: "NUM", FLOAT_LIT: "FLOAT_LIT", STRING_LIT: "STRING_LIT",
	INT: "INT", LONG: "LONG", FLOAT: "FLOAT", VOID: "VOID", UNSIGNED: "UNSIGNED",
	IF: "IF", ELSE: "ELSE", WHILE: "WHILE", FOR: "FOR", RETURN: "RETURN", TYPEDEF: "TYPEDEF",
	DOUBLE: "DOUBLE", CHAR: "CHAR", SHORT: "SHORT", STRUCT: "STRUCT", CONST: "CONST",
	STATIC: "STATIC", BREAK: "BREAK", CONTINUE: "CONTINUE", SWITCH: "SWITCH",
	CASE: "CASE", DEFAULT: "DEFAULT", DO: "DO",
	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", COMMA: "COMMA", COLON: "COLON",
	SEMICOLON: "SEMICOLON", ARROW: "ARROW", DOT: "DOT",
	PLUS: "PLUS", MINUS: "MINUS", STAR: "STAR", SLASH: "SLASH", PERCENT: "PERCENT",
	ASSIGN: "ASSIGN", EQUALS: "EQUALS", NOT_EQ: "NOT_EQ", LESS: "LESS", GREATER: "GREATER",
	LESS_EQ: "LESS_EQ", GREATER_EQ: "GREATER_EQ",
	AND_LOGICAL: "AND_LOGICAL", OR_LOGICAL: "OR_LOGICAL", NOT: "NOT", QUESTION: "QUESTION",
	PLUS_PLUS: "PLUS_PLUS", MINUS_MINUS: "MINUS_MINUS",
	PLUS_ASSIGN: "PLUS_ASSIGN", MINUS_ASSIGN: "MINUS_ASSIGN",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// NumericPayload holds a token's eagerly-parsed numeric value. Exactly one
// field is meaningful, selected by the owning Token's Type.
type NumericPayload struct {
	IntValue   int64
	UintValue  uint64
	FloatValue float64
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type    TokenType
	Lexeme  string // the exact source text that was matched
	Line    int    // 1-based source line
	Column  int    // 1-based source column of the first character
	Payload NumericPayload
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q line %d col %d", t.Type, t.Lexeme, t.Line, t.Column)
}

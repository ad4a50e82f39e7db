package compiler

import (
	"fmt"
	"strings"
)

// Parser is a pure top-down recursive-descent parser with one-token
// lookahead by peek, plus a small typeAliases map from identifier to
// DataType used to resolve `typedef` forms (§4.2).
//
// Grammar (lowest to highest precedence):
//
//	program      := { typedef | functionDecl }  END
//	typedef      := 'typedef' type ID ';'
//	functionDecl := type ID '(' [param {',' param}] ')' block
//	param        := type ID { '[' NUM? ']' }
//	type         := 'unsigned' ('int'|'long')?  | 'int' | 'long' | 'float' | 'void' | <alias>
//	block        := '{' { stmt } '}'
//	stmt         := varDecl | ifStmt | whileStmt | forStmt | returnStmt | block
//	              | expr '=' expr ';'?
//	              | expr ';'?
//	varDecl      := type ID { '[' NUM? ']' } [ '=' expr ] ';'?
//	ifStmt       := 'if' '(' expr ')' stmt [ 'else' stmt ]
//	whileStmt    := 'while' '(' expr ')' stmt
//	forStmt      := 'for' '(' type ID '=' expr ';' expr ';' <anything until ')'> ')' stmt
//	returnStmt   := 'return' [ expr ] ';'?
//	expr         := ternary
//	ternary      := logicalOr [ '?' expr ':' expr ]
//	logicalOr    := logicalAnd { '||' logicalAnd }
//	logicalAnd   := equality   { '&&' equality }
//	equality     := relational { ('=='|'!=') relational }
//	relational   := additive   { ('<'|'>'|'<='|'>=') additive }
//	additive     := multiplicative { ('+'|'-') multiplicative }
//	multiplicative := unary { ('*'|'/'|'%') unary }
//	unary        := ('-'|'!') unary | postfix
//	postfix      := primary { '[' expr ']' | '(' [expr {',' expr}] ')' }
//	primary      := NUM | FLOAT_LIT | STRING_LIT | ID | '(' expr ')'
type Parser struct {
	tokens      []Token
	pos         int
	typeAliases map[string]DataType
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{
		tokens:      tokens,
		typeAliases: make(map[string]DataType),
		sourceLines: strings.Split(rawSource, "\n"),
	}
}

// fmtError wraps a message with the line and expected construct, plus a
// trimmed copy of the offending source line, matching §7's parse-error
// contract.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return fmt.Errorf("line %d: %s (found %q)\n  |> %s", tok.Line, msg, tok.Lexeme, snippet)
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: END}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: END}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) match(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.fmtError(p.peek(), "expected %s", tt)
}

// skipSemicolon consumes one trailing ';' if present; semicolons are
// optional statement terminators (§4.2).
func (p *Parser) skipSemicolon() {
	p.match(SEMICOLON)
}

// isTypeStart reports whether the current token can begin a type, taking
// the typedef alias table into account.
func (p *Parser) isTypeStart() bool {
	switch p.peek().Type {
	case INT, LONG, FLOAT, VOID, UNSIGNED:
		return true
	case ID:
		_, ok := p.typeAliases[p.peek().Lexeme]
		return ok
	}
	return false
}

// parseType consumes a type per the grammar's `type` production.
func (p *Parser) parseType() (DataType, error) {
	tok := p.peek()
	switch tok.Type {
	case UNSIGNED:
		p.advance()
		if p.check(LONG) {
			p.advance()
		} else {
			p.match(INT)
		}
		return UINT_T, nil
	case INT:
		p.advance()
		return INT_T, nil
	case LONG:
		p.advance()
		return LONG_T, nil
	case FLOAT:
		p.advance()
		return FLOAT_T, nil
	case VOID:
		p.advance()
		return VOID_T, nil
	case ID:
		if dt, ok := p.typeAliases[tok.Lexeme]; ok {
			p.advance()
			return dt, nil
		}
	}
	return UNKNOWN_T, p.fmtError(tok, "expected a type")
}

// Parse parses an already-lexed token stream as a full program:
// `{ typedef | functionDecl } END`.
func Parse(tokens []Token, rawSource string) (*Program, error) {
	p := NewParser(tokens, rawSource)
	prog := &Program{}

	for !p.check(END) {
		if p.check(TYPEDEF) {
			if err := p.parseTypedef(); err != nil {
				return nil, err
			}
			continue
		}
		fn, err := p.parseFunctionDecl()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}

	return prog, nil
}

func (p *Parser) parseTypedef() error {
	p.advance() // 'typedef'
	dt, err := p.parseType()
	if err != nil {
		return err
	}
	name, err := p.expect(ID)
	if err != nil {
		return err
	}
	p.typeAliases[name.Lexeme] = dt
	p.skipSemicolon()
	return nil
}

// parseArrayDims parses zero or more `[ NUM? ]` suffixes. An empty `[]`
// records dimension -1 (unspecified size).
func (p *Parser) parseArrayDims() ([]int, error) {
	var dims []int
	for p.check(LBRACKET) {
		p.advance()
		if p.check(NUM) {
			tok := p.advance()
			dims = append(dims, int(tok.Payload.IntValue))
		} else {
			dims = append(dims, -1)
		}
		if _, err := p.expect(RBRACKET); err != nil {
			return nil, err
		}
	}
	return dims, nil
}

func (p *Parser) parseFunctionDecl() (*FunctionDecl, error) {
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var params []Parameter
	if !p.check(RPAREN) {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDecl{Name: nameTok.Lexeme, Params: params, ReturnType: retType, Body: body}, nil
}

func (p *Parser) parseParam() (Parameter, error) {
	dt, err := p.parseType()
	if err != nil {
		return Parameter{}, err
	}
	nameTok, err := p.expect(ID)
	if err != nil {
		return Parameter{}, err
	}
	dims, err := p.parseArrayDims()
	if err != nil {
		return Parameter{}, err
	}
	return Parameter{Name: nameTok.Lexeme, Type: dt, ArrayDims: dims}, nil
}

func (p *Parser) parseBlock() (*BlockStmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	block := &BlockStmt{}
	for !p.check(RBRACE) && !p.check(END) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	switch {
	case p.check(LBRACE):
		return p.parseBlock()
	case p.check(IF):
		return p.parseIf()
	case p.check(WHILE):
		return p.parseWhile()
	case p.check(FOR):
		return p.parseFor()
	case p.check(RETURN):
		return p.parseReturn()
	case p.isTypeStart():
		return p.parseVarDecl()
	// Reserved-but-unused keywords are lexed as keyword tokens (§6.1);
	// reaching one here in statement position is exactly the "first
	// non-recognized construct" the spec calls a parse error.
	case p.check(STRUCT), p.check(SWITCH), p.check(DO), p.check(BREAK),
		p.check(CONTINUE), p.check(CONST), p.check(STATIC), p.check(CASE), p.check(DEFAULT):
		return nil, p.fmtError(p.peek(), "%s is not supported", p.peek().Type)
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseVarDecl() (Stmt, error) {
	dt, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(ID)
	if err != nil {
		return nil, err
	}
	dims, err := p.parseArrayDims()
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(ASSIGN) {
		init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	p.skipSemicolon()

	return &VarDeclStmt{IsMutable: true, Name: nameTok.Lexeme, Type: dt, Init: init, ArrayDims: dims}, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt Stmt
	if p.match(ELSE) {
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

// parseFor destructures the C-style header per §4.2: the increment
// clause is skipped token by token up to the closing ')' without being
// parsed; `end` is extracted from the condition when it is a binary
// `<` or `<=` comparison, defaulting to the literal 10 otherwise.
func (p *Parser) parseFor() (Stmt, error) {
	p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	dt, err := p.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	// The increment clause is consumed token-by-token up to the closing
	// ')' and its content is never interpreted.
	depth := 1
	for depth > 0 {
		if p.check(END) {
			return nil, p.fmtError(p.peek(), "unterminated for-header")
		}
		if p.check(LPAREN) {
			depth++
		} else if p.check(RPAREN) {
			depth--
			if depth == 0 {
				break
			}
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	// dt is discarded: the loop variable's type is always INT (§4.4).
	_ = dt

	if bin, ok := cond.(*BinaryExpr); ok && (bin.Op == "<" || bin.Op == "<=") {
		return &ForStmt{Var: nameTok.Lexeme, Start: start, End: bin.Right, Body: body}, nil
	}

	defaultEnd := &LiteralExpr{Lexeme: "10", Payload: NumericPayload{IntValue: 10}}
	defaultEnd.SetType(INT_T)
	return &ForStmt{Var: nameTok.Lexeme, Start: start, End: defaultEnd, Body: body}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	p.advance()
	var value Expr
	if !p.check(SEMICOLON) && !p.check(RBRACE) && !p.check(END) {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	p.skipSemicolon()
	return &ReturnStmt{Value: value}, nil
}

// parseExprOrAssignStmt parses an expression and, if it is followed by
// '=', turns it into an AssignStmt. Lvalue-ness is checked by the
// analyzer, not here (§4.2).
func (p *Parser) parseExprOrAssignStmt() (Stmt, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.match(ASSIGN) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSemicolon()
		return &AssignStmt{Target: left, Value: value}, nil
	}
	p.skipSemicolon()
	return &ExprStmt{X: left}, nil
}

func (p *Parser) parseExpr() (Expr, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (Expr, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.match(QUESTION) {
		thenExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &TernaryExpr{Cond: cond, Then: thenExpr, Else: elseExpr}, nil
	}
	return cond, nil
}

func (p *Parser) parseLogicalOr() (Expr, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(OR_LOGICAL) {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(AND_LOGICAL) {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.check(EQUALS) || p.check(NOT_EQ) {
		op := p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseRelational() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.check(LESS) || p.check(GREATER) || p.check(LESS_EQ) || p.check(GREATER_EQ) {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(PLUS) || p.check(MINUS) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(STAR) || p.check(SLASH) || p.check(PERCENT) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Lexeme, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.check(MINUS) || p.check(NOT) {
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op.Lexeme, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(LBRACKET):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RBRACKET); err != nil {
				return nil, err
			}
			access, ok := expr.(*ArrayAccessExpr)
			if ok {
				access.Indices = append(access.Indices, idx)
			} else {
				expr = &ArrayAccessExpr{Array: expr, Indices: []Expr{idx}}
			}
		case p.check(LPAREN):
			// A call is only representable when the callee parsed so
			// far is a bare identifier (§4.2); otherwise the postfix
			// form degenerates to its primary result and '(' is left
			// for whatever comes next to fail on.
			id, ok := expr.(*IdentifierExpr)
			if !ok {
				return expr, nil
			}
			p.advance()
			var args []Expr
			if !p.check(RPAREN) {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if !p.match(COMMA) {
						break
					}
				}
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			expr = &CallExpr{Callee: id.Name, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUM:
		p.advance()
		lit := &LiteralExpr{Lexeme: tok.Lexeme, Payload: tok.Payload}
		if strings.ContainsAny(tok.Lexeme, "uU") {
			lit.SetType(UINT_T)
		} else if strings.ContainsAny(tok.Lexeme, "lL") {
			lit.SetType(LONG_T)
		} else {
			lit.SetType(INT_T)
		}
		return lit, nil
	case FLOAT_LIT:
		p.advance()
		lit := &LiteralExpr{Lexeme: tok.Lexeme, Payload: tok.Payload}
		lit.SetType(FLOAT_T)
		return lit, nil
	case STRING_LIT:
		p.advance()
		lit := &LiteralExpr{Lexeme: tok.Lexeme}
		lit.SetType(STRING_T)
		return lit, nil
	case ID:
		p.advance()
		return &IdentifierExpr{Name: tok.Lexeme}, nil
	case LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, p.fmtError(tok, "expected an expression")
	}
}

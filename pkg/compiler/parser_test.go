package compiler

import "testing"

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse(Lex(src), src)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return prog
}

func TestParseSimpleFunction(t *testing.T) {
	prog := mustParse(t, `int main() { return 0; }`)
	if len(prog.Functions) != 1 {
		t.Fatalf("len(Functions) = %d; want 1", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "main" || fn.ReturnType != INT_T {
		t.Errorf("fn = %+v; want main/int", fn)
	}
}

func TestParseParamsAndArrayDims(t *testing.T) {
	prog := mustParse(t, `int sum(int arr[10], int n) { return n; }`)
	fn := prog.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("len(Params) = %d; want 2", len(fn.Params))
	}
	if fn.Params[0].Name != "arr" || len(fn.Params[0].ArrayDims) != 1 || fn.Params[0].ArrayDims[0] != 10 {
		t.Errorf("Params[0] = %+v; want arr[10]", fn.Params[0])
	}
}

func TestParseUnspecifiedArrayDim(t *testing.T) {
	prog := mustParse(t, `int f(int arr[]) { return 0; }`)
	dims := prog.Functions[0].Params[0].ArrayDims
	if len(dims) != 1 || dims[0] != -1 {
		t.Errorf("ArrayDims = %v; want [-1]", dims)
	}
}

func TestParseTypedef(t *testing.T) {
	prog := mustParse(t, `typedef long bignum; bignum f() { return 1; }`)
	if prog.Functions[0].ReturnType != LONG_T {
		t.Errorf("ReturnType = %v; want LONG_T (via typedef)", prog.Functions[0].ReturnType)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, `int f() { return 1 + 2 * 3; }`)
	ret := prog.Functions[0].Body.Stmts[0].(*ReturnStmt)
	bin, ok := ret.Value.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("top operator = %v; want +", ret.Value)
	}
	rhs, ok := bin.Right.(*BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("right operand = %v; want a * node", bin.Right)
	}
}

func TestParseTernaryRightAssociative(t *testing.T) {
	prog := mustParse(t, `int f() { return 1 ? 2 : 3 ? 4 : 5; }`)
	ret := prog.Functions[0].Body.Stmts[0].(*ReturnStmt)
	top, ok := ret.Value.(*TernaryExpr)
	if !ok {
		t.Fatalf("top = %T; want *TernaryExpr", ret.Value)
	}
	if _, ok := top.Else.(*TernaryExpr); !ok {
		t.Errorf("Else = %T; want nested *TernaryExpr", top.Else)
	}
}

func TestParseForLoopExtractsEndFromCondition(t *testing.T) {
	prog := mustParse(t, `int f() { for (int i = 0; i < 10; i = i + 1) { } return 0; }`)
	forStmt := prog.Functions[0].Body.Stmts[0].(*ForStmt)
	lit, ok := forStmt.End.(*LiteralExpr)
	if !ok || lit.Lexeme != "10" {
		t.Errorf("End = %v; want literal 10", forStmt.End)
	}
}

func TestParseForLoopDefaultsEndWithoutRelationalCondition(t *testing.T) {
	prog := mustParse(t, `int f() { for (int i = 0; 1; i = i + 1) { } return 0; }`)
	forStmt := prog.Functions[0].Body.Stmts[0].(*ForStmt)
	lit, ok := forStmt.End.(*LiteralExpr)
	if !ok || lit.Lexeme != "10" {
		t.Errorf("End = %v; want default literal 10", forStmt.End)
	}
}

func TestParseCallRequiresIdentifierCallee(t *testing.T) {
	// f()() is not representable: once f() becomes a *CallExpr, postfix's
	// second '(' sees a non-identifier callee and leaves the '(' for
	// whatever parses next, which here has nothing to do with a bare ')'.
	src := `int g() { f()(); return 0; }`
	_, err := Parse(Lex(src), src)
	if err == nil {
		t.Error("expected a parse error for a non-identifier call target")
	}
}

func TestParseAssignStmt(t *testing.T) {
	prog := mustParse(t, `int f() { int x = 0; x = 5; return x; }`)
	assign, ok := prog.Functions[0].Body.Stmts[1].(*AssignStmt)
	if !ok {
		t.Fatalf("Stmts[1] = %T; want *AssignStmt", prog.Functions[0].Body.Stmts[1])
	}
	if _, ok := assign.Target.(*IdentifierExpr); !ok {
		t.Errorf("Target = %T; want *IdentifierExpr", assign.Target)
	}
}

func TestParseOptionalSemicolons(t *testing.T) {
	// Every statement terminator in this body is omitted.
	src := `int f() { int x = 1 return x }`
	if _, err := Parse(Lex(src), src); err != nil {
		t.Errorf("Parse with omitted semicolons failed: %v", err)
	}
}

func TestParseReservedKeywordIsRejected(t *testing.T) {
	_, err := Parse(Lex(`int f() { switch (1) { } return 0; }`), `int f() { switch (1) { } return 0; }`)
	if err == nil {
		t.Error("expected a parse error for the reserved 'switch' keyword")
	}
}

func TestParseUnsignedType(t *testing.T) {
	prog := mustParse(t, `unsigned int f() { return 0u; }`)
	if prog.Functions[0].ReturnType != UINT_T {
		t.Errorf("ReturnType = %v; want UINT_T", prog.Functions[0].ReturnType)
	}
}

package compiler

import "fmt"

// Analyzer walks a Program, annotating every expression with a DataType
// and checking name resolution and type compatibility under the
// promotion lattice (§4.4). Unlike the parser, it does not stop at the
// first problem: every error found is accumulated and Analyze reports
// the full list, following the accumulate-then-report shape used
// elsewhere in this codebase's error handling for multi-error stages.
type Analyzer struct {
	syms              *SymbolTable
	errors            []error
	currentReturnType DataType
}

// NewAnalyzer registers the two built-in runtime functions (§4.4) on
// syms before returning the analyzer: println(int) -> void and
// printf(string, int, ...) -> int, variadic beyond the format string.
func NewAnalyzer(syms *SymbolTable) *Analyzer {
	syms.DeclareFunction("println", &FuncSig{Params: []DataType{INT_T}, ReturnType: VOID_T})
	syms.DeclareFunction("printf", &FuncSig{Params: []DataType{STRING_T, INT_T}, ReturnType: INT_T})
	return &Analyzer{syms: syms}
}

func (a *Analyzer) errorf(format string, args ...any) {
	a.errors = append(a.errors, fmt.Errorf(format, args...))
}

// areCompatible implements §4.4's promotion table for one direction:
// can a value of type actual be used where expected is required.
func areCompatible(expected, actual DataType) bool {
	if expected == actual {
		return true
	}
	if expected == LONG_T && (actual == INT_T || actual == UINT_T) {
		return true
	}
	if expected == FLOAT_T && (actual == INT_T || actual == LONG_T) {
		return true
	}
	if expected == INT_T && actual == UINT_T {
		return true
	}
	if expected == UINT_T && actual == INT_T {
		return true
	}
	return false
}

// commonType implements §4.4's common-type rule: FLOAT dominates; else
// LONG dominates; else mixing INT with UINT yields LONG; else the left
// operand's type.
func commonType(left, right DataType) DataType {
	if left == right {
		return left
	}
	if left == FLOAT_T || right == FLOAT_T {
		return FLOAT_T
	}
	if left == LONG_T || right == LONG_T {
		return LONG_T
	}
	if (left == INT_T && right == UINT_T) || (left == UINT_T && right == INT_T) {
		return LONG_T
	}
	return left
}

// Analyze runs the analyzer over prog and returns every error found, in
// the order discovered. A nil/empty return means prog is safe to hand
// to the code generator.
func Analyze(prog *Program, syms *SymbolTable) []error {
	a := NewAnalyzer(syms)
	for _, fn := range prog.Functions {
		a.analyzeFunctionDecl(fn)
	}
	if _, ok := syms.LookupFunction("main"); !ok {
		a.errorf("no main function defined")
	}
	return a.errors
}

func (a *Analyzer) analyzeFunctionDecl(fn *FunctionDecl) {
	sig := &FuncSig{ReturnType: fn.ReturnType}
	for _, param := range fn.Params {
		sig.Params = append(sig.Params, param.Type)
	}
	if !a.syms.DeclareFunction(fn.Name, sig) {
		a.errorf("function already declared: %s", fn.Name)
	}

	a.syms.EnterScope()
	a.syms.ResetOffset()
	prevReturn := a.currentReturnType
	a.currentReturnType = fn.ReturnType

	for _, param := range fn.Params {
		size := 8
		for _, d := range param.ArrayDims {
			if d > 0 {
				size *= d
			}
		}
		offset := a.syms.AllocateStackSpace(size)
		a.syms.DeclareVariable(param.Name, &VarSymbol{
			Offset: offset, Type: param.Type, IsMutable: true, ArrayDims: param.ArrayDims,
		})
	}

	a.analyzeBlockNoScope(fn.Body)

	a.currentReturnType = prevReturn
	a.syms.ExitScope()
}

// analyzeBlockNoScope analyzes a block's statements without pushing a
// new frame; used for a function body, whose scope is the parameter
// scope pushed by analyzeFunctionDecl.
func (a *Analyzer) analyzeBlockNoScope(b *BlockStmt) {
	for _, stmt := range b.Stmts {
		a.analyzeStmt(stmt)
	}
}

func (a *Analyzer) analyzeStmt(s Stmt) {
	switch n := s.(type) {
	case *VarDeclStmt:
		a.analyzeVarDecl(n)
	case *AssignStmt:
		a.analyzeExpr(n.Target)
		a.analyzeExpr(n.Value)
		if !n.Target.IsLValue() {
			a.errorf("left side of assignment must be an lvalue")
		}
		if !areCompatible(n.Target.Type(), n.Value.Type()) {
			a.errorf("type mismatch in assignment: cannot assign %s to %s", n.Value.Type(), n.Target.Type())
		}
	case *ExprStmt:
		a.analyzeExpr(n.X)
	case *IfStmt:
		a.analyzeExpr(n.Cond)
		a.analyzeStmt(n.Then)
		if n.Else != nil {
			a.analyzeStmt(n.Else)
		}
	case *WhileStmt:
		a.analyzeExpr(n.Cond)
		a.analyzeStmt(n.Body)
	case *ForStmt:
		a.syms.EnterScope()
		offset := a.syms.AllocateStackSpace(8)
		a.syms.DeclareVariable(n.Var, &VarSymbol{Offset: offset, Type: INT_T, IsMutable: true})
		a.analyzeExpr(n.Start)
		a.analyzeExpr(n.End)
		a.analyzeStmt(n.Body)
		a.syms.ExitScope()
	case *BlockStmt:
		a.syms.EnterScope()
		a.analyzeBlockNoScope(n)
		a.syms.ExitScope()
	case *ReturnStmt:
		if n.Value != nil {
			a.analyzeExpr(n.Value)
			if !areCompatible(a.currentReturnType, n.Value.Type()) {
				a.errorf("return type mismatch: function returns %s, got %s", a.currentReturnType, n.Value.Type())
			}
		} else if a.currentReturnType != VOID_T {
			a.errorf("function must return a value of type %s", a.currentReturnType)
		}
	default:
		a.errorf("internal: unrecognized statement %T", s)
	}
}

func (a *Analyzer) analyzeVarDecl(n *VarDeclStmt) {
	if n.Init != nil {
		a.analyzeExpr(n.Init)
		if !areCompatible(n.Type, n.Init.Type()) {
			a.errorf("type mismatch in declaration of %s: cannot initialize %s with %s", n.Name, n.Type, n.Init.Type())
		}
	}

	size := 8
	for _, d := range n.ArrayDims {
		if d > 0 {
			size *= d
		}
	}
	offset := a.syms.AllocateStackSpace(size)

	if !a.syms.DeclareVariable(n.Name, &VarSymbol{
		Offset: offset, Type: n.Type, IsMutable: n.IsMutable, ArrayDims: n.ArrayDims,
	}) {
		a.errorf("variable already declared: %s", n.Name)
	}
}

func (a *Analyzer) analyzeExpr(e Expr) {
	switch n := e.(type) {
	case *LiteralExpr:
		// Type already assigned by the parser from the token kind.
	case *IdentifierExpr:
		sym, ok := a.syms.Lookup(n.Name)
		if !ok {
			a.errorf("undefined variable: %s", n.Name)
			n.SetType(UNKNOWN_T)
			return
		}
		n.SetType(sym.Type)
	case *BinaryExpr:
		a.analyzeExpr(n.Left)
		a.analyzeExpr(n.Right)
		switch n.Op {
		case "+", "-", "*", "/", "%":
			n.SetType(commonType(n.Left.Type(), n.Right.Type()))
		default:
			// Relational, equality, and logical operators all yield
			// a boolean represented as INT (§4.4).
			n.SetType(INT_T)
		}
	case *UnaryExpr:
		a.analyzeExpr(n.Operand)
		n.SetType(n.Operand.Type())
	case *TernaryExpr:
		a.analyzeExpr(n.Cond)
		a.analyzeExpr(n.Then)
		a.analyzeExpr(n.Else)
		n.SetType(commonType(n.Then.Type(), n.Else.Type()))
	case *ArrayAccessExpr:
		a.analyzeExpr(n.Array)
		for _, idx := range n.Indices {
			a.analyzeExpr(idx)
			if idx.Type() != INT_T && idx.Type() != LONG_T {
				a.errorf("array index must be of integer type, got %s", idx.Type())
			}
		}
		if id, ok := n.Array.(*IdentifierExpr); ok {
			if sym, ok := a.syms.Lookup(id.Name); ok {
				n.SetType(sym.Type)
				return
			}
		}
		n.SetType(UNKNOWN_T)
	case *CallExpr:
		sig, ok := a.syms.LookupFunction(n.Callee)
		if !ok {
			a.errorf("undefined function: %s", n.Callee)
			n.SetType(UNKNOWN_T)
			for _, arg := range n.Args {
				a.analyzeExpr(arg)
			}
			return
		}

		isVariadic := n.Callee == "printf"
		if !isVariadic && len(sig.Params) != len(n.Args) {
			a.errorf("function %s expects %d arguments, got %d", n.Callee, len(sig.Params), len(n.Args))
		}

		for i, arg := range n.Args {
			a.analyzeExpr(arg)
			if !isVariadic && i < len(sig.Params) {
				if !areCompatible(sig.Params[i], arg.Type()) {
					a.errorf("type mismatch in argument %d of %s: expected %s, got %s", i+1, n.Callee, sig.Params[i], arg.Type())
				}
			}
		}
		n.SetType(sig.ReturnType)
	default:
		a.errorf("internal: unrecognized expression %T", e)
	}
}

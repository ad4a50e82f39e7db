package compiler

import "fmt"

// DataType is the type lattice shared by every typed node in the tree.
// It is set for declared types during parsing and filled in (or
// corrected) for expressions by the semantic analyzer.
type DataType int

const (
	UNKNOWN_T DataType = iota
	INT_T
	LONG_T
	UINT_T
	FLOAT_T
	STRING_T
	VOID_T
	ARRAY_T
)

func (d DataType) String() string {
	switch d {
	case INT_T:
		return "int"
	case LONG_T:
		return "long"
	case UINT_T:
		return "unsigned"
	case FLOAT_T:
		return "float"
	case STRING_T:
		return "string"
	case VOID_T:
		return "void"
	case ARRAY_T:
		return "array"
	default:
		return "unknown"
	}
}

//  Expression nodes

// Expr is implemented by every node that produces a value. Every
// implementation carries a DataType, filled in by the semantic analyzer,
// and reports whether it may appear on the left of an assignment.
type Expr interface {
	exprNode()
	String() string
	Type() DataType
	SetType(DataType)
	IsLValue() bool
}

// exprBase is embedded by every Expr to carry the DataType bookkeeping
// without repeating it in each node.
type exprBase struct {
	dataType DataType
}

func (b *exprBase) Type() DataType     { return b.dataType }
func (b *exprBase) SetType(t DataType) { b.dataType = t }

// LiteralExpr is a compile-time constant: integer, unsigned, float, or
// string. Lexeme is the exact source text; Payload is the eagerly-parsed
// numeric value carried over from the token (unused when Type is
// STRING_T, where Lexeme itself is the string's value).
type LiteralExpr struct {
	exprBase
	Lexeme  string
	Payload NumericPayload
}

func (*LiteralExpr) exprNode()        {}
func (*LiteralExpr) IsLValue() bool   { return false }
func (l *LiteralExpr) String() string { return l.Lexeme }

// IdentifierExpr is a read of a named variable or parameter.
//
//	return x;
//	       ^  IdentifierExpr{Name: "x"}
type IdentifierExpr struct {
	exprBase
	Name string
}

func (*IdentifierExpr) exprNode()        {}
func (*IdentifierExpr) IsLValue() bool   { return true }
func (v *IdentifierExpr) String() string { return v.Name }

// BinaryExpr represents a binary operation: Left Op Right, including the
// short-circuiting logical operators "&&" and "||" (§9 Open Question #2:
// upgraded from bitwise to short-circuit evaluation).
//
//	x + 1
//	^ ^ ^
//	| | Right
//	| Op
//	Left
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode()      {}
func (*BinaryExpr) IsLValue() bool { return false }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnaryExpr represents Op Operand, i.e. prefix "-" or "!".
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode()      {}
func (*UnaryExpr) IsLValue() bool { return false }
func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Operand)
}

// TernaryExpr represents Cond ? Then : Else.
type TernaryExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryExpr) exprNode()      {}
func (*TernaryExpr) IsLValue() bool { return false }
func (t *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", t.Cond, t.Then, t.Else)
}

// ArrayAccessExpr represents Array[Indices[0]][Indices[1]]...; indices
// are evaluated left to right.
type ArrayAccessExpr struct {
	exprBase
	Array   Expr
	Indices []Expr
}

func (*ArrayAccessExpr) exprNode()      {}
func (*ArrayAccessExpr) IsLValue() bool { return true }
func (e *ArrayAccessExpr) String() string {
	return fmt.Sprintf("(%s%v)", e.Array, e.Indices)
}

// CallExpr represents Callee(Args...). Per §4.2 the grammar only ever
// produces a bare identifier callee; a call written with any other kind
// of callee expression is not representable and never reaches this node.
type CallExpr struct {
	exprBase
	Callee string
	Args   []Expr
}

func (*CallExpr) exprNode()      {}
func (*CallExpr) IsLValue() bool { return false }
func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%v)", c.Callee, c.Args)
}

//  Statement nodes

// Stmt is implemented by every node that does not itself produce a
// value.
type Stmt interface {
	stmtNode()
	String() string
}

// VarDeclStmt represents  Type Name [ArrayDims] [= Init]; Array
// dimensions are compile-time-constant per §4.2's grammar (a bare `NUM?`
// inside `[ ]`); an element of -1 marks an omitted dimension, which is
// only meaningful on a parameter, never on a local.
type VarDeclStmt struct {
	IsMutable bool
	Name      string
	Type      DataType
	Init      Expr // nil if uninitialized
	ArrayDims []int
}

func (*VarDeclStmt) stmtNode() {}
func (d *VarDeclStmt) String() string {
	if len(d.ArrayDims) > 0 {
		return fmt.Sprintf("VarDeclStmt(%s %s%v)", d.Type, d.Name, d.ArrayDims)
	}
	return fmt.Sprintf("VarDeclStmt(%s %s = %s)", d.Type, d.Name, d.Init)
}

// AssignStmt represents Target = Value; Target must satisfy IsLValue().
type AssignStmt struct {
	Target Expr
	Value  Expr
}

func (*AssignStmt) stmtNode() {}
func (a *AssignStmt) String() string {
	return fmt.Sprintf("AssignStmt(%s = %s)", a.Target, a.Value)
}

// ExprStmt is an expression evaluated for its side effect, with its
// result discarded (a bare call, most commonly).
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) stmtNode() {}
func (e *ExprStmt) String() string {
	return fmt.Sprintf("ExprStmt(%s)", e.X)
}

// IfStmt represents if (Cond) Then [else Else]. Else is nil when absent.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.Else != nil {
		return fmt.Sprintf("IfStmt(if %s then %s else %s)", i.Cond, i.Then, i.Else)
	}
	return fmt.Sprintf("IfStmt(if %s then %s)", i.Cond, i.Then)
}

// WhileStmt represents while (Cond) Body.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do %s)", w.Cond, w.Body)
}

// ForStmt models the simplified counting loop of §4.2/§9: Var runs from
// Start up to End (End extracted heuristically from the source's
// relational condition; defaults to the literal 10 when no `<`/`<=`
// condition is present), incrementing by 1 each iteration regardless of
// what the source wrote as its own increment clause.
type ForStmt struct {
	Var   string
	Start Expr
	End   Expr
	Body  Stmt
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	return fmt.Sprintf("ForStmt(%s = %s; %s < %s; %s++) %s", f.Var, f.Start, f.Var, f.End, f.Var, f.Body)
}

// BlockStmt represents { Stmts... }, introducing its own scope.
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}
func (b *BlockStmt) String() string {
	return fmt.Sprintf("BlockStmt(len=%d)", len(b.Stmts))
}

// ReturnStmt represents return [Value];. Value is nil for a void
// function.
type ReturnStmt struct {
	Value Expr
}

func (*ReturnStmt) stmtNode() {}
func (r *ReturnStmt) String() string {
	return fmt.Sprintf("ReturnStmt(%s)", r.Value)
}

// Parameter is one entry in a FunctionDecl's parameter list. ArrayDims is
// nil for a scalar parameter; an element of -1 marks an unspecified
// dimension (only ever valid here, per §4.2 — a bare `[]`).
type Parameter struct {
	Name      string
	Type      DataType
	ArrayDims []int
}

func (p Parameter) String() string {
	if len(p.ArrayDims) > 0 {
		return fmt.Sprintf("%s %s%v", p.Type, p.Name, p.ArrayDims)
	}
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

// FunctionDecl represents ReturnType Name(Params) { Body }. The
// distilled grammar has no forward declarations or external linkage, so
// every FunctionDecl is a full definition.
type FunctionDecl struct {
	Name       string
	Params     []Parameter
	ReturnType DataType
	Body       *BlockStmt
}

func (*FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	return fmt.Sprintf("FunctionDecl(%s %s(%v), body=%s)", f.ReturnType, f.Name, f.Params, f.Body)
}

// Program is the root of the tree: an ordered list of top-level function
// definitions. The only other file-scope construct, typedef, only feeds
// the parser's alias table and leaves no node here.
type Program struct {
	Functions []*FunctionDecl
}

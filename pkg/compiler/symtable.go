package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// VarSymbol is what the symbol table stores for one declared variable or
// parameter. Offset is a byte offset from rbp: negative for locals,
// assigned by AllocateStackSpace. The first six parameters are spilled
// into their own local slots in the function prologue (§9 Open Question
// #1); codegen gives any further parameter the positive offset where the
// caller pushed it. IsParameter marks a parameter's slot so codegen can tell a decayed array-pointer parameter (whose
// slot holds a pointer to load) apart from an inline local array (whose
// slot holds the array's storage directly).
type VarSymbol struct {
	Offset      int
	Type        DataType
	IsMutable   bool
	IsParameter bool
	ArrayDims   []int // resolved constant dimensions; nil for a scalar
}

// FuncSig is what the symbol table stores for one declared function. The
// namespace of functions is flat: nested scopes never affect it.
type FuncSig struct {
	Params     []DataType
	ReturnType DataType
}

// SymbolTable tracks the variable scope stack for the function currently
// being generated, plus the flat, whole-program function namespace.
type SymbolTable struct {
	frames    []map[string]*VarSymbol
	functions map[string]*FuncSig

	// currentOffset is the running byte offset from rbp; it only ever
	// decreases while a function is being processed and is reset to 0
	// at the start of each new function (ResetOffset).
	currentOffset int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		functions: make(map[string]*FuncSig),
	}
}

// EnterScope pushes a fresh, empty frame. It does not touch
// currentOffset: stack slots are never reused across sibling blocks,
// even after one exits, so a function's total frame size is simply the
// magnitude of the lowest offset ever handed out.
func (s *SymbolTable) EnterScope() {
	s.frames = append(s.frames, make(map[string]*VarSymbol))
}

// ExitScope pops the innermost frame.
func (s *SymbolTable) ExitScope() {
	if len(s.frames) == 0 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// DeclareVariable inserts sym under name in the innermost frame. It
// reports false without inserting if name is already declared in that
// same frame (shadowing an outer frame's name is allowed and is not a
// redeclaration).
func (s *SymbolTable) DeclareVariable(name string, sym *VarSymbol) bool {
	if len(s.frames) == 0 {
		s.EnterScope()
	}
	top := s.frames[len(s.frames)-1]
	if _, exists := top[name]; exists {
		return false
	}
	top[name] = sym
	return true
}

// Lookup searches frames innermost-outward and returns the first match.
func (s *SymbolTable) Lookup(name string) (*VarSymbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// DeclareFunction inserts sig under name in the flat function namespace.
// It reports false without inserting if name is already declared.
func (s *SymbolTable) DeclareFunction(name string, sig *FuncSig) bool {
	if _, exists := s.functions[name]; exists {
		return false
	}
	s.functions[name] = sig
	return true
}

// LookupFunction searches the flat function namespace.
func (s *SymbolTable) LookupFunction(name string) (*FuncSig, bool) {
	sig, ok := s.functions[name]
	return sig, ok
}

// AllocateStackSpace reserves bytes more stack space and returns the new
// (more negative) offset a variable of that size should use. Scalars
// reserve 8 bytes; arrays reserve 8 * product(dims), per §4.3.
func (s *SymbolTable) AllocateStackSpace(bytes int) int {
	s.currentOffset -= bytes
	return s.currentOffset
}

// ResetOffset restarts stack-slot allocation for a new function. It must
// be called once per FunctionDecl, before its parameters and locals are
// declared.
func (s *SymbolTable) ResetOffset() {
	s.currentOffset = 0
}

// FrameSize returns the number of bytes of local stack space the
// function currently being generated needs, i.e. the magnitude of the
// lowest offset handed out since the last ResetOffset.
func (s *SymbolTable) FrameSize() int {
	if s.currentOffset >= 0 {
		return 0
	}
	return -s.currentOffset
}

// String returns a deterministically ordered dump of the table, used by
// the driver's debug output.
func (s *SymbolTable) String() string {
	var sb strings.Builder

	if len(s.functions) > 0 {
		sb.WriteString("Functions:\n")
		names := make([]string, 0, len(s.functions))
		for name := range s.functions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sig := s.functions[name]
			fmt.Fprintf(&sb, "  %-20s  params=%v ret=%s\n", name, sig.Params, sig.ReturnType)
		}
	} else {
		sb.WriteString("Functions: (empty)\n")
	}

	if len(s.frames) > 0 {
		sb.WriteString("Active scopes:\n")
		for i, frame := range s.frames {
			fmt.Fprintf(&sb, "  Scope %d:\n", i)
			names := make([]string, 0, len(frame))
			for name := range frame {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sym := frame[name]
				fmt.Fprintf(&sb, "    %-20s  offset=%d type=%s dims=%v\n", name, sym.Offset, sym.Type, sym.ArrayDims)
			}
		}
	}

	return sb.String()
}

package compiler

// CompileResult holds every intermediate artifact a caller might want to
// inspect (the driver's -dump-tokens/-dump-ast flags read Tokens and
// Program directly), alongside the final assembly text.
type CompileResult struct {
	Tokens   []Token
	Program  *Program
	Assembly string
}

// Compile runs the full pipeline described in §6.2-§6.4: scan, parse,
// analyze, generate. A parse error is fatal and returned alone,
// matching §7's "parse errors are singular" shape; semantic errors are
// accumulated and returned together. Code generation only runs once the
// program is known well-typed, per §3's invariant.
func Compile(src string, opts CodeGenOptions) (*CompileResult, []error) {
	tokens := Lex(src)
	result := &CompileResult{Tokens: tokens}

	prog, err := Parse(tokens, src)
	if err != nil {
		return result, []error{err}
	}
	result.Program = prog

	analysisSyms := NewSymbolTable()
	if errs := Analyze(prog, analysisSyms); len(errs) > 0 {
		return result, errs
	}

	codegenSyms := NewSymbolTable()
	assembly, err := Generate(prog, codegenSyms, opts)
	if err != nil {
		return result, []error{err}
	}
	result.Assembly = assembly

	return result, nil
}

package compiler

import (
	"strings"
	"testing"
)

func generateSrc(t *testing.T, src string, opts CodeGenOptions) string {
	t.Helper()
	prog, err := Parse(Lex(src), src)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	if errs := Analyze(prog, NewSymbolTable()); len(errs) != 0 {
		t.Fatalf("Analyze(%q) returned errors: %v", src, errs)
	}
	asm, err := Generate(prog, NewSymbolTable(), opts)
	if err != nil {
		t.Fatalf("Generate(%q) returned error: %v", src, err)
	}
	return asm
}

func TestGenerateOutputShape(t *testing.T) {
	asm := generateSrc(t, `int main() { return 0; }`, DefaultCodeGenOptions())
	for _, want := range []string{
		".text",
		".global main",
		"main:",
		"print_int:",
		".data",
		`int_fmt: .asciz "%ld\n"`,
		".section .note.GNU-stack",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("output missing %q\n%s", want, asm)
		}
	}
}

func TestGeneratePrologueAndEpilogue(t *testing.T) {
	asm := generateSrc(t, `int main() { int x = 1; return x; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "pushq %rbp") || !strings.Contains(asm, "movq %rsp, %rbp") {
		t.Error("missing standard function prologue")
	}
	if !strings.Contains(asm, "leave") || !strings.Contains(asm, "ret") {
		t.Error("missing standard function epilogue")
	}
}

func TestGenerateOmitsStackReservationWhenNoLocals(t *testing.T) {
	asm := generateSrc(t, `int main() { return 42; }`, DefaultCodeGenOptions())
	if strings.Contains(asm, "subq $0, %rsp") {
		t.Error("should omit the stack reservation entirely when the frame is empty, not emit subq $0")
	}
}

func TestGenerateConstantFolding(t *testing.T) {
	asm := generateSrc(t, `int main() { return 2 + 3; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "movq $5, %rax") {
		t.Errorf("constant folding did not produce movq $5, %%rax:\n%s", asm)
	}
	if strings.Contains(asm, "addq") {
		t.Errorf("folded expression should not emit addq:\n%s", asm)
	}
}

func TestGenerateConstantFoldingCanBeDisabled(t *testing.T) {
	opts := DefaultCodeGenOptions()
	opts.EnableConstantFolding = false
	asm := generateSrc(t, `int main() { return 2 + 3; }`, opts)
	if !strings.Contains(asm, "addq %rbx, %rax") {
		t.Errorf("expected addq with folding disabled:\n%s", asm)
	}
}

func TestGenerateDivisionByZeroLiteralIsNotFolded(t *testing.T) {
	asm := generateSrc(t, `int main() { return 1 / 0; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "idivq") {
		t.Errorf("division by a zero literal must fall back to ordinary emission, not fold:\n%s", asm)
	}
}

func TestGenerateDeadBranchElimination(t *testing.T) {
	asm := generateSrc(t, `int main() { if (0) { return 1; } return 2; }`, DefaultCodeGenOptions())
	if strings.Contains(asm, "movq $1, %rax") {
		t.Errorf("the always-false branch should be eliminated entirely:\n%s", asm)
	}
	if !strings.Contains(asm, "movq $2, %rax") {
		t.Errorf("the surviving branch's constant is missing:\n%s", asm)
	}
}

func TestGenerateDeadBranchEliminationCanBeDisabled(t *testing.T) {
	opts := DefaultCodeGenOptions()
	opts.EnableDeadCodeElimination = false
	asm := generateSrc(t, `int main() { if (0) { return 1; } return 2; }`, opts)
	if !strings.Contains(asm, "testq %rax, %rax") {
		t.Errorf("expected an ordinary conditional branch with elimination disabled:\n%s", asm)
	}
}

func TestGenerateShortCircuitAnd(t *testing.T) {
	asm := generateSrc(t, `int f(int a, int b) { return a && b; } int main() { return f(1, 0); }`, DefaultCodeGenOptions())
	if strings.Contains(asm, "andq %rbx, %rax") {
		t.Errorf("&& must short-circuit via jumps, not the bitwise andq:\n%s", asm)
	}
	if !strings.Contains(asm, "jz") {
		t.Errorf("expected a jz short-circuit branch:\n%s", asm)
	}
}

func TestGenerateShortCircuitOr(t *testing.T) {
	asm := generateSrc(t, `int f(int a, int b) { return a || b; } int main() { return f(1, 0); }`, DefaultCodeGenOptions())
	if strings.Contains(asm, "orq %rbx, %rax") {
		t.Errorf("|| must short-circuit via jumps, not the bitwise orq:\n%s", asm)
	}
}

func TestGenerateParametersSpillToStack(t *testing.T) {
	asm := generateSrc(t, `int add(int a, int b) { return a + b; } int main() { return add(1, 2); }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "movq %rdi,") || !strings.Contains(asm, "movq %rsi,") {
		t.Errorf("expected the first two parameters to spill from rdi/rsi to stack slots:\n%s", asm)
	}
}

func TestGenerateUserCallUsesDirectRegisterPassing(t *testing.T) {
	asm := generateSrc(t, `int add(int a, int b) { return a + b; } int main() { return add(1, 2); }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "call add") {
		t.Errorf("expected a direct call to add:\n%s", asm)
	}
	if !strings.Contains(asm, "movq %rax, %rdi") || !strings.Contains(asm, "movq %rax, %rsi") {
		t.Errorf("expected add's two arguments to be passed in rdi and rsi:\n%s", asm)
	}
}

func TestGenerateArrayAccess(t *testing.T) {
	asm := generateSrc(t, `int main() { int a[4]; a[0] = 9; return a[0]; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "imulq $8, %rax") {
		t.Errorf("expected array offset scaling by element size:\n%s", asm)
	}
}

func TestGenerateWhileLoopStructure(t *testing.T) {
	asm := generateSrc(t, `int main() { int i = 0; while (i < 10) { i = i + 1; } return i; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "jz") || !strings.Contains(asm, "jmp") {
		t.Errorf("expected a while loop's test-and-branch-back structure:\n%s", asm)
	}
}

func TestGenerateForLoopComparisonDirection(t *testing.T) {
	asm := generateSrc(t, `int main() { for (int i = 0; i < 5; i = i + 1) { } return 0; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "cmpq %rax, %rbx") || !strings.Contains(asm, "jge") {
		t.Errorf("expected the for-loop's cmpq %%rax, %%rbx / jge exit test:\n%s", asm)
	}
}

func TestGenerateFloatLiteralEmitsDataLabel(t *testing.T) {
	asm := generateSrc(t, `int main() { float x = 3.5; return 0; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, ".double 3.5") {
		t.Errorf("expected a .double data entry for the float literal:\n%s", asm)
	}
}

func TestGenerateStringLiteralEmitsEscapedDataLabel(t *testing.T) {
	asm := generateSrc(t, `int main() { printf("line\n"); return 0; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, `.asciz "line\n"`) {
		t.Errorf("expected an escaped .asciz data entry:\n%s", asm)
	}
}

func TestGeneratePrintlnUsesIntFmt(t *testing.T) {
	asm := generateSrc(t, `int main() { println(7); return 0; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "leaq int_fmt(%rip), %rdi") {
		t.Errorf("println should format via int_fmt:\n%s", asm)
	}
}

func TestGenerateUserCallAlignsOnlyForOddStackedArgCount(t *testing.T) {
	asm := generateSrc(t, `int f(int a, int b) { return a + b; } int main() { return f(1, 2); }`, DefaultCodeGenOptions())
	if strings.Contains(asm, "subq $8, %rsp") {
		t.Errorf("a two-argument call passes everything in registers and needs no alignment pad:\n%s", asm)
	}
}

func TestGenerateUserCallPadsOddStackedArgCount(t *testing.T) {
	src := `int seven(int a, int b, int c, int d, int e, int f, int g) { return g; }
	        int main() { return seven(1, 2, 3, 4, 5, 6, 7); }`
	asm := generateSrc(t, src, DefaultCodeGenOptions())
	if !strings.Contains(asm, "call seven") {
		t.Fatalf("expected a call to seven:\n%s", asm)
	}
	if !strings.Contains(asm, "subq $8, %rsp") {
		t.Errorf("one stacked argument (the 7th) is odd and needs an alignment pad:\n%s", asm)
	}
}

func TestGeneratePrintlnDoesNotMisalignStack(t *testing.T) {
	asm := generateSrc(t, `int main() { println(7); return 0; }`, DefaultCodeGenOptions())
	if strings.Contains(asm, "subq $8, %rsp") || strings.Contains(asm, "addq $8, %rsp") {
		t.Errorf("println's printf call never pushes anything and is already 16-aligned; it must not pad rsp:\n%s", asm)
	}
}

func TestGenerateArrayParameterDereferencesPointer(t *testing.T) {
	asm := generateSrc(t, `int first(int arr[]) { return arr[0]; } int main() { int a[4]; return first(a); }`, DefaultCodeGenOptions())
	start := strings.Index(asm, "first:")
	if start < 0 {
		t.Fatalf("expected a first: label:\n%s", asm)
	}
	end := strings.Index(asm[start:], "\n\n")
	if end < 0 {
		t.Fatalf("could not find the end of first's body:\n%s", asm)
	}
	body := asm[start : start+end]
	if strings.Contains(body, "leaq") {
		t.Errorf("an array parameter's slot holds a pointer and must be loaded with movq, not leaq:\n%s", body)
	}
	if !strings.Contains(body, "movq") {
		t.Errorf("expected a movq to load the array parameter's pointer:\n%s", body)
	}
}

func TestGenerateLocalArrayUsesAddressOfItsOwnSlot(t *testing.T) {
	asm := generateSrc(t, `int main() { int a[4]; a[0] = 1; return a[0]; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "leaq") {
		t.Errorf("an inline local array's base is the address of its own stack slot:\n%s", asm)
	}
}

func TestGenerateAssignmentConvertsIntToFloat(t *testing.T) {
	asm := generateSrc(t, `int main() { float f = 0.0; f = 3; return 0; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "cvtsi2sdq") {
		t.Errorf("assigning an int into a float variable must convert, not store the raw bit pattern:\n%s", asm)
	}
}

func TestGenerateTernary(t *testing.T) {
	asm := generateSrc(t, `int main() { return 1 ? 2 : 3; }`, DefaultCodeGenOptions())
	if !strings.Contains(asm, "jz") {
		t.Errorf("expected a conditional jump for the ternary:\n%s", asm)
	}
}

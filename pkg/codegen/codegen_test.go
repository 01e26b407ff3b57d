package codegen_test

import (
	"strings"
	"testing"

	"github.com/jmm-lang/jmmc/pkg/codegen"
	"github.com/jmm-lang/jmmc/pkg/jmm"
	"github.com/jmm-lang/jmmc/pkg/sema"
)

func compile(t *testing.T, src string) string {
	t.Helper()

	prog, err := jmm.NewParser(strings.NewReader(src)).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if diags := sema.NewAnalyzer().Analyze(prog); len(diags) != 0 {
		t.Fatalf("unexpected semantic errors: %+v", diags)
	}

	out, err := codegen.NewGenerator().Generate(prog)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	return out
}

func TestEmptyMain(t *testing.T) {
	out := compile(t, `void main() { }`)

	if !strings.HasPrefix(out, "\t.globl main\n\t.data\n") {
		t.Fatalf("expected output to begin with the data header, got:\n%s", out)
	}
	if !strings.Contains(out, "main:\nsub $sp, $sp, 0\n") {
		t.Fatalf("expected empty main frame, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "end:\nli $v0, 10\nsyscall\n") {
		t.Fatalf("expected exit epilogue at the end, got:\n%s", out)
	}
}

func TestHelloWorld(t *testing.T) {
	out := compile(t, `void main() { prints("hi"); }`)

	if !strings.Contains(out, `.asciiz "hi"`) {
		t.Fatalf("expected a .asciiz \"hi\" label in the data section, got:\n%s", out)
	}
	if !strings.Contains(out, "li $v0, 4\nla $a0,") {
		t.Fatalf("expected prints lowering to li $v0,4 / la $a0,<label>, got:\n%s", out)
	}
}

func TestWhileWithBreak(t *testing.T) {
	out := compile(t, `void main() { while (true) { break; } }`)

	if !strings.Contains(out, "label1:") || !strings.Contains(out, "label2:") {
		t.Fatalf("expected loop top/exit labels, got:\n%s", out)
	}
	if !strings.Contains(out, "b label2\n") {
		t.Fatalf("expected break to jump to the loop exit label, got:\n%s", out)
	}
	if !strings.Contains(out, "b label1\n") {
		t.Fatalf("expected the loop back-edge to jump to the top label, got:\n%s", out)
	}
}

func TestStackOffsetsAreDeterministic(t *testing.T) {
	prog, err := jmm.NewParser(strings.NewReader(`
		int f() {
			int a;
			int b;
			int c;
			return a;
		}
		void main() { }
	`)).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if diags := sema.NewAnalyzer().Analyze(prog); len(diags) != 0 {
		t.Fatalf("unexpected semantic errors: %+v", diags)
	}

	out, err := codegen.NewGenerator().Generate(prog)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	if !strings.Contains(out, "sub $sp, $sp, 12\n") {
		t.Fatalf("expected a 12-byte (3 slot) frame for f, got:\n%s", out)
	}
	// a is slot 0 of 3, so it lives at ((3-1-0)*4)($sp) = 8($sp).
	if !strings.Contains(out, "lw $t0, 8($sp)\n") {
		t.Fatalf("expected 'return a' to load a from offset 8, got:\n%s", out)
	}
}

func TestArithmeticAndCompareMnemonics(t *testing.T) {
	out := compile(t, `
		void main() {
			int x;
			boolean y;
			x = 1 + 2 * 3;
			y = 1 < 2;
		}
	`)

	for _, want := range []string{"mul $t", "add $t", "slt $t"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestNestedLoopBreaksToInnermostExit(t *testing.T) {
	out := compile(t, `
		void main() {
			while (true) {
				while (true) {
					break;
				}
			}
		}
	`)

	// label1/label2 belong to the outer loop, label3/label4 to the inner one;
	// the lone break must target the inner loop's exit label (label4).
	if !strings.Contains(out, "b label4\n") {
		t.Fatalf("expected inner break to target the innermost exit label, got:\n%s", out)
	}
}

func TestGlobalVariableUsesDataLabelNotStackOffset(t *testing.T) {
	out := compile(t, `
		int counter;
		void main() {
			counter = 1;
			printi(counter);
		}
	`)

	if !strings.Contains(out, "counter: .word 0\n") {
		t.Fatalf("expected a data-section slot for the global, got:\n%s", out)
	}
	if !strings.Contains(out, "sw $t0, counter\n") {
		t.Fatalf("expected the assignment to store directly to the global's label, got:\n%s", out)
	}
	if !strings.Contains(out, "lw $a0, counter\n") {
		t.Fatalf("expected printi to load directly from the global's label, got:\n%s", out)
	}
	if strings.Contains(out, "main:\nsub $sp, $sp, 4\n") {
		t.Fatalf("a global must not consume a stack slot in main's frame, got:\n%s", out)
	}
}

func TestHaltEmitsJumpToEnd(t *testing.T) {
	out := compile(t, `void main() { halt(); }`)

	if !strings.Contains(out, "j end\n") {
		t.Fatalf("expected halt() to lower to a jump to end, got:\n%s", out)
	}
}

func TestGetcharEmitsReadSyscall(t *testing.T) {
	out := compile(t, `
		void main() {
			int c;
			c = getchar();
		}
	`)

	if !strings.Contains(out, `getcharPrompt: .asciiz "? "`) {
		t.Fatalf("expected a getcharPrompt data label, got:\n%s", out)
	}
	if !strings.Contains(out, "li $v0, 4\nla $a0, getcharPrompt\nsyscall\nli $v0, 5\nsyscall\n") {
		t.Fatalf("expected getchar to print its prompt then read a character, got:\n%s", out)
	}
	if !strings.Contains(out, "move $t0, $v0\n") {
		t.Fatalf("expected getchar's result to be moved out of $v0, got:\n%s", out)
	}
}

func TestPrintcEmitsCharacterSyscall(t *testing.T) {
	out := compile(t, `void main() { printc(65); }`)

	if !strings.Contains(out, "li $a0, 65\nli $v0, 11\nsyscall\n") {
		t.Fatalf("expected printc to load its argument into $a0 and trigger syscall 11, got:\n%s", out)
	}
}

func TestPrintbEmitsTrueFalseBranch(t *testing.T) {
	out := compile(t, `void main() { printb(true); }`)

	if !strings.Contains(out, `boolTrue: .asciiz "true"`) || !strings.Contains(out, `boolFalse: .asciiz "false"`) {
		t.Fatalf("expected boolTrue/boolFalse data labels, got:\n%s", out)
	}
	if !strings.Contains(out, "li $v0, 4\nla $a0, boolTrue\nsyscall\nb ") {
		t.Fatalf("expected the true branch to print boolTrue, got:\n%s", out)
	}
	if !strings.Contains(out, "li $v0, 4\nla $a0, boolFalse\nsyscall\n") {
		t.Fatalf("expected the false branch to print boolFalse, got:\n%s", out)
	}
}

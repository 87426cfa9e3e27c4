package bytecode

import (
	"errors"
	"testing"
)

func TestNewProgramCopiesInstructions(t *testing.T) {
	insts := []Instruction{push(1), op(OpPop)}
	prog := NewProgram(insts...)
	insts[0] = push(99)

	if arg, _ := prog.At(0).Arg(); arg != 1 {
		t.Errorf("program changed through caller slice: %s", prog.At(0))
	}

	got := prog.Instructions()
	got[1] = op(OpNop)
	if prog.At(1).Op() != OpPop {
		t.Errorf("program changed through Instructions(): %s", prog.At(1))
	}
}

func TestNilProgramLen(t *testing.T) {
	var prog *Program
	if prog.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", prog.Len())
	}
}

func TestBuilderPatchJump(t *testing.T) {
	b := NewBuilder()
	b.EmitPush(0)
	j := b.EmitJump(OpJumpZero)
	b.EmitPush(7)
	b.PatchJump(j)
	b.Emit(OpNop)

	prog, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if target, _ := prog.At(j).Arg(); target != 3 {
		t.Errorf("patched target = %d, want 3", target)
	}
	if b.CurrentIndex() != 4 {
		t.Errorf("CurrentIndex() = %d, want 4", b.CurrentIndex())
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{"push without arg", func(b *Builder) { b.Emit(OpPush) }},
		{"add with arg", func(b *Builder) { b.EmitArg(OpAdd, 1) }},
		{"non-jump placeholder", func(b *Builder) { b.EmitJump(OpPop) }},
		{"patch non-jump", func(b *Builder) {
			i := b.Emit(OpNop)
			b.PatchJump(i)
		}},
		{"patch out of range", func(b *Builder) { b.PatchJumpTo(5, 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			if _, err := b.Build(); !errors.Is(err, ErrInvalidInstruction) {
				t.Errorf("Build() error = %v, want ErrInvalidInstruction", err)
			}
		})
	}
}

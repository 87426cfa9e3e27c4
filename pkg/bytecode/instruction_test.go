package bytecode

import (
	"errors"
	"testing"
)

func TestNewInstruction(t *testing.T) {
	inst, err := NewInstruction(OpAdd)
	if err != nil {
		t.Fatalf("NewInstruction failed: %v", err)
	}
	if inst.Op() != OpAdd {
		t.Errorf("Op() = %s, want ADD", inst.Op())
	}
	if inst.HasArg() {
		t.Error("ADD should not carry an argument")
	}
	if _, err := inst.Arg(); !errors.Is(err, ErrInvalidInstruction) {
		t.Errorf("Arg() error = %v, want ErrInvalidInstruction", err)
	}
}

func TestNewInstructionWithArg(t *testing.T) {
	inst, err := NewInstructionWithArg(OpPush, -42)
	if err != nil {
		t.Fatalf("NewInstructionWithArg failed: %v", err)
	}
	arg, err := inst.Arg()
	if err != nil {
		t.Fatalf("Arg failed: %v", err)
	}
	if arg != -42 {
		t.Errorf("Arg() = %d, want -42", arg)
	}
}

func TestInstructionArityMismatch(t *testing.T) {
	for _, op := range []Opcode{OpPush, OpJump, OpJumpZero} {
		if _, err := NewInstruction(op); !errors.Is(err, ErrInvalidInstruction) {
			t.Errorf("NewInstruction(%s) error = %v, want ErrInvalidInstruction", op, err)
		}
	}
	for _, op := range []Opcode{OpNop, OpPop, OpAdd, OpEmit, OpInput} {
		if _, err := NewInstructionWithArg(op, 1); !errors.Is(err, ErrInvalidInstruction) {
			t.Errorf("NewInstructionWithArg(%s) error = %v, want ErrInvalidInstruction", op, err)
		}
	}
}

func TestInstructionUnknownOpcode(t *testing.T) {
	if _, err := NewInstruction(Opcode(99)); !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("NewInstruction(99) error = %v, want ErrUnknownOpcode", err)
	}
	if _, err := NewInstructionWithArg(Opcode(99), 0); !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("NewInstructionWithArg(99) error = %v, want ErrUnknownOpcode", err)
	}
}

func TestMustInstructionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustInstruction(PUSH) should panic")
		}
	}()
	MustInstruction(OpPush)
}

func TestInstructionZeroValueIsNop(t *testing.T) {
	var inst Instruction
	if inst.Op() != OpNop || inst.HasArg() {
		t.Errorf("zero Instruction = %s, want NOP", inst)
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{MustInstruction(OpDup), "DUP"},
		{MustInstructionWithArg(OpPush, 7), "PUSH 7"},
		{MustInstructionWithArg(OpJumpZero, 3), "JUMP_ZERO 3"},
	}
	for _, tt := range tests {
		if got := tt.inst.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

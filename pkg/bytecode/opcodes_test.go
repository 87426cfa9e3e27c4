package bytecode

import (
	"errors"
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode %d has no metadata", op)
		}
		if info.Arity != 0 && info.Arity != 1 {
			t.Errorf("%s arity = %d, want 0 or 1", op, info.Arity)
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	if got := OpcodeCount(); got != 15 {
		t.Errorf("OpcodeCount() = %d, want 15", got)
	}
}

func TestOpcodeFromCode(t *testing.T) {
	tests := []struct {
		code int64
		want Opcode
	}{
		{0, OpNop},
		{1, OpPush},
		{2, OpPop},
		{3, OpDup},
		{4, OpJump},
		{5, OpJumpZero},
		{6, OpAdd},
		{7, OpSub},
		{8, OpMul},
		{9, OpDiv},
		{10, OpMod},
		{11, OpEmit},
		{12, OpInput},
		{13, OpSwap},
		{14, OpDebug},
	}

	for _, tt := range tests {
		got, err := OpcodeFromCode(tt.code)
		if err != nil {
			t.Errorf("OpcodeFromCode(%d) failed: %v", tt.code, err)
			continue
		}
		if got != tt.want {
			t.Errorf("OpcodeFromCode(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestOpcodeFromCodeUnknown(t *testing.T) {
	for _, code := range []int64{15, 16, 255, 256, -1, 1 << 40} {
		_, err := OpcodeFromCode(code)
		if !errors.Is(err, ErrUnknownOpcode) {
			t.Errorf("OpcodeFromCode(%d) error = %v, want ErrUnknownOpcode", code, err)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpNop, "NOP"},
		{OpPush, "PUSH"},
		{OpPop, "POP"},
		{OpJumpZero, "JUMP_ZERO"},
		{OpEmit, "EMIT"},
		{OpSwap, "SWAP"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	got := Opcode(200).String()
	if !strings.HasPrefix(got, "UNKNOWN") {
		t.Errorf("Unknown opcode should return UNKNOWN, got %q", got)
	}
}

func TestOpcodeArity(t *testing.T) {
	withArg := map[Opcode]bool{OpPush: true, OpJump: true, OpJumpZero: true}
	for _, op := range AllOpcodes() {
		if got := op.HasArgument(); got != withArg[op] {
			t.Errorf("%s.HasArgument() = %v, want %v", op, got, withArg[op])
		}
		want := 1
		if withArg[op] {
			want = 2
		}
		if got := op.Width(); got != want {
			t.Errorf("%s.Width() = %d, want %d", op, got, want)
		}
	}
}

func TestOpcodeCategories(t *testing.T) {
	if !OpJump.IsJump() || !OpJumpZero.IsJump() || OpPush.IsJump() {
		t.Error("IsJump misclassifies opcodes")
	}
	for _, op := range []Opcode{OpAdd, OpSub, OpMul, OpDiv, OpMod} {
		if !op.IsArithmetic() {
			t.Errorf("%s should be arithmetic", op)
		}
	}
	if OpEmit.IsArithmetic() || OpSwap.IsArithmetic() {
		t.Error("IsArithmetic misclassifies opcodes")
	}
}

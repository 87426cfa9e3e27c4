package bytecode

import (
	"fmt"
	"strconv"
)

// Instruction pairs an Opcode with its inline argument. The argument is
// present iff the opcode has arity one. The zero value is a NOP.
type Instruction struct {
	op     Opcode
	arg    int64
	hasArg bool
}

// NewInstruction creates an instruction for a zero-argument opcode.
func NewInstruction(op Opcode) (Instruction, error) {
	if !op.Valid() {
		return Instruction{}, fmt.Errorf("%w: %d", ErrUnknownOpcode, uint8(op))
	}
	if op.HasArgument() {
		return Instruction{}, fmt.Errorf("%w: %s requires an argument", ErrInvalidInstruction, op)
	}
	return Instruction{op: op}, nil
}

// NewInstructionWithArg creates an instruction for a one-argument opcode.
func NewInstructionWithArg(op Opcode, arg int64) (Instruction, error) {
	if !op.Valid() {
		return Instruction{}, fmt.Errorf("%w: %d", ErrUnknownOpcode, uint8(op))
	}
	if !op.HasArgument() {
		return Instruction{}, fmt.Errorf("%w: %s takes no argument", ErrInvalidInstruction, op)
	}
	return Instruction{op: op, arg: arg, hasArg: true}, nil
}

// MustInstruction is like NewInstruction but panics on error.
// Intended for program literals in tests and generated code.
func MustInstruction(op Opcode) Instruction {
	inst, err := NewInstruction(op)
	if err != nil {
		panic(err)
	}
	return inst
}

// MustInstructionWithArg is like NewInstructionWithArg but panics on error.
func MustInstructionWithArg(op Opcode, arg int64) Instruction {
	inst, err := NewInstructionWithArg(op, arg)
	if err != nil {
		panic(err)
	}
	return inst
}

// Op returns the instruction's opcode.
func (i Instruction) Op() Opcode {
	return i.op
}

// HasArg reports whether the instruction carries an argument.
func (i Instruction) HasArg() bool {
	return i.hasArg
}

// Arg returns the inline argument. Reading the argument of an
// instruction that has none fails with ErrInvalidInstruction.
func (i Instruction) Arg() (int64, error) {
	if !i.hasArg {
		return 0, fmt.Errorf("%w: %s has no argument", ErrInvalidInstruction, i.op)
	}
	return i.arg, nil
}

// String returns the instruction in listing form, e.g. "PUSH 5".
func (i Instruction) String() string {
	if i.hasArg {
		return i.op.String() + " " + strconv.FormatInt(i.arg, 10)
	}
	return i.op.String()
}

package bytecode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode indicates a raw code outside the opcode set.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrTruncatedInstruction indicates the stream ended where an inline
	// argument was expected.
	ErrTruncatedInstruction = errors.New("truncated instruction")

	// ErrInvalidInstruction indicates an argument that does not match
	// the opcode's arity.
	ErrInvalidInstruction = errors.New("invalid instruction")

	// ErrStackUnderflow indicates an operation needed more operands than
	// the stack holds.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrStackOverflow indicates a push past the configured maximum depth.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrDivisionByZero indicates DIV or MOD with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUnsupportedOperation indicates a reserved opcode was dispatched.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrStepLimitExceeded indicates the run executed more instructions
	// than the configured limit.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// DecodeError reports a failure while decoding the raw stream.
type DecodeError struct {
	Offset int   // Position of the failing element in the raw stream
	Index  int   // Index of the instruction being decoded
	Code   int64 // Raw code at Offset
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode instruction %d (offset %d, code %d): %v", e.Index, e.Offset, e.Code, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ExecError reports a failure while executing the instruction at PC.
// The run is aborted; the VM does not continue past it.
type ExecError struct {
	PC   int
	Inst Instruction
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("pc %d (%s): %v", e.PC, e.Inst, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

var errorKinds = []struct {
	err  error
	name string
}{
	{ErrUnknownOpcode, "UnknownOpcode"},
	{ErrTruncatedInstruction, "TruncatedInstruction"},
	{ErrInvalidInstruction, "InvalidInstruction"},
	{ErrStackUnderflow, "StackUnderflow"},
	{ErrStackOverflow, "StackOverflow"},
	{ErrDivisionByZero, "DivisionByZero"},
	{ErrUnsupportedOperation, "UnsupportedOperation"},
	{ErrStepLimitExceeded, "StepLimitExceeded"},
}

// ErrorKind returns the taxonomy name of err ("StackUnderflow", ...),
// "" for nil and "Other" for errors that did not come from this package.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Other"
}

// ErrorPC returns the program counter carried by an *ExecError in err's chain.
func ErrorPC(err error) (int, bool) {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.PC, true
	}
	return 0, false
}

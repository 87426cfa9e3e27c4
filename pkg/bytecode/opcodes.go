package bytecode

import "fmt"

// Opcode identifies an operation kind in the raw instruction stream.
// The numeric values are the wire encoding and must not change.
type Opcode uint8

const (
	OpNop      Opcode = 0  // No operation
	OpPush     Opcode = 1  // Push constant: OpPush <value>
	OpPop      Opcode = 2  // Pop top of stack into the last-popped register
	OpDup      Opcode = 3  // Duplicate top of stack
	OpJump     Opcode = 4  // Unconditional jump: OpJump <target>
	OpJumpZero Opcode = 5  // Pop, jump if zero: OpJumpZero <target>
	OpAdd      Opcode = 6  // Pop two, push sum
	OpSub      Opcode = 7  // Pop two, push difference (a - b where b is TOS)
	OpMul      Opcode = 8  // Pop two, push product
	OpDiv      Opcode = 9  // Pop two, push quotient (a / b where b is TOS)
	OpMod      Opcode = 10 // Pop two, push remainder (a % b where b is TOS)
	OpEmit     Opcode = 11 // Pop and write to the output channel
	OpInput    Opcode = 12 // Read from the input channel (reserved)
	OpSwap     Opcode = 13 // Swap top two stack elements
	OpDebug    Opcode = 14 // Dump machine state (reserved)
)

// maxOpcode is the highest defined opcode value.
const maxOpcode = OpDebug

// OpcodeInfo provides metadata about each opcode for decoding,
// disassembly and validation.
type OpcodeInfo struct {
	Name      string // Human-readable name
	StackPop  int    // How many values popped from stack
	StackPush int    // How many values pushed to stack
	Arity     int    // Number of inline arguments following the opcode (0 or 1)
	Reserved  bool   // Recognized but not executable
}

var opcodeInfoTable = [...]OpcodeInfo{
	OpNop:      {"NOP", 0, 0, 0, false},
	OpPush:     {"PUSH", 0, 1, 1, false},
	OpPop:      {"POP", 1, 0, 0, false},
	OpDup:      {"DUP", 1, 2, 0, false},
	OpJump:     {"JUMP", 0, 0, 1, false},
	OpJumpZero: {"JUMP_ZERO", 1, 0, 1, false},
	OpAdd:      {"ADD", 2, 1, 0, false},
	OpSub:      {"SUB", 2, 1, 0, false},
	OpMul:      {"MUL", 2, 1, 0, false},
	OpDiv:      {"DIV", 2, 1, 0, false},
	OpMod:      {"MOD", 2, 1, 0, false},
	OpEmit:     {"EMIT", 1, 0, 0, false},
	OpInput:    {"INPUT", 0, 1, 0, true},
	OpSwap:     {"SWAP", 2, 2, 0, false},
	OpDebug:    {"DEBUG", 0, 0, 0, true},
}

// OpcodeFromCode maps a raw stream code to its Opcode.
// Codes outside the defined set fail with ErrUnknownOpcode.
func OpcodeFromCode(code int64) (Opcode, error) {
	if code < 0 || code > int64(maxOpcode) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOpcode, code)
	}
	return Opcode(code), nil
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	return op <= maxOpcode
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if op.Valid() {
		return opcodeInfoTable[op]
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", uint8(op))}
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// HasArgument reports whether the opcode is followed by an inline argument.
func (op Opcode) HasArgument() bool {
	return GetOpcodeInfo(op).Arity == 1
}

// Width returns the number of raw stream elements one instruction with
// this opcode occupies.
func (op Opcode) Width() int {
	return 1 + GetOpcodeInfo(op).Arity
}

// IsJump returns true if this opcode is a jump instruction.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpZero
}

// IsArithmetic returns true for the binary integer operators.
func (op Opcode) IsArithmetic() bool {
	return op >= OpAdd && op <= OpMod
}

// AllOpcodes returns a slice of all defined opcodes in code order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, Opcode(op))
	}
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}

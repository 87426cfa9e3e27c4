// Package bytecode provides a small stack-based virtual machine for
// integer programs. It is the execution backend for toolchains that emit
// a flat numeric instruction stream.
//
// The bytecode format is designed for:
//   - Streaming decode (the raw stream may be produced incrementally)
//   - Positional, stateless encoding (no header, no magic number)
//   - Variable width (an opcode is followed by at most one inline argument)
//
// # Architecture Overview
//
//   - Opcodes: 15 operations covering stack manipulation, arithmetic,
//     output and absolute jumps. Each opcode has a fixed arity of zero or
//     one inline argument.
//
//   - Instruction: an Opcode paired with its argument, if it has one.
//     Constructors reject arity mismatches with ErrInvalidInstruction.
//
//   - Decoder: a pull-based adapter over a Source of raw integers. It
//     reads one code, and for arity-one opcodes exactly one more element.
//
//   - Program: an immutable, 0-indexed sequence of instructions.
//
//   - VM: runs a Program to completion against a fresh operand stack and
//     exposes the last popped value and the emitted output.
//
// # Control Flow
//
// Jump targets are absolute instruction indices. After each instruction
// the program counter is advanced by a signed offset: +1 by default, and
// target-pc for a taken jump. The run halts normally as soon as the
// program counter leaves [0, len(program)); there is no halt opcode.
//
// # Errors
//
// Decoding failures are reported as *DecodeError and execution failures
// as *ExecError. Both wrap one of the package sentinels (ErrStackUnderflow,
// ErrDivisionByZero, ...) so callers can match with errors.Is.
package bytecode

package bytecode

import "fmt"

// Program is an ordered, 0-indexed sequence of instructions.
// It is immutable once constructed and may be shared between VMs.
type Program struct {
	insts []Instruction
}

// NewProgram creates a program from insts. The slice is copied.
func NewProgram(insts ...Instruction) *Program {
	cp := make([]Instruction, len(insts))
	copy(cp, insts)
	return &Program{insts: cp}
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.insts)
}

// At returns the instruction at index i. Panics if i is out of range.
func (p *Program) At(i int) Instruction {
	return p.insts[i]
}

// Instructions returns a copy of the program's instructions.
func (p *Program) Instructions() []Instruction {
	cp := make([]Instruction, p.Len())
	copy(cp, p.insts)
	return cp
}

// Encode returns the raw stream for the program, the inverse of decoding.
func (p *Program) Encode() []int64 {
	codes := make([]int64, 0, p.Len()*2)
	for _, inst := range p.insts {
		codes = append(codes, int64(inst.op))
		if inst.hasArg {
			codes = append(codes, inst.arg)
		}
	}
	return codes
}

// Builder assembles a Program instruction by instruction. Jumps can be
// emitted before their target is known and patched later.
type Builder struct {
	insts []Instruction
	err   error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{insts: make([]Instruction, 0, 16)}
}

// Emit appends a zero-argument instruction and returns its index.
func (b *Builder) Emit(op Opcode) int {
	inst, err := NewInstruction(op)
	return b.append(inst, err)
}

// EmitArg appends a one-argument instruction and returns its index.
func (b *Builder) EmitArg(op Opcode, arg int64) int {
	inst, err := NewInstructionWithArg(op, arg)
	return b.append(inst, err)
}

// EmitPush appends PUSH value.
func (b *Builder) EmitPush(value int64) int {
	return b.EmitArg(OpPush, value)
}

// EmitJump appends a jump with a placeholder target.
// Returns the index to pass to PatchJump.
func (b *Builder) EmitJump(op Opcode) int {
	if !op.IsJump() {
		b.setErr(fmt.Errorf("%w: %s is not a jump", ErrInvalidInstruction, op))
		return len(b.insts)
	}
	return b.EmitArg(op, -1)
}

// PatchJump sets the jump at index to target the next emitted instruction.
func (b *Builder) PatchJump(index int) {
	b.PatchJumpTo(index, len(b.insts))
}

// PatchJumpTo sets the jump at index to target.
func (b *Builder) PatchJumpTo(index int, target int) {
	if index < 0 || index >= len(b.insts) || !b.insts[index].op.IsJump() {
		b.setErr(fmt.Errorf("%w: no jump at index %d", ErrInvalidInstruction, index))
		return
	}
	b.insts[index].arg = int64(target)
}

// CurrentIndex returns the index the next instruction will have.
func (b *Builder) CurrentIndex() int {
	return len(b.insts)
}

// Build returns the assembled program, or the first error recorded.
func (b *Builder) Build() (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewProgram(b.insts...), nil
}

func (b *Builder) append(inst Instruction, err error) int {
	if err != nil {
		b.setErr(err)
		return len(b.insts)
	}
	b.insts = append(b.insts, inst)
	return len(b.insts) - 1
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; Instructions: %d (%d raw elements)\n", p.Len(), p.rawLen()))
	sb.WriteString("\n")

	targets := p.jumpTargets()

	sb.WriteString("; Code:\n")
	offset := 0
	for i, inst := range p.insts {
		marker := "  "
		if targets[i] {
			marker = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%04d  [%04d]  %s\n", marker, i, offset, disassembleInstruction(inst, p.Len())))
		offset += inst.op.Width()
	}

	return sb.String()
}

// disassembleInstruction formats a single instruction, annotating jumps.
func disassembleInstruction(inst Instruction, n int) string {
	switch inst.op {
	case OpJump, OpJumpZero:
		target := inst.arg
		switch {
		case target == int64(n):
			return fmt.Sprintf("%-10s %d ; -> end", inst.op, target)
		case target < 0 || target > int64(n):
			return fmt.Sprintf("%-10s %d ; -> out of range", inst.op, target)
		}
		return fmt.Sprintf("%-10s %d", inst.op, target)
	case OpInput, OpDebug:
		return fmt.Sprintf("%-10s ; reserved", inst.op)
	}
	return inst.String()
}

func (p *Program) jumpTargets() map[int]bool {
	targets := make(map[int]bool)
	for _, inst := range p.insts {
		if inst.op.IsJump() && inst.arg >= 0 && inst.arg < int64(len(p.insts)) {
			targets[int(inst.arg)] = true
		}
	}
	return targets
}

func (p *Program) rawLen() int {
	n := 0
	for _, inst := range p.insts {
		n += inst.op.Width()
	}
	return n
}

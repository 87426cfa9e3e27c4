package bytecode

import "github.com/tliron/commonlog"

// Step describes one executed instruction.
type Step struct {
	Count   int         // 1-based number of the step within the run
	PC      int         // Program counter of the instruction
	Inst    Instruction // The instruction that was executed
	Advance int64       // Signed offset applied to the program counter
	Stack   []int64     // Operand stack after execution, bottom first
}

// NextPC returns the program counter the step moved to.
func (s Step) NextPC() int64 {
	return int64(s.PC) + s.Advance
}

// Tracer observes a run step by step. It is called after each
// instruction executes successfully and before the program counter moves.
type Tracer interface {
	Trace(step Step)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(step Step)

// Trace implements Tracer.
func (f TracerFunc) Trace(step Step) {
	f(step)
}

type logTracer struct {
	logger commonlog.Logger
}

// LogTracer returns a Tracer that logs every step at debug level.
func LogTracer(logger commonlog.Logger) Tracer {
	return logTracer{logger: logger}
}

func (t logTracer) Trace(step Step) {
	if !t.logger.AllowLevel(commonlog.Debug) {
		return
	}
	t.logger.Debugf("pc: %d %-14s jmp: %d next: %d stack: %v",
		step.PC, step.Inst, step.Advance, step.NextPC(), step.Stack)
}

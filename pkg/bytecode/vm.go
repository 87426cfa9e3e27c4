package bytecode

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// LoggerName is the commonlog name used by VMs unless WithLogger is given.
const LoggerName = "stackvm.bytecode"

// EmitFunc receives values written by OpEmit as they are produced.
type EmitFunc func(value int64)

// Option configures a VM.
type Option func(*VM)

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(logger commonlog.Logger) Option {
	return func(vm *VM) { vm.log = logger }
}

// WithTracer installs a step tracer.
func WithTracer(t Tracer) Option {
	return func(vm *VM) { vm.tracer = t }
}

// WithEmitter streams emitted values to fn in addition to collecting them.
func WithEmitter(fn EmitFunc) Option {
	return func(vm *VM) { vm.emitter = fn }
}

// WithMaxStackDepth bounds the operand stack. Pushing past the bound
// fails with ErrStackOverflow. Zero means unbounded.
func WithMaxStackDepth(depth int) Option {
	return func(vm *VM) { vm.stack.maxDepth = depth }
}

// WithStepLimit bounds the number of instructions a run may execute.
// Exceeding it fails with ErrStepLimitExceeded. Zero means unlimited.
func WithStepLimit(steps int) Option {
	return func(vm *VM) { vm.stepLimit = steps }
}

// Result is the observable outcome of a run.
type Result struct {
	Value    int64   // Last popped value, valid if HasValue
	HasValue bool    // False if nothing was ever popped
	Output   []int64 // Values written by OpEmit, in order
	Steps    int     // Instructions executed
	Halted   bool    // True if the run completed
}

// VM executes a Program. A VM is not safe for concurrent use; run
// independent VMs to evaluate in parallel.
type VM struct {
	program *Program

	// Execution state, reset at the start of every run
	stack      operandStack
	pc         int64
	lastPop    int64
	hasLastPop bool
	output     []int64
	steps      int
	halted     bool

	log       commonlog.Logger
	tracer    Tracer
	emitter   EmitFunc
	stepLimit int
}

// NewVM creates a VM for program.
func NewVM(program *Program, opts ...Option) *VM {
	vm := &VM{
		program: program,
		stack:   operandStack{values: make([]int64, 0, 64)},
		log:     commonlog.GetLogger(LoggerName),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Execute runs program on a new VM and returns its result.
// On failure the result still holds the state observed before the error.
func Execute(program *Program, opts ...Option) (Result, error) {
	vm := NewVM(program, opts...)
	err := vm.Run()
	return vm.Result(), err
}

// Run executes the program from instruction 0 against a fresh state
// until the program counter leaves the program. Any failure aborts the
// run and is returned as an *ExecError.
func (vm *VM) Run() error {
	vm.reset()
	n := int64(vm.program.Len())
	vm.log.Debugf("run: %d instructions", n)

	for {
		if vm.pc < 0 || vm.pc >= n {
			vm.halted = true
			vm.log.Debugf("halted: pc %d after %d steps", vm.pc, vm.steps)
			return nil
		}

		pc := int(vm.pc)
		inst := vm.program.insts[pc]

		if vm.stepLimit > 0 && vm.steps >= vm.stepLimit {
			return vm.fail(pc, inst, fmt.Errorf("%w: %d", ErrStepLimitExceeded, vm.stepLimit))
		}

		advance, err := vm.execute(inst)
		if err != nil {
			return vm.fail(pc, inst, err)
		}
		vm.steps++

		if vm.tracer != nil {
			vm.tracer.Trace(Step{
				Count:   vm.steps,
				PC:      pc,
				Inst:    inst,
				Advance: advance,
				Stack:   vm.stack.snapshot(),
			})
		}

		vm.pc += advance
	}
}

// execute dispatches one instruction and returns the program counter advance.
func (vm *VM) execute(inst Instruction) (int64, error) {
	var advance int64 = 1

	switch inst.op {
	case OpNop:
		// Do nothing

	case OpPush:
		v, err := inst.Arg()
		if err != nil {
			return 0, err
		}
		if err := vm.stack.push(v); err != nil {
			return 0, err
		}

	case OpPop:
		v, err := vm.stack.pop()
		if err != nil {
			return 0, err
		}
		vm.recordPop(v)

	case OpDup:
		v, err := vm.stack.peek(0)
		if err != nil {
			return 0, err
		}
		if err := vm.stack.push(v); err != nil {
			return 0, err
		}

	case OpSwap:
		if err := vm.stack.require(2); err != nil {
			return 0, err
		}
		// Depth was checked and the pushes refill what was popped.
		a, _ := vm.stack.pop()
		b, _ := vm.stack.pop()
		vm.stack.push(a)
		vm.stack.push(b)

	case OpJump:
		target, err := inst.Arg()
		if err != nil {
			return 0, err
		}
		advance = target - vm.pc

	case OpJumpZero:
		target, err := inst.Arg()
		if err != nil {
			return 0, err
		}
		v, err := vm.stack.pop()
		if err != nil {
			return 0, err
		}
		vm.recordPop(v)
		if v == 0 {
			advance = target - vm.pc
		}

	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		if err := vm.arithmetic(inst.op); err != nil {
			return 0, err
		}

	case OpEmit:
		v, err := vm.stack.pop()
		if err != nil {
			return 0, err
		}
		vm.recordPop(v)
		vm.output = append(vm.output, v)
		if vm.emitter != nil {
			vm.emitter(v)
		}

	case OpInput, OpDebug:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedOperation, inst.op)

	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownOpcode, uint8(inst.op))
	}

	return advance, nil
}

// arithmetic applies a binary operator. a is the top of the stack (the
// most recently pushed operand), b the value below it; order-sensitive
// operators compute b op a. The stack is untouched on failure.
func (vm *VM) arithmetic(op Opcode) error {
	a, err := vm.stack.peek(0)
	if err != nil {
		return err
	}
	b, err := vm.stack.peek(1)
	if err != nil {
		return err
	}

	var result int64
	switch op {
	case OpAdd:
		result = b + a
	case OpSub:
		result = b - a
	case OpMul:
		result = b * a
	case OpDiv:
		if a == 0 {
			return ErrDivisionByZero
		}
		result = b / a
	case OpMod:
		if a == 0 {
			return ErrDivisionByZero
		}
		result = b % a
	}

	// Both operands were peeked, so neither pop can fail.
	vm.stack.pop()
	vm.stack.pop()
	return vm.stack.push(result)
}

func (vm *VM) recordPop(v int64) {
	vm.lastPop = v
	vm.hasLastPop = true
}

func (vm *VM) fail(pc int, inst Instruction, err error) error {
	vm.log.Debugf("failed: pc %d (%s) after %d steps: %v", pc, inst, vm.steps, err)
	return &ExecError{PC: pc, Inst: inst, Err: err}
}

func (vm *VM) reset() {
	vm.stack.reset()
	vm.pc = 0
	vm.lastPop = 0
	vm.hasLastPop = false
	vm.output = nil
	vm.steps = 0
	vm.halted = false
}

// LastPopped returns the most recent value removed by POP, JUMP_ZERO or
// EMIT. The boolean is false if nothing was popped.
func (vm *VM) LastPopped() (int64, bool) {
	return vm.lastPop, vm.hasLastPop
}

// Output returns a copy of the values emitted so far.
func (vm *VM) Output() []int64 {
	out := make([]int64, len(vm.output))
	copy(out, vm.output)
	return out
}

// Stack returns a copy of the operand stack, bottom first.
func (vm *VM) Stack() []int64 {
	return vm.stack.snapshot()
}

// PC returns the current program counter.
func (vm *VM) PC() int {
	return int(vm.pc)
}

// Steps returns the number of instructions executed in the current run.
func (vm *VM) Steps() int {
	return vm.steps
}

// Halted reports whether the last run completed normally.
func (vm *VM) Halted() bool {
	return vm.halted
}

// Program returns the program the VM executes.
func (vm *VM) Program() *Program {
	return vm.program
}

// Result returns the observable outcome of the last run.
func (vm *VM) Result() Result {
	return Result{
		Value:    vm.lastPop,
		HasValue: vm.hasLastPop,
		Output:   vm.Output(),
		Steps:    vm.steps,
		Halted:   vm.halted,
	}
}

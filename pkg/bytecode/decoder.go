package bytecode

import (
	"errors"
	"io"
	"iter"
)

// Decoder turns a raw Source into a lazy, single-pass sequence of
// instructions. Each call to Next reads one code and, for opcodes with
// an inline argument, exactly one more element.
type Decoder struct {
	src    Source
	offset int // raw elements consumed so far
	index  int // instructions produced so far
	err    error
}

// NewDecoder creates a decoder over src.
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src}
}

// Next returns the next instruction. It returns io.EOF when the source
// is exhausted between two instructions, which is the normal end of the
// stream. Once Next has returned an error it keeps returning it.
func (d *Decoder) Next() (Instruction, error) {
	if d.err != nil {
		return Instruction{}, d.err
	}

	inst, err := d.decode()
	if err != nil {
		d.err = err
		return Instruction{}, err
	}
	d.index++
	return inst, nil
}

func (d *Decoder) decode() (Instruction, error) {
	start := d.offset
	code, err := d.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Instruction{}, io.EOF
		}
		return Instruction{}, &DecodeError{Offset: start, Index: d.index, Err: err}
	}
	d.offset++

	op, err := OpcodeFromCode(code)
	if err != nil {
		return Instruction{}, &DecodeError{Offset: start, Index: d.index, Code: code, Err: err}
	}
	if !op.HasArgument() {
		return Instruction{op: op}, nil
	}

	arg, err := d.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrTruncatedInstruction
		}
		return Instruction{}, &DecodeError{Offset: start, Index: d.index, Code: code, Err: err}
	}
	d.offset++
	return Instruction{op: op, arg: arg, hasArg: true}, nil
}

// Offset returns the number of raw elements consumed so far.
func (d *Decoder) Offset() int {
	return d.offset
}

// All returns an iterator over the remaining instructions. Iteration
// stops after the first error, which is yielded with a zero Instruction.
// A clean end of stream is not yielded.
func (d *Decoder) All() iter.Seq2[Instruction, error] {
	return func(yield func(Instruction, error) bool) {
		for {
			inst, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(inst, err) || err != nil {
				return
			}
		}
	}
}

// DecodeProgram drains src into a Program.
func DecodeProgram(src Source) (*Program, error) {
	var insts []Instruction
	for inst, err := range NewDecoder(src).All() {
		if err != nil {
			return nil, err
		}
		insts = append(insts, inst)
	}
	return &Program{insts: insts}, nil
}

// DecodeCodes is DecodeProgram over an in-memory raw stream.
func DecodeCodes(codes ...int64) (*Program, error) {
	return DecodeProgram(NewSliceSource(codes))
}

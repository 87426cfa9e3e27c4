// Package report renders the outcome of a run as text, YAML or CBOR.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/chazu/stackvm/pkg/bytecode"
)

// Supported formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("report: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Report is the serializable outcome of decoding and running a program.
type Report struct {
	RunID        string     `yaml:"run-id" cbor:"1,keyasint"`
	Instructions int        `yaml:"instructions" cbor:"2,keyasint"`
	Steps        int        `yaml:"steps" cbor:"3,keyasint"`
	Halted       bool       `yaml:"halted" cbor:"4,keyasint"`
	Result       int64      `yaml:"result" cbor:"5,keyasint"`
	HasResult    bool       `yaml:"has-result" cbor:"6,keyasint"`
	Output       []int64    `yaml:"output,flow" cbor:"7,keyasint"`
	Error        *ErrorInfo `yaml:"error,omitempty" cbor:"8,keyasint,omitempty"`
}

// ErrorInfo describes a failed decode or run.
type ErrorInfo struct {
	Kind    string `yaml:"kind" cbor:"1,keyasint"`
	PC      *int   `yaml:"pc,omitempty" cbor:"2,keyasint,omitempty"`
	Message string `yaml:"message" cbor:"3,keyasint"`
}

// New builds a report from a VM after Run. vm may be nil when the
// program never decoded; err is the decode or run error, if any.
func New(vm *bytecode.VM, err error) *Report {
	r := &Report{
		RunID:  uuid.NewString(),
		Output: []int64{},
	}
	if vm != nil {
		res := vm.Result()
		r.Instructions = vm.Program().Len()
		r.Steps = res.Steps
		r.Halted = res.Halted
		r.Result = res.Value
		r.HasResult = res.HasValue
		if res.Output != nil {
			r.Output = res.Output
		}
	}
	if err != nil {
		r.Error = &ErrorInfo{
			Kind:    bytecode.ErrorKind(err),
			Message: err.Error(),
		}
		if pc, ok := bytecode.ErrorPC(err); ok {
			r.Error.PC = &pc
		}
	}
	return r
}

// Failed reports whether the run ended in an error.
func (r *Report) Failed() bool {
	return r.Error != nil
}

// Write encodes r to w in the given format.
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		return enc.Close()
	case FormatCBOR:
		data, err := Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// Marshal serializes a Report to canonical CBOR bytes.
func Marshal(r *Report) ([]byte, error) {
	data, err := cborEncMode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("report: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal deserializes a Report from CBOR bytes.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: unmarshal: %w", err)
	}
	return &r, nil
}

// Text renders the report for a terminal.
func (r *Report) Text() string {
	var sb strings.Builder

	if r.HasResult {
		fmt.Fprintf(&sb, "result: %d\n", r.Result)
	} else {
		sb.WriteString("result: none\n")
	}
	fmt.Fprintf(&sb, "steps: %d of %d instructions\n", r.Steps, r.Instructions)
	if len(r.Output) > 0 {
		fmt.Fprintf(&sb, "output: %v\n", r.Output)
	}
	if r.Error != nil {
		if r.Error.PC != nil {
			fmt.Fprintf(&sb, "error: %s at pc %d: %s\n", r.Error.Kind, *r.Error.PC, r.Error.Message)
		} else {
			fmt.Fprintf(&sb, "error: %s: %s\n", r.Error.Kind, r.Error.Message)
		}
	}
	return sb.String()
}

// svm - runs raw stack bytecode streams
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/stackvm/manifest"
	"github.com/chazu/stackvm/pkg/bytecode"
	"github.com/chazu/stackvm/report"
)

// errTerminalInput is returned when the program would be read from an
// interactive terminal.
var errTerminalInput = errors.New("refusing to read bytecode from a terminal; pass a file or pipe the stream")

// traceVerbosity is the commonlog verbosity that enables debug messages.
const traceVerbosity = 2

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	verbosity  int
	trace      bool
	format     string
	maxSteps   int
	maxDepth   int
	disasm     bool
	noStream   bool
	input      string
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("svm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "c", "", "Path to stackvm.toml (default: search upward from the working directory)")
	fs.IntVar(&opts.verbosity, "v", 0, "Log verbosity")
	fs.BoolVar(&opts.trace, "trace", false, "Log every executed instruction")
	fs.StringVar(&opts.format, "format", manifest.FormatText, "Report format: text, yaml, cbor")
	fs.IntVar(&opts.maxSteps, "max-steps", 0, "Abort after this many instructions (0 = unlimited)")
	fs.IntVar(&opts.maxDepth, "max-depth", 0, "Maximum operand stack depth (0 = unbounded)")
	fs.BoolVar(&opts.disasm, "disasm", false, "Print a listing of the program and exit")
	fs.BoolVar(&opts.noStream, "no-stream", false, "Do not print emitted values as they are produced")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: svm [options] [file|-]\n\n")
		fmt.Fprintf(stderr, "Decodes a raw bytecode stream (integers separated by spaces, commas or\n")
		fmt.Fprintf(stderr, "newlines; # starts a comment) and runs it.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  svm prog.svm                   # Run a program file\n")
		fmt.Fprintf(stderr, "  echo '1 2 1 3 6 2' | svm       # Run from stdin\n")
		fmt.Fprintf(stderr, "  svm -format yaml prog.svm      # YAML report\n")
		fmt.Fprintf(stderr, "  svm -disasm prog.svm           # Show a listing\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, nil, fmt.Errorf("expected at most one input, got %d", fs.NArg())
	}
	if fs.NArg() == 1 {
		opts.input = fs.Arg(0)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(opts *options, set map[string]bool) (*manifest.Manifest, error) {
	var m *manifest.Manifest
	var err error
	if opts.configPath != "" {
		m, err = manifest.LoadFile(opts.configPath)
	} else {
		m, err = manifest.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default()
	}

	if set["v"] {
		m.Log.Verbosity = opts.verbosity
	}
	if set["trace"] {
		m.Engine.Trace = opts.trace
	}
	if set["format"] {
		m.Output.Format = opts.format
	}
	if set["max-steps"] {
		m.Engine.StepLimit = opts.maxSteps
	}
	if set["max-depth"] {
		m.Engine.MaxStackDepth = opts.maxDepth
	}
	if set["no-stream"] {
		stream := !opts.noStream
		m.Output.Stream = &stream
	}

	// Trace lines are logged at debug level.
	if m.Engine.Trace && m.Log.Verbosity < traceVerbosity {
		m.Log.Verbosity = traceVerbosity
	}
	// Streamed values would corrupt a binary report on stdout.
	if m.Output.Format == manifest.FormatCBOR {
		stream := false
		m.Output.Stream = &stream
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// openInput returns the reader holding the raw stream.
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		if f, ok := stdin.(*os.File); ok {
			if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
				return nil, nil, errTerminalInput
			}
		}
		return stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(opts, set)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)
	log := commonlog.GetLogger("stackvm.svm")

	in, closeInput, err := openInput(opts.input, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeInput()

	prog, err := bytecode.DecodeProgram(bytecode.NewReaderSource(in))
	if err != nil {
		return finish(stdout, stderr, cfg, report.New(nil, err))
	}
	log.Infof("decoded %d instructions", prog.Len())

	if opts.disasm {
		name := opts.input
		if name == "" {
			name = "stdin"
		}
		fmt.Fprint(stdout, prog.DisassembleWithName(name))
		return 0
	}

	out := bufio.NewWriter(stdout)
	vmOpts := cfg.EngineOptions()
	if cfg.StreamOutput() {
		vmOpts = append(vmOpts, bytecode.WithEmitter(func(v int64) {
			fmt.Fprintln(out, v)
		}))
	}
	if cfg.Engine.Trace {
		vmOpts = append(vmOpts, bytecode.WithTracer(bytecode.LogTracer(commonlog.GetLogger("stackvm.trace"))))
	}

	vm := bytecode.NewVM(prog, vmOpts...)
	runErr := vm.Run()
	if err := out.Flush(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return finish(stdout, stderr, cfg, report.New(vm, runErr))
}

// finish writes the report and returns the exit code.
func finish(stdout, stderr io.Writer, cfg *manifest.Manifest, r *report.Report) int {
	if err := report.Write(stdout, cfg.Output.Format, r); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if r.Failed() {
		fmt.Fprintf(stderr, "Error: %s\n", r.Error.Message)
		return 1
	}
	return 0
}

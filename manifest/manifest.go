// Package manifest handles stackvm.toml run configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/stackvm/pkg/bytecode"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "stackvm.toml"

// Output formats understood by the report package.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// Manifest represents a stackvm.toml configuration.
type Manifest struct {
	Engine Engine    `toml:"engine"`
	Output Output    `toml:"output"`
	Log    LogConfig `toml:"log"`

	// Path is the file the manifest was loaded from (set at load time).
	Path string `toml:"-"`
}

// Engine configures the VM.
type Engine struct {
	MaxStackDepth int  `toml:"max-stack-depth"`
	StepLimit     int  `toml:"step-limit"`
	Trace         bool `toml:"trace"`
}

// Output configures how run results are reported.
type Output struct {
	Format string `toml:"format"`
	Stream *bool  `toml:"stream"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no stackvm.toml exists.
func Default() *Manifest {
	m := &Manifest{}
	m.applyDefaults()
	return m
}

// Load parses a stackvm.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a stackvm.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Write encodes the manifest as TOML to path.
func (m *Manifest) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges and the output format.
func (m *Manifest) Validate() error {
	if m.Engine.MaxStackDepth < 0 {
		return fmt.Errorf("engine.max-stack-depth must be >= 0, got %d", m.Engine.MaxStackDepth)
	}
	if m.Engine.StepLimit < 0 {
		return fmt.Errorf("engine.step-limit must be >= 0, got %d", m.Engine.StepLimit)
	}
	switch m.Output.Format {
	case FormatText, FormatYAML, FormatCBOR:
	default:
		return fmt.Errorf("output.format %q is not one of text, yaml, cbor", m.Output.Format)
	}
	return nil
}

// StreamOutput reports whether emitted values are printed as they happen.
func (m *Manifest) StreamOutput() bool {
	return m.Output.Stream == nil || *m.Output.Stream
}

// EngineOptions translates the engine section into VM options.
func (m *Manifest) EngineOptions() []bytecode.Option {
	var opts []bytecode.Option
	if m.Engine.MaxStackDepth > 0 {
		opts = append(opts, bytecode.WithMaxStackDepth(m.Engine.MaxStackDepth))
	}
	if m.Engine.StepLimit > 0 {
		opts = append(opts, bytecode.WithStepLimit(m.Engine.StepLimit))
	}
	return opts
}

func (m *Manifest) applyDefaults() {
	if m.Output.Format == "" {
		m.Output.Format = FormatText
	}
}

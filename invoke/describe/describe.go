// Package describe renders engine outputs as YAML, for inspecting what a
// printer would be given.
package describe

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/teranos/invokegen/errors"
	"github.com/teranos/invokegen/invoke"
)

// document is the top-level YAML layout for one package.
type document struct {
	Package string           `yaml:"package"`
	Path    string           `yaml:"path,omitempty"`
	Seq     bool             `yaml:"seq"`
	Groups  []*invoke.Output `yaml:"groups"`
}

// Printer implements invoke.Printer for YAML
type Printer struct{}

// NewPrinter creates a describe printer
func NewPrinter() *Printer {
	return &Printer{}
}

// Language returns "yaml"
func (p *Printer) Language() string {
	return "yaml"
}

// Print renders pkg as one YAML document.
func (p *Printer) Print(pkg *invoke.PackageOutput) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# invokegen output description\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	doc := document{
		Package: pkg.Name,
		Path:    pkg.Path,
		Seq:     pkg.Seq,
		Groups:  pkg.Outputs,
	}
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrapf(err, "failed to encode description of %s", pkg.Name)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to flush YAML encoder")
	}
	return buf.Bytes(), nil
}

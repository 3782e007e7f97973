// Package metadata holds the read-only command and parameter model consumed
// by the argument parser. Instances are built once at load time (normally by
// the manifest loader) and never mutated afterwards.
package metadata

import (
	"fmt"
	"reflect"
)

// Parameter describes a single declared parameter of a command.
type Parameter struct {
	Name        string
	Description string

	// Type is the declared Go type of the parameter's value. For variadic
	// parameters this is the slice type that collects the trailing tokens.
	Type reflect.Type

	// Variadic marks a parameter that collects all remaining tokens.
	Variadic bool

	hasDefault   bool
	defaultValue any
}

// NewParameter builds a required parameter without a default value.
func NewParameter(name string, typ reflect.Type) *Parameter {
	if typ == nil {
		panic(fmt.Sprintf("metadata: parameter %q declared with nil type", name))
	}
	return &Parameter{Name: name, Type: typ}
}

// WithDefault attaches a default value and returns the parameter. The value
// must already be of the parameter's declared type.
func (p *Parameter) WithDefault(value any) *Parameter {
	if value != nil && reflect.TypeOf(value) != p.Type {
		panic(fmt.Sprintf("metadata: default for parameter %q is %T, declared type is %s",
			p.Name, value, p.Type))
	}
	p.hasDefault = true
	p.defaultValue = value
	return p
}

// Default returns the parameter's default value and whether one is present.
func (p *Parameter) Default() (any, bool) {
	return p.defaultValue, p.hasDefault
}

// Command is an ordered sequence of parameter declarations under a name.
type Command struct {
	Name        string
	Description string
	Parameters  []*Parameter
}

// Parameter returns the named parameter declaration, if any.
func (c *Command) Parameter(name string) (*Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Model is the full set of commands loaded from manifests, keyed by name.
type Model struct {
	commands map[string]*Command
	order    []string
}

// NewModel creates an empty command model.
func NewModel() *Model {
	return &Model{commands: make(map[string]*Command)}
}

// Add inserts a command definition. Duplicate names are a manifest authoring
// error and are rejected.
func (m *Model) Add(cmd *Command) error {
	if _, exists := m.commands[cmd.Name]; exists {
		return fmt.Errorf("command %q defined more than once", cmd.Name)
	}
	m.commands[cmd.Name] = cmd
	m.order = append(m.order, cmd.Name)
	return nil
}

// Lookup returns the named command definition, if any.
func (m *Model) Lookup(name string) (*Command, bool) {
	cmd, ok := m.commands[name]
	return cmd, ok
}

// Names returns command names in manifest declaration order.
func (m *Model) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of loaded commands.
func (m *Model) Len() int {
	return len(m.commands)
}

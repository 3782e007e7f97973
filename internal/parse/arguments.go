package parse

import (
	"github.com/selfdocumentingcode/cmdargs/internal/metadata"
)

// Argument pairs a parameter declaration with its parsed value.
type Argument struct {
	Parameter *metadata.Parameter
	Value     any
}

// Arguments is the ordered parameter-to-value mapping a successful parse
// produces. Order follows parameter declaration order.
type Arguments struct {
	byName map[string]int
	list   []Argument
}

func newArguments() *Arguments {
	return &Arguments{byName: make(map[string]int)}
}

func (a *Arguments) set(p *metadata.Parameter, value any) {
	if i, ok := a.byName[p.Name]; ok {
		a.list[i].Value = value
		return
	}
	a.byName[p.Name] = len(a.list)
	a.list = append(a.list, Argument{Parameter: p, Value: value})
}

func (a *Arguments) has(p *metadata.Parameter) bool {
	_, ok := a.byName[p.Name]
	return ok
}

// Get returns the value parsed for the named parameter.
func (a *Arguments) Get(name string) (any, bool) {
	i, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	return a.list[i].Value, true
}

// Ordered returns all arguments in parameter declaration order.
func (a *Arguments) Ordered() []Argument {
	out := make([]Argument, len(a.list))
	copy(out, a.list)
	return out
}

// Len returns the number of populated parameters.
func (a *Arguments) Len() int {
	return len(a.list)
}

package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// ParameterBlock is a single `parameter` block inside a command manifest.
type ParameterBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
	Variadic    bool           `hcl:"variadic,optional"`
}

// CommandBlock is a `command` block declaring an ordered parameter sequence.
type CommandBlock struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Parameters  []*ParameterBlock `hcl:"parameter,block"`
}

// File is the top-level structure of a command manifest file.
type File struct {
	Commands []*CommandBlock `hcl:"command,block"`
}

// Package manifest loads command declarations from HCL manifest files into
// the read-only metadata model the parser consumes. Manifest problems are
// startup configuration errors: the loader fails the whole load rather than
// skipping a malformed command.
package manifest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
	"github.com/selfdocumentingcode/cmdargs/internal/fsutil"
	"github.com/selfdocumentingcode/cmdargs/internal/metadata"
)

// Loader parses command manifests. Hosts register their own named types
// (typically enums) before loading so manifests can declare parameters of
// those types.
type Loader struct {
	named map[string]reflect.Type
}

// NewLoader creates a manifest loader with no named types registered.
func NewLoader() *Loader {
	return &Loader{named: make(map[string]reflect.Type)}
}

// RegisterType makes a Go type usable in manifests under the given keyword.
func (l *Loader) RegisterType(name string, t reflect.Type) {
	if name == "" || t == nil {
		panic("manifest: RegisterType requires a name and a type")
	}
	if _, exists := primitiveTypes[name]; exists {
		panic(fmt.Sprintf("manifest: type name %q shadows a built-in type", name))
	}
	l.named[name] = t
}

// Load discovers every .hcl file under the given paths and merges their
// command blocks into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*metadata.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := metadata.NewModel()
	parser := hclparse.NewParser()

	for _, path := range paths {
		filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("walking manifest path %s: %w", path, err)
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl manifest files found in path.", "path", path)
			continue
		}

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, fmt.Errorf("parsing manifest %s: %w", filePath, diags)
			}

			var file File
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
				return nil, fmt.Errorf("decoding manifest %s: %w", filePath, diags)
			}

			for _, block := range file.Commands {
				cmd, err := l.buildCommand(block)
				if err != nil {
					return nil, fmt.Errorf("in manifest %s: command %q: %w", filePath, block.Name, err)
				}
				if err := model.Add(cmd); err != nil {
					return nil, fmt.Errorf("in manifest %s: %w", filePath, err)
				}
			}
			logger.Debug("Loaded command manifest.", "file", filePath, "commands", len(file.Commands))
		}
	}

	logger.Info("Command manifests loaded.", "commands", model.Len())
	return model, nil
}

// buildCommand translates one command block into its metadata form,
// enforcing the declaration rules the parser depends on: a variadic
// parameter is last, list-typed, and has no default; a list type appears
// only on a variadic parameter; no required parameter follows a defaulted
// one.
func (l *Loader) buildCommand(block *CommandBlock) (*metadata.Command, error) {
	cmd := &metadata.Command{Name: block.Name, Description: block.Description}
	seenDefault := false

	for i, pb := range block.Parameters {
		typ, err := l.typeExprToGoType(pb.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", pb.Name, err)
		}

		if pb.Variadic {
			if typ.Kind() != reflect.Slice {
				return nil, fmt.Errorf("variadic parameter %q must have a list type", pb.Name)
			}
			if !scalarType(typ.Elem()) {
				return nil, fmt.Errorf("variadic parameter %q must collect a scalar element type", pb.Name)
			}
			if i != len(block.Parameters)-1 {
				return nil, fmt.Errorf("variadic parameter %q must be the last parameter", pb.Name)
			}
			if pb.Default != nil {
				return nil, fmt.Errorf("variadic parameter %q may not declare a default; omitted tokens yield an empty list", pb.Name)
			}
		} else if !scalarType(typ) {
			// A list type only makes sense as a variadic collection target;
			// letting it through would hand the parser a parameter no single
			// token conversion can satisfy.
			return nil, fmt.Errorf("list-typed parameter %q must be variadic", pb.Name)
		}

		param := metadata.NewParameter(pb.Name, typ)
		param.Description = pb.Description
		param.Variadic = pb.Variadic

		if pb.Default != nil {
			value, err := defaultFromCty(*pb.Default, typ)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", pb.Name, err)
			}
			param.WithDefault(value)
			seenDefault = true
		} else if seenDefault && !pb.Variadic {
			return nil, fmt.Errorf("required parameter %q may not follow a parameter with a default", pb.Name)
		}

		if _, exists := cmd.Parameter(pb.Name); exists {
			return nil, fmt.Errorf("parameter %q declared more than once", pb.Name)
		}
		cmd.Parameters = append(cmd.Parameters, param)
	}

	return cmd, nil
}

// scalarType reports whether t is satisfiable by a single token conversion:
// any optional (pointer) wrapping over a non-list type.
func scalarType(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() != reflect.Slice
}

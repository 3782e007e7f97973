// This file parses manifest type expressions (e.g. `string`, `list(number)`,
// `optional(int)`) into the Go types the converter registry is keyed by.

package manifest

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

var primitiveTypes = map[string]reflect.Type{
	"string":   reflect.TypeOf(""),
	"number":   reflect.TypeOf(float64(0)),
	"int":      reflect.TypeOf(int(0)),
	"bool":     reflect.TypeOf(false),
	"duration": reflect.TypeOf(time.Duration(0)),
}

// typeExprToGoType converts a manifest type expression into the declared Go
// type, consulting the loader's named-type table for host-registered types
// such as enums.
func (l *Loader) typeExprToGoType(expr hcl.Expression) (reflect.Type, error) {
	if expr == nil {
		return nil, fmt.Errorf("missing type expression")
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if len(v.Args) != 1 {
			return nil, fmt.Errorf("type constructor %s requires exactly one argument, got %d", v.Name, len(v.Args))
		}
		elem, err := l.typeExprToGoType(v.Args[0])
		if err != nil {
			return nil, err
		}
		switch v.Name {
		case "list":
			return reflect.SliceOf(elem), nil
		case "optional":
			return reflect.PointerTo(elem), nil
		default:
			return nil, fmt.Errorf("unknown type constructor %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		name := v.Traversal.RootName()
		if t, ok := primitiveTypes[name]; ok {
			return t, nil
		}
		if t, ok := l.named[name]; ok {
			return t, nil
		}
		return nil, fmt.Errorf("unknown type %q", name)

	default:
		return nil, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

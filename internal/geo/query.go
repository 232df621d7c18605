package geo

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/paulmach/orb/geojson"
)

// Attribute queries are CEL expressions evaluated row-wise over feature
// properties. Each property name whose spelling is a legal identifier is
// declared as a variable of dynamic type, so the query surface is exactly the
// collection's schema plus CEL's literals and operators: comparisons, boolean
// combinators, and membership tests ("name in ['a', 'b']"). Nothing else is
// in scope; the host environment is never reachable from a query.

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// celReserved lists names CEL refuses as variable declarations.
var celReserved = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "else": true,
	"false": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "let": true, "loop": true, "package": true, "namespace": true,
	"null": true, "return": true, "true": true, "var": true, "void": true,
	"while": true,
}

// Query evaluates a boolean attribute expression against every feature and
// returns the subsequence for which it holds, preserving order.
//
// A malformed expression, a reference to a property no feature has, or an
// expression that is not boolean fails with ErrQuery carrying the compiler's
// message. A query matching zero features is a success with an empty result.
// A feature whose property is null (or absent) where the expression needs a
// comparable value simply does not match; it does not fail the query.
func (c *Collection) Query(expr string) (*Collection, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrQuery)
	}

	names := c.propertyIdentifiers()
	opts := make([]cel.EnvOption, 0, len(names)+1)
	opts = append(opts, cel.CrossTypeNumericComparisons(true))
	for _, name := range names {
		opts = append(opts, cel.Variable(name, cel.DynType))
	}

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: expression yields %s, want bool", ErrQuery, out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}

	var matched []*geojson.Feature
	for _, f := range c.features {
		if evalPredicate(prg, names, f.Properties) {
			matched = append(matched, f)
		}
	}
	return &Collection{features: matched, crs: c.crs}, nil
}

// evalPredicate runs the compiled program against one feature's properties.
// Runtime errors (e.g. comparing null against a number) count as no-match,
// mirroring how null attribute values behave in relational filters.
func evalPredicate(prg cel.Program, names []string, props geojson.Properties) bool {
	activation := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := props[name]; ok {
			activation[name] = v
		} else {
			activation[name] = nil
		}
	}

	out, _, err := prg.Eval(activation)
	if err != nil {
		return false
	}
	return out == types.True
}

// propertyIdentifiers returns the declarable property names observed across
// all features, sorted for deterministic environments.
func (c *Collection) propertyIdentifiers() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range c.features {
		for name := range f.Properties {
			if seen[name] {
				continue
			}
			seen[name] = true
			if identifierPattern.MatchString(name) && !celReserved[name] {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

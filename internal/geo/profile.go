package geo

import (
	"math"
	"reflect"
	"sort"
)

// Profile summarizes the attribute schema of a collection: per property, the
// observed value types, a few example values, and how many features carry a
// non-null value.
type Profile struct {
	FeatureCount int                         `json:"feature_count"`
	Attributes   map[string]AttributeProfile `json:"attributes"`
}

// AttributeProfile describes a single property across the collection.
// Types are sorted tags ("null" marks missing or null values); Examples holds
// up to five distinct non-null values in first-seen order.
type AttributeProfile struct {
	Types        []string `json:"types"`
	Examples     []any    `json:"examples"`
	CountNonNull int      `json:"count_non_null"`
}

const maxExamples = 5

// Profile scans every feature once and accumulates the attribute profile.
// A zero-feature collection yields feature_count 0 and no attributes.
func (c *Collection) Profile() Profile {
	type accumulator struct {
		types    map[string]bool
		examples []any
		nonNull  int
	}

	accs := make(map[string]*accumulator)
	for _, f := range c.features {
		for name, v := range f.Properties {
			acc, ok := accs[name]
			if !ok {
				acc = &accumulator{types: make(map[string]bool)}
				accs[name] = acc
			}

			if v == nil {
				acc.types["null"] = true
				continue
			}
			acc.types[typeTag(v)] = true
			acc.nonNull++
			if len(acc.examples) < maxExamples && !containsValue(acc.examples, v) {
				acc.examples = append(acc.examples, v)
			}
		}
	}

	attributes := make(map[string]AttributeProfile, len(accs))
	for name, acc := range accs {
		tags := make([]string, 0, len(acc.types))
		for tag := range acc.types {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		examples := acc.examples
		if examples == nil {
			examples = []any{}
		}
		attributes[name] = AttributeProfile{
			Types:        tags,
			Examples:     examples,
			CountNonNull: acc.nonNull,
		}
	}

	return Profile{FeatureCount: len(c.features), Attributes: attributes}
}

// typeTag classifies a property value. JSON decoding yields float64 for every
// number, so whole values are reported as "int" to keep the schema honest
// about columns that are integral in the source data.
func typeTag(v any) string {
	switch t := v.(type) {
	case bool:
		return "bool"
	case string:
		return "str"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) && !math.IsNaN(t) {
			return "int"
		}
		return "float"
	case float32:
		return typeTag(float64(t))
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	default:
		switch reflect.ValueOf(v).Kind() {
		case reflect.Slice, reflect.Array:
			return "list"
		case reflect.Map:
			return "dict"
		}
		return reflect.TypeOf(v).String()
	}
}

func containsValue(values []any, v any) bool {
	for _, e := range values {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

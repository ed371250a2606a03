package routine

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validate checks that doc is a list of exercise steps and normalizes each
// step's length to whole seconds, rounding up. The first violation aborts
// validation with a *ValidationError; there is no partial result.
//
// Steps whose length rounds to zero are accepted and reported as warnings.
func Validate(doc *Document) (*Routine, []Warning, error) {
	root := doc.Root()
	if root == nil || root.Kind != yaml.SequenceNode {
		return nil, nil, &ValidationError{Kind: RootNotSequence}
	}

	r := &Routine{Exercises: make([]ExerciseStep, 0, len(root.Content))}
	var warnings []Warning
	total := 0

	for i, item := range root.Content {
		step, err := validateStep(resolve(item), i)
		if err != nil {
			return nil, nil, err
		}
		if step.Length > math.MaxInt-total {
			return nil, nil, &ValidationError{Kind: InvalidLength, Index: i, Name: step.Name, Value: strconv.Itoa(step.Length)}
		}
		total += step.Length
		if step.Length == 0 {
			warnings = append(warnings, Warning{Index: i, Name: step.Name, Message: "zero duration after rounding"})
		}
		r.Exercises = append(r.Exercises, step)
	}

	return r, warnings, nil
}

func validateStep(m *yaml.Node, i int) (ExerciseStep, error) {
	if m == nil || m.Kind != yaml.MappingNode {
		return ExerciseStep{}, &ValidationError{Kind: StepNotMapping, Index: i}
	}

	es := entries(m)
	nameNode, ok := lookup(es, "name")
	if !ok || isNull(nameNode) || nameNode.Kind != yaml.ScalarNode || nameNode.Value == "" || isFalsy(nameNode) {
		return ExerciseStep{}, &ValidationError{Kind: MissingOrEmptyName, Index: i}
	}
	name := nameNode.Value

	lengthNode, ok := lookup(es, "length")
	if !ok {
		return ExerciseStep{}, &ValidationError{Kind: MissingLength, Index: i, Name: name}
	}
	raw, ok := toFloat(lengthNode)
	if !ok {
		return ExerciseStep{}, &ValidationError{Kind: InvalidLength, Index: i, Name: name, Value: nodeText(lengthNode)}
	}
	if raw < 0 {
		return ExerciseStep{}, &ValidationError{Kind: NegativeLength, Index: i, Name: name, Value: nodeText(lengthNode)}
	}
	length, ok := ceilSeconds(raw)
	if !ok {
		return ExerciseStep{}, &ValidationError{Kind: InvalidLength, Index: i, Name: name, Value: nodeText(lengthNode)}
	}

	return ExerciseStep{Name: name, Length: length, Extra: extraFields(es)}, nil
}

// isFalsy reports whether a scalar is false or numerically zero. Such
// values are not accepted as names even though they render as text.
func isFalsy(n *yaml.Node) bool {
	switch n.ShortTag() {
	case "!!bool":
		var b bool
		return n.Decode(&b) == nil && !b
	case "!!int", "!!float":
		var f float64
		return n.Decode(&f) == nil && f == 0
	}
	return false
}

// toFloat converts a length value the way a lenient numeric cast would:
// YAML ints and floats, numeric strings and booleans convert; nulls,
// collections, timestamps and non-finite values do not.
func toFloat(n *yaml.Node) (float64, bool) {
	if n == nil || n.Kind != yaml.ScalarNode {
		return 0, false
	}

	var f float64
	switch n.ShortTag() {
	case "!!int", "!!float":
		if err := n.Decode(&f); err != nil {
			return 0, false
		}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return 0, false
		}
		if b {
			f = 1
		}
	case "!!str":
		v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ceilSeconds rounds f up to a whole number of seconds. It fails when the
// result does not fit in an int.
func ceilSeconds(f float64) (int, bool) {
	c := math.Ceil(f)
	if c >= float64(math.MaxInt) {
		return 0, false
	}
	return int(c), true
}

// extraFields collects every entry other than name and length.
func extraFields(es []entry) []Field {
	var fields []Field
	for _, e := range es {
		if e.key == "name" || e.key == "length" {
			continue
		}
		fields = append(fields, Field{Key: e.key, Value: e.value})
	}
	return fields
}

func nodeText(n *yaml.Node) string {
	if n == nil {
		return "null"
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return kindName(n)
}

package routine

import "fmt"

// LoadErrorKind classifies why a routine file could not be loaded.
type LoadErrorKind int

const (
	InvalidName LoadErrorKind = iota + 1
	UnsupportedType
	NotFound
	SyntaxError
)

func (k LoadErrorKind) String() string {
	switch k {
	case InvalidName:
		return "invalid name"
	case UnsupportedType:
		return "unsupported type"
	case NotFound:
		return "not found"
	case SyntaxError:
		return "syntax error"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

// LoadError is returned by Store.Load for expected failures: a bad name, a
// disallowed extension, a missing file, or bytes that are not YAML.
type LoadError struct {
	Kind LoadErrorKind
	Name string
	Err  error // parser diagnostic for SyntaxError, open error for NotFound
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routine %q: %s: %v", e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("routine %q: %s", e.Name, e.Kind)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ValidationErrorKind classifies a schema violation in a routine document.
type ValidationErrorKind int

const (
	RootNotSequence ValidationErrorKind = iota + 1
	StepNotMapping
	MissingOrEmptyName
	MissingLength
	InvalidLength
	NegativeLength
)

func (k ValidationErrorKind) String() string {
	switch k {
	case RootNotSequence:
		return "root not sequence"
	case StepNotMapping:
		return "step not mapping"
	case MissingOrEmptyName:
		return "missing or empty name"
	case MissingLength:
		return "missing length"
	case InvalidLength:
		return "invalid length"
	case NegativeLength:
		return "negative length"
	default:
		return fmt.Sprintf("ValidationErrorKind(%d)", int(k))
	}
}

// ValidationError reports the first schema violation found in a document.
// Index is the zero-based step position and Name the step name, when known.
type ValidationError struct {
	Kind  ValidationErrorKind
	Index int
	Name  string
	Value string // raw length text for InvalidLength and NegativeLength
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case RootNotSequence:
		return "routine root must be a list of exercises"
	case StepNotMapping:
		return fmt.Sprintf("exercise at index %d is not a mapping", e.Index)
	case MissingOrEmptyName:
		return fmt.Sprintf("exercise at index %d is missing 'name' or name is empty", e.Index)
	case MissingLength:
		return fmt.Sprintf("exercise %q (index %d) is missing 'length'", e.Name, e.Index)
	case InvalidLength:
		return fmt.Sprintf("invalid length value for exercise %q (index %d): %q", e.Name, e.Index, e.Value)
	case NegativeLength:
		return fmt.Sprintf("exercise %q (index %d) has negative length: %s", e.Name, e.Index, e.Value)
	default:
		return fmt.Sprintf("exercise at index %d: %s", e.Index, e.Kind)
	}
}

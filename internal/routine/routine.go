// Package routine loads, validates and normalizes workout routine files.
package routine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Field is a step attribute other than name and length, kept as written.
type Field struct {
	Key   string
	Value *yaml.Node
}

// ExerciseStep is one validated entry of a routine. Length is in whole
// seconds. Extra holds every other key of the source mapping, in document
// order.
type ExerciseStep struct {
	Name   string
	Length int
	Extra  []Field
}

// MarshalJSON encodes the step as {"name":...,"length":...,<extra>...}.
func (s ExerciseStep) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeString(&buf, s.Name)
	buf.WriteString(`,"length":`)
	buf.WriteString(strconv.Itoa(s.Length))
	for _, f := range s.Extra {
		buf.WriteByte(',')
		writeString(&buf, f.Key)
		buf.WriteByte(':')
		if err := appendNodeJSON(&buf, f.Value, 1); err != nil {
			return nil, fmt.Errorf("encoding field %q of %q: %w", f.Key, s.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a step produced by MarshalJSON, keeping unknown keys
// in wire order.
func (s *ExerciseStep) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := nodeFromJSON(dec, 0)
	if err != nil {
		return fmt.Errorf("decoding exercise step: %w", err)
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("decoding exercise step: expected object, got %s", kindName(n))
	}

	step := ExerciseStep{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "name":
			step.Name = val.Value
		case "length":
			l, err := strconv.Atoi(val.Value)
			if err != nil {
				return fmt.Errorf("decoding exercise step %q: length %q is not an integer", step.Name, val.Value)
			}
			step.Length = l
		default:
			step.Extra = append(step.Extra, Field{Key: key, Value: val})
		}
	}
	*s = step
	return nil
}

// Routine is a fully validated routine: its steps in playback order.
type Routine struct {
	Filename  string
	Exercises []ExerciseStep
}

// TotalDuration returns the sum of all step lengths in seconds.
func (r *Routine) TotalDuration() int {
	total := 0
	for _, s := range r.Exercises {
		total += s.Length
	}
	return total
}

type routineJSON struct {
	Filename      string         `json:"filename"`
	Exercises     []ExerciseStep `json:"exercises"`
	TotalDuration int            `json:"total_duration"`
}

// MarshalJSON encodes the routine in the shape served to the timer page.
func (r *Routine) MarshalJSON() ([]byte, error) {
	ex := r.Exercises
	if ex == nil {
		ex = []ExerciseStep{}
	}
	return json.Marshal(routineJSON{
		Filename:      r.Filename,
		Exercises:     ex,
		TotalDuration: r.TotalDuration(),
	})
}

// UnmarshalJSON decodes a routine. total_duration is ignored since it is
// always derived from the steps.
func (r *Routine) UnmarshalJSON(data []byte) error {
	var v routineJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.Filename = v.Filename
	r.Exercises = v.Exercises
	if r.Exercises == nil {
		r.Exercises = []ExerciseStep{}
	}
	return nil
}

// Warning is a non-fatal observation made during validation.
type Warning struct {
	Index   int
	Name    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("exercise %q (index %d): %s", w.Name, w.Index, w.Message)
}

// FormatSeconds renders whole seconds as a clock, e.g. "00:45" or "1:02:03".
func FormatSeconds(seconds int) string {
	h, m, sec := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

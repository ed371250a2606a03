package routine

import (
	"encoding/json"
	"testing"
)

// TestSecureFilename mirrors the sanitizing applied to uploaded filenames.
func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"legs.yaml", "legs.yaml"},
		{"My Routine.yml", "My_Routine.yml"},
		{"  spaced   out .yaml ", "spaced_out_.yaml"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\core.yaml`, "C_Users_me_core.yaml"},
		{"Übungen.yaml", "Ubungen.yaml"},
		{"crème brûlée.yaml", "creme_brulee.yaml"},
		{"what?*<>|.yaml", "what.yaml"},
		{".hidden.yaml", "hidden.yaml"},
		{"___", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SecureFilename(tt.in); got != tt.want {
			t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestHasAllowedExtension checks the routine extension filter.
func TestHasAllowedExtension(t *testing.T) {
	tests := map[string]bool{
		"a.yaml":     true,
		"a.yml":      true,
		"a.YAML":     true,
		"a.yaml.bak": false,
		"yaml":       false,
		"a.json":     false,
	}
	for name, want := range tests {
		if got := HasAllowedExtension(name); got != want {
			t.Errorf("HasAllowedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}

// TestRoutineJSONDecode decodes the data endpoint's response shape back into
// a Routine, keeping passthrough fields in order and ignoring the derived
// total.
func TestRoutineJSONDecode(t *testing.T) {
	body := `{
		"filename": "core.yaml",
		"exercises": [
			{"name": "Plank", "length": 60, "tip": "hips level", "sets": [1, 2.5, null]},
			{"name": "Rest", "length": 15}
		],
		"total_duration": 9999
	}`

	var r Routine
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.Filename != "core.yaml" {
		t.Errorf("filename = %q, want core.yaml", r.Filename)
	}
	if got := r.TotalDuration(); got != 75 {
		t.Errorf("TotalDuration() = %d, want 75", got)
	}
	if len(r.Exercises[0].Extra) != 2 || r.Exercises[0].Extra[0].Key != "tip" {
		t.Fatalf("extra = %+v, want tip then sets", r.Exercises[0].Extra)
	}

	out, err := json.Marshal(&r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"filename":"core.yaml","exercises":[{"name":"Plank","length":60,"tip":"hips level","sets":[1,2.5,null]},{"name":"Rest","length":15}],"total_duration":75}`
	if string(out) != want {
		t.Errorf("json =\n%s\nwant\n%s", out, want)
	}
}

// TestExerciseStepDecodeRejectsFractionalLength only accepts integer lengths
// on the wire.
func TestExerciseStepDecodeRejectsFractionalLength(t *testing.T) {
	var s ExerciseStep
	if err := json.Unmarshal([]byte(`{"name":"A","length":1.5}`), &s); err == nil {
		t.Error("expected error for fractional length")
	}
}

// TestEmptyRoutineJSON encodes a routine without steps as an empty array.
func TestEmptyRoutineJSON(t *testing.T) {
	out, err := json.Marshal(&Routine{Filename: "empty.yaml"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"filename":"empty.yaml","exercises":[],"total_duration":0}`; string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}

// TestFormatSeconds checks the clock format used by the index and CLI.
func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{45, "00:45"},
		{61, "01:01"},
		{3723, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.in); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

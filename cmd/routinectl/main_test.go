package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeRoutines(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"hiit.yml":  "- name: Jumping jacks\n  length: 30\n- name: Rest\n  length: 10.5\n- name: Burpees\n  length: 20\n  reps: 12\n",
		"bad.yaml":  "- name: Plank\n",
		"zero.yaml": "- name: Breathe\n  length: 0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestListCommand verifies the table and JSON listings.
func TestListCommand(t *testing.T) {
	dir := writeRoutines(t)

	out, _, err := runCLI(t, "--dir", dir, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"hiit.yml", "01:01", "bad.yaml", "invalid"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	out, _, err = runCLI(t, "--dir", dir, "list", "--json")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var entries []listEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 3 || entries[1].Filename != "hiit.yml" || entries[1].TotalDuration != 61 {
		t.Errorf("entries = %+v", entries)
	}
}

// TestListCommandRemote verifies --server lists the remote catalog.
func TestListCommandRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["remote.yaml"]`))
	}))
	defer ts.Close()

	out, _, err := runCLI(t, "list", "--server", ts.URL)
	if err != nil {
		t.Fatalf("list --server: %v", err)
	}
	if strings.TrimSpace(out) != "remote.yaml" {
		t.Errorf("output = %q", out)
	}
}

// TestShowCommand verifies steps, extras and the total are rendered.
func TestShowCommand(t *testing.T) {
	dir := writeRoutines(t)

	out, _, err := runCLI(t, "show", filepath.Join(dir, "hiit.yml"))
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Jumping jacks", "11", "reps=12", "01:01"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := runCLI(t, "--dir", dir, "show", "bad.yaml"); err == nil {
		t.Error("show of an invalid routine should fail")
	}
}

// TestCheckCommand verifies failures are counted and warnings printed.
func TestCheckCommand(t *testing.T) {
	dir := writeRoutines(t)

	out, _, err := runCLI(t, "--dir", dir, "check", "hiit.yml", "zero.yaml")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "zero duration") {
		t.Errorf("check output missing warning:\n%s", out)
	}

	out, _, err = runCLI(t, "--dir", dir, "check", "hiit.yml", "bad.yaml", "missing.yaml")
	if err == nil || !strings.Contains(err.Error(), "2 of 3") {
		t.Errorf("err = %v, want 2 of 3 failures", err)
	}
	if !strings.Contains(out, "missing 'length'") {
		t.Errorf("check output missing validation error:\n%s", out)
	}
}

// TestPushDryRun verifies a dry run reports what would be sent without
// contacting the server.
func TestPushDryRun(t *testing.T) {
	dir := writeRoutines(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer ts.Close()

	out, _, err := runCLI(t, "--dir", dir, "push", "--server", ts.URL, "--state-dir", t.TempDir(), "--dry-run")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if !strings.Contains(out, "3 routines: 2 would upload, 0 unchanged, 1 invalid, 0 failed") {
		t.Errorf("output = %q", out)
	}
}

// TestPushRequiresServer verifies push fails fast without a server URL.
func TestPushRequiresServer(t *testing.T) {
	t.Setenv("ROUTINETIMER_SERVER", "")
	if _, _, err := runCLI(t, "push"); err == nil || !strings.Contains(err.Error(), "--server") {
		t.Errorf("err = %v", err)
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI(t *testing.T) {
	root := t.TempDir()
	common := []string{"--root", root, "--capacity", "2", "--log-level", "error"}

	out, err := execute(append([]string{"add"}, append(common, "a", "b", "c")...)...)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if lines := strings.Fields(out); len(lines) != 3 || lines[2] != filepath.Join(root, "c") {
		t.Errorf("unexpected add output %q", out)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Errorf("a should have been evicted, got %v", err)
	}

	out, err = execute(append([]string{"get"}, append(common, "b")...)...)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(root, "b") {
		t.Errorf("unexpected get output %q", out)
	}

	if _, err := execute(append([]string{"get"}, append(common, "a")...)...); err == nil {
		t.Error("get of an evicted directory should fail")
	}

	out, err = execute(append([]string{"ensure"}, append(common, "b", "d")...)...)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if !strings.Contains(out, filepath.Join(root, "d")) {
		t.Errorf("unexpected ensure output %q", out)
	}

	out, err = execute(append([]string{"ls"}, common...)...)
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	if !strings.Contains(out, "total") || strings.Contains(out, filepath.Join(root, "c")) {
		t.Errorf("unexpected ls output %q", out)
	}

	if _, err := execute(append([]string{"clear"}, common...)...); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty root after clear, got %d entries", len(entries))
	}
}

func TestWatch_InvalidInterval(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	_, err := execute("watch", "--root", root, "--log-level", "error", "--interval", "0")
	if err == nil || !strings.Contains(err.Error(), "invalid interval") {
		t.Fatalf("expected an invalid interval error, got %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("cache root should not be created, got %v", err)
	}
}

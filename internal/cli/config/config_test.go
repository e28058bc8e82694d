package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.OutputDir != "build" {
		t.Errorf("expected default output_dir 'build', got %s", cfg.OutputDir)
	}
	if cfg.StdlibPath != "std/lib.cpp" {
		t.Errorf("expected default stdlib_path 'std/lib.cpp', got %s", cfg.StdlibPath)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
output_dir: out
stdlib_path: vendor/std/lib.cpp
compiler: clang++
`
	os.WriteFile("pulse.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.OutputDir != "out" {
		t.Errorf("expected output_dir 'out', got %s", cfg.OutputDir)
	}
	if cfg.Compiler != "clang++" {
		t.Errorf("expected compiler 'clang++', got %s", cfg.Compiler)
	}
}

func TestStdlibDir(t *testing.T) {
	cfg := &Config{StdlibPath: "std/lib.cpp"}
	if got := cfg.StdlibDir(); got != "std" {
		t.Errorf("expected stdlib dir 'std', got %s", got)
	}
}

func TestInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if InProject() {
		t.Error("expected InProject to return false outside a project")
	}

	os.WriteFile("pulse.yml", []byte(""), 0644)

	if !InProject() {
		t.Error("expected InProject to return true once pulse.yml exists")
	}
}

func TestGetProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	os.WriteFile(filepath.Join(tmpDir, "pulse.yml"), []byte(""), 0644)

	subDir := filepath.Join(tmpDir, "src", "deep", "nested")
	os.MkdirAll(subDir, 0755)
	os.Chdir(subDir)

	root, err := GetProjectRoot()
	if err != nil {
		t.Fatalf("expected to find project root, got error: %v", err)
	}

	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)

	if resolvedRoot != resolvedTmpDir {
		t.Errorf("expected project root %s, got %s", resolvedTmpDir, resolvedRoot)
	}
}

func TestGetProjectRootNotInProject(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if _, err := GetProjectRoot(); err == nil {
		t.Error("expected error when not in a project")
	}
}

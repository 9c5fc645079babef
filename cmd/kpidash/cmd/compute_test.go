package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseAsOf(t *testing.T) {
	parsed, err := parseAsOf("2026-06-30")
	if err != nil {
		t.Fatalf("Expected valid date, got error: %v", err)
	}
	if parsed.Year() != 2026 || parsed.Month() != 6 || parsed.Day() != 30 {
		t.Errorf("Unexpected parsed date: %s", parsed)
	}

	invalid := []string{"30/06/2026", "2026-13-01", "yesterday", ""}
	for _, value := range invalid {
		if _, err := parseAsOf(value); err == nil {
			t.Errorf("Expected error for %q", value)
		}
	}
}

func TestValidateFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loans.csv")
	if err := os.WriteFile(path, []byte("loan_id\n"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	if err := validateFileExists(path, "loan tape file"); err != nil {
		t.Errorf("Expected existing file to pass, got %v", err)
	}

	if err := validateFileExists("", "loan tape file"); err == nil {
		t.Error("Expected error for empty path")
	}

	if err := validateFileExists(filepath.Join(dir, "missing.csv"), "loan tape file"); err == nil {
		t.Error("Expected error for missing file")
	}

	if err := validateFileExists(dir, "loan tape file"); err == nil {
		t.Error("Expected error for directory path")
	}
}

func TestNewCLIErrorHandler(t *testing.T) {
	handler := NewCLIErrorHandler()

	if code := handler.HandleError(nil); code != 0 {
		t.Errorf("Expected exit code 0 for nil error, got %d", code)
	}
}

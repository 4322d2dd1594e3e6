package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discripper/internal/deps"
)

func TestCheckOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	result := CheckOutputDirectory(dir)
	if !result.Passed {
		t.Fatalf("check failed: %s", result.Detail)
	}

	missing := CheckOutputDirectory(filepath.Join(dir, "absent"))
	if missing.Passed || !strings.Contains(missing.Detail, "does not exist") {
		t.Fatalf("missing dir result = %+v", missing)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	notDir := CheckOutputDirectory(file)
	if notDir.Passed || !strings.Contains(notDir.Detail, "is not a directory") {
		t.Fatalf("file result = %+v", notDir)
	}
}

func TestCheckDeviceAcceptsRegularFile(t *testing.T) {
	dir := t.TempDir()
	device := filepath.Join(dir, "disc.iso")
	if err := os.WriteFile(device, []byte("image"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDevice(device)
	if !result.Passed {
		t.Fatalf("check failed: %s", result.Detail)
	}
}

func TestCheckDeviceMissing(t *testing.T) {
	result := CheckDevice(filepath.Join(t.TempDir(), "sr9"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("result = %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	ok := checkFreeSpace("/out", func(string) (uint64, error) { return 20 << 30, nil })
	if !ok.Passed {
		t.Fatalf("result = %+v", ok)
	}

	low := checkFreeSpace("/out", func(string) (uint64, error) { return 1 << 30, nil })
	if low.Passed || !strings.Contains(low.Detail, "need") {
		t.Fatalf("result = %+v", low)
	}

	broken := checkFreeSpace("/out", func(string) (uint64, error) { return 0, errors.New("nope") })
	if broken.Passed {
		t.Fatalf("result = %+v", broken)
	}
}

func TestToolResultOptional(t *testing.T) {
	required := toolResult(deps.Status{Name: "lsdvd", Detail: "binary not found"})
	if required.Passed {
		t.Fatal("missing required tool must fail")
	}
	optional := toolResult(deps.Status{Name: "ffmpeg", Optional: true, Detail: "binary not found"})
	if !optional.Passed || !strings.Contains(optional.Detail, "optional") {
		t.Fatalf("result = %+v", optional)
	}
}

func TestAllPassed(t *testing.T) {
	if !AllPassed([]Result{{Passed: true}, {Passed: true}}) {
		t.Fatal("expected pass")
	}
	if AllPassed([]Result{{Passed: true}, {Passed: false}}) {
		t.Fatal("expected failure")
	}
	if !AllPassed(nil) {
		t.Fatal("empty result set passes")
	}
}

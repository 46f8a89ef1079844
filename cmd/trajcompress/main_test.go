package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// runCLI invokes a fresh root command as if from argv, capturing only the
// returned error (reporter output goes to stdout/stderr as usual).
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root.Execute()
}

// TestCompressDecompressRoundTrip drives the CLI end to end in-process
// (no exec, no go build) the way deepteams-webp/cmd/gwebp/main_test.go
// drives the compiled gwebp binary, adapted to avoid invoking the Go
// toolchain from within a test.
func TestCompressDecompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rawPath := filepath.Join(dir, "in.bin")
	compPath := filepath.Join(dir, "stream.tc")
	outPath := filepath.Join(dir, "out.bin")

	const numTraj = 2
	const numFrames = 200
	raw := make([]float64, numTraj*numFrames)
	for i := 0; i < numFrames; i++ {
		raw[numTraj*i] = math.Sin(float64(i) * 0.1)
		raw[numTraj*i+1] = 2.0
	}
	if err := writeFixedBinary(rawPath, raw); err != nil {
		t.Fatalf("writeFixedBinary: %v", err)
	}

	err := runCLI(t, "compress",
		"-i", rawPath, "-o", compPath,
		"--traj", "2", "--error", "0.01", "--bound", "10", "--ratio", "0.2",
	)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if _, err := os.Stat(compPath); err != nil {
		t.Fatalf("compressed output missing: %v", err)
	}

	err = runCLI(t, "decompress",
		"-i", compPath, "-o", outPath,
		"--traj", "2", "--error", "0.01", "--bound", "10", "--ratio", "0.2",
	)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}

	got, err := readFixedBinary(outPath)
	if err != nil {
		t.Fatalf("readFixedBinary: %v", err)
	}
	if len(got) != len(raw) {
		t.Fatalf("got %d values, want %d", len(got), len(raw))
	}
	for i := range raw {
		if d := math.Abs(raw[i] - got[i]); d > 0.01 {
			t.Errorf("value %d: got %v, want %v (diff %v)", i, got[i], raw[i], d)
		}
	}
}

func TestRunRequiresInputAndOutput(t *testing.T) {
	if err := runCLI(t, "compress", "--traj", "1", "--error", "0.1", "--bound", "1", "--ratio", "0.2"); err == nil {
		t.Errorf("expected error for missing -i/-o")
	}
}

func writeFixedBinary(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	raw := make([]byte, 8)
	for _, v := range values {
		bits := math.Float64bits(v)
		for i := 0; i < 8; i++ {
			raw[i] = byte(bits >> (8 * i))
		}
		if _, err := f.Write(raw); err != nil {
			return err
		}
	}
	return nil
}

func readFixedBinary(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	n := len(data) / 8
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var bits uint64
		for b := 0; b < 8; b++ {
			bits |= uint64(data[8*i+b]) << (8 * b)
		}
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

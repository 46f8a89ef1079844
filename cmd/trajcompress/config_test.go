package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openmdtools/trajcomp/internal/codec"
)

func TestCodecID(t *testing.T) {
	tests := []struct {
		name    string
		want    uint8
		wantErr bool
	}{
		{name: "", want: codec.IDVarint},
		{name: "varint", want: codec.IDVarint},
		{name: "VARINT", want: codec.IDVarint},
		{name: "s2", want: codec.IDS2},
		{name: "S2", want: codec.IDS2},
		{name: "gzip", wantErr: true},
	}
	for _, tt := range tests {
		got, err := codecID(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("codecID(%q): expected error, got nil", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("codecID(%q): unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("codecID(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trajcompress.toml")
	contents := `
num_traj = 3
error = 0.01
bound = 10
ratio = 0.2
chunk_size = 512
block_size = 256
codec = "s2"
format = "text"
verbose = true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfigFile(defaultCLIConfig(), path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.NumTraj != 3 {
		t.Errorf("NumTraj = %d, want 3", cfg.NumTraj)
	}
	if cfg.Error != 0.01 {
		t.Errorf("Error = %v, want 0.01", cfg.Error)
	}
	if cfg.Bound != 10 {
		t.Errorf("Bound = %v, want 10", cfg.Bound)
	}
	if cfg.Ratio != 0.2 {
		t.Errorf("Ratio = %v, want 0.2", cfg.Ratio)
	}
	if cfg.ChunkSize != 512 {
		t.Errorf("ChunkSize = %d, want 512", cfg.ChunkSize)
	}
	if cfg.Blocksize != 256 {
		t.Errorf("Blocksize = %d, want 256", cfg.Blocksize)
	}
	if cfg.Codec != "s2" {
		t.Errorf("Codec = %q, want s2", cfg.Codec)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
	if !cfg.Verbose {
		t.Errorf("Verbose = false, want true")
	}
}

func TestLoadConfigFileMissingKeysLeaveDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trajcompress.toml")
	if err := os.WriteFile(path, []byte(`num_traj = 1`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	base := defaultCLIConfig()
	cfg, err := loadConfigFile(base, path)
	if err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}
	if cfg.NumTraj != 1 {
		t.Errorf("NumTraj = %d, want 1", cfg.NumTraj)
	}
	if cfg.ChunkSize != base.ChunkSize {
		t.Errorf("ChunkSize = %d, want unchanged default %d", cfg.ChunkSize, base.ChunkSize)
	}
	if cfg.Codec != base.Codec {
		t.Errorf("Codec = %q, want unchanged default %q", cfg.Codec, base.Codec)
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/openmdtools/trajcomp/internal/codec"
)

// cliConfig holds the union of everything a config file or flag can set,
// before it is turned into a trajcomp.Config. Grounded on
// go-musicfox/v2/pkg/config/transaction.go's ImportConfig: a temporary
// koanf instance loads a TOML file into a flat key space, which the CLI
// then maps onto its own typed fields rather than keeping koanf around as
// a live store.
type cliConfig struct {
	NumTraj   int
	Error     float64
	Bound     float64
	Ratio     float64
	ChunkSize int
	Blocksize int
	Codec     string
	Format    string
	Verbose   bool
}

func defaultCLIConfig() cliConfig {
	return cliConfig{
		ChunkSize: 1024,
		Blocksize: 1024,
		Codec:     "varint",
		Format:    "binary",
	}
}

// loadConfigFile reads a TOML file at path and overlays its values onto cfg.
// Keys absent from the file leave cfg's existing field untouched.
func loadConfigFile(cfg cliConfig, path string) (cliConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return cfg, fmt.Errorf("trajcompress: loading config %s: %w", path, err)
	}
	if k.Exists("num_traj") {
		cfg.NumTraj = k.Int("num_traj")
	}
	if k.Exists("error") {
		cfg.Error = k.Float64("error")
	}
	if k.Exists("bound") {
		cfg.Bound = k.Float64("bound")
	}
	if k.Exists("ratio") {
		cfg.Ratio = k.Float64("ratio")
	}
	if k.Exists("chunk_size") {
		cfg.ChunkSize = k.Int("chunk_size")
	}
	if k.Exists("block_size") {
		cfg.Blocksize = k.Int("block_size")
	}
	if k.Exists("codec") {
		cfg.Codec = k.String("codec")
	}
	if k.Exists("format") {
		cfg.Format = k.String("format")
	}
	if k.Exists("verbose") {
		cfg.Verbose = k.Bool("verbose")
	}
	return cfg, nil
}

// codecID maps a CLI/config codec name to its internal/codec identifier.
func codecID(name string) (uint8, error) {
	switch strings.ToLower(name) {
	case "", "varint":
		return codec.IDVarint, nil
	case "s2":
		return codec.IDS2, nil
	default:
		return 0, fmt.Errorf("trajcompress: unknown codec %q (want varint or s2)", name)
	}
}

// Command trajcompress is the CLI entry point for the trajcomp module: a
// lossy streaming compressor and decompressor for dense multi-trajectory
// numeric time series.
//
// Usage:
//
//	trajcompress compress --traj N --error E --bound B --ratio R -i in -o out
//	trajcompress decompress --traj N --error E --bound B --ratio R -i in -o out
//
// Grounded on deepteams-webp/cmd/gwebp/main.go (subcommand dispatch over a
// single encode/decode core) and five82-drapto/cmd/drapto/main.go (flags
// parsed into a struct, then overlaid onto a validated Config before the
// core runs); here the subcommand tree itself uses cobra rather than
// stdlib flag, since both five82-drapto's go.mod and command surface
// anticipate it.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openmdtools/trajcomp"
	"github.com/openmdtools/trajcomp/internal/frameio"
	"github.com/openmdtools/trajcomp/internal/logging"
)

const appName = "trajcompress"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Lossy streaming compressor for multi-trajectory numeric time series",
	}
	cmd.AddCommand(newCompressCmd(), newDecompressCmd())
	return cmd
}

// flagSet is the set of flags shared by compress and decompress: both need
// the same Config the stream was produced with (spec.md: a Decompressor
// must be constructed with the Config its Compressor used).
type flagSet struct {
	input      string
	output     string
	configFile string
	numTraj    int
	errorTol   float64
	bound      float64
	ratio      float64
	chunkSize  int
	blockSize  int
	codecName  string
	format     string
	verbose    bool
}

func bindSharedFlags(cmd *cobra.Command, fs *flagSet) {
	cmd.Flags().StringVarP(&fs.input, "input", "i", "", "input file (required)")
	cmd.Flags().StringVarP(&fs.output, "output", "o", "", "output file (required)")
	cmd.Flags().StringVarP(&fs.configFile, "config", "c", "", "TOML config file overlaying these flags")
	cmd.Flags().IntVar(&fs.numTraj, "traj", 0, "number of trajectories")
	cmd.Flags().Float64Var(&fs.errorTol, "error", 0, "absolute reconstruction error tolerance")
	cmd.Flags().Float64Var(&fs.bound, "bound", 0, "maximum absolute sample value")
	cmd.Flags().Float64Var(&fs.ratio, "ratio", 0, "error-budget split ratio in (0,1]")
	cmd.Flags().IntVar(&fs.chunkSize, "chunk-size", 0, "support vectors per chunk (default 1024)")
	cmd.Flags().IntVar(&fs.blockSize, "block-size", 0, "frames per self-contained block (default 1024)")
	cmd.Flags().StringVar(&fs.codecName, "codec", "varint", "integer codec: varint or s2")
	cmd.Flags().StringVar(&fs.format, "format", "binary", "frame format: binary or text")
	cmd.Flags().BoolVarP(&fs.verbose, "verbose", "v", false, "enable debug logging")
}

// resolveConfig merges an optional config file with flag values (flags
// explicitly set on the command line win), stores the merged codec name,
// format and verbosity back into fs, and validates the result.
func resolveConfig(cmd *cobra.Command, fs *flagSet) (trajcomp.Config, error) {
	cli := defaultCLIConfig()
	if fs.configFile != "" {
		var err error
		cli, err = loadConfigFile(cli, fs.configFile)
		if err != nil {
			return trajcomp.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("traj") {
		cli.NumTraj = fs.numTraj
	}
	if flags.Changed("error") {
		cli.Error = fs.errorTol
	}
	if flags.Changed("bound") {
		cli.Bound = fs.bound
	}
	if flags.Changed("ratio") {
		cli.Ratio = fs.ratio
	}
	if flags.Changed("chunk-size") {
		cli.ChunkSize = fs.chunkSize
	}
	if flags.Changed("block-size") {
		cli.Blocksize = fs.blockSize
	}
	if flags.Changed("codec") {
		cli.Codec = fs.codecName
	}
	if flags.Changed("format") {
		cli.Format = fs.format
	}
	if flags.Changed("verbose") {
		cli.Verbose = fs.verbose
	}
	fs.codecName = cli.Codec
	fs.format = cli.Format
	fs.verbose = cli.Verbose

	id, err := codecID(cli.Codec)
	if err != nil {
		return trajcomp.Config{}, err
	}

	cfg := trajcomp.Config{
		NumTraj:   cli.NumTraj,
		Error:     cli.Error,
		Bound:     cli.Bound,
		Ratio:     cli.Ratio,
		ChunkSize: cli.ChunkSize,
		Blocksize: cli.Blocksize,
		CodecID:   id,
	}
	return cfg.Validate()
}

func newLogger(verbose bool) *slog.Logger {
	level := logging.LevelInfo
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{Level: level, Output: os.Stderr, Enabled: verbose})
}

func newCompressCmd() *cobra.Command {
	fs := &flagSet{}
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress a frame file into a trajcomp stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, fs)
		},
	}
	bindSharedFlags(cmd, fs)
	return cmd
}

func newDecompressCmd() *cobra.Command {
	fs := &flagSet{}
	cmd := &cobra.Command{
		Use:   "decompress",
		Short: "Decompress a trajcomp stream back into a frame file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompress(cmd, fs)
		},
	}
	bindSharedFlags(cmd, fs)
	return cmd
}

func runCompress(cmd *cobra.Command, fs *flagSet) error {
	rep := newReporter()
	if fs.input == "" || fs.output == "" {
		return fmt.Errorf("trajcompress: --input and --output are required")
	}

	cfg, err := resolveConfig(cmd, fs)
	if err != nil {
		rep.fail(err)
		return err
	}

	in, err := os.Open(fs.input)
	if err != nil {
		rep.fail(err)
		return err
	}
	defer in.Close()

	out, err := os.Create(fs.output)
	if err != nil {
		rep.fail(err)
		return err
	}
	defer out.Close()

	var src frameio.Source
	switch fs.format {
	case "text":
		src = frameio.TextSource(in, cfg.NumTraj)
	default:
		src = frameio.FixedBinarySource(in, cfg.NumTraj)
	}

	comp, err := trajcomp.NewCompressor(cfg, out, newLogger(fs.verbose))
	if err != nil {
		rep.fail(err)
		return err
	}

	rep.started("COMPRESS", cfg.NumTraj, fs.codecName)
	start := time.Now()
	frames := 0
	counted := func(frame []float64) (bool, error) {
		ok, err := src(frame)
		if ok {
			frames++
			if frames%1000 == 0 {
				rep.progressFrames(int64(frames))
			}
		}
		return ok, err
	}

	if err := comp.Compress(counted); err != nil {
		rep.fail(err)
		return err
	}

	inInfo, _ := in.Stat()
	outInfo, _ := out.Stat()
	var inSize, outSize int64
	if inInfo != nil {
		inSize = inInfo.Size()
	}
	if outInfo != nil {
		outSize = outInfo.Size()
	}
	rep.finish(frames, time.Since(start), inSize, outSize)
	return nil
}

func runDecompress(cmd *cobra.Command, fs *flagSet) error {
	rep := newReporter()
	if fs.input == "" || fs.output == "" {
		return fmt.Errorf("trajcompress: --input and --output are required")
	}

	cfg, err := resolveConfig(cmd, fs)
	if err != nil {
		rep.fail(err)
		return err
	}

	in, err := os.Open(fs.input)
	if err != nil {
		rep.fail(err)
		return err
	}
	defer in.Close()

	out, err := os.Create(fs.output)
	if err != nil {
		rep.fail(err)
		return err
	}
	defer out.Close()

	var sink frameio.Sink
	switch fs.format {
	case "text":
		sink = frameio.TextSink(out)
	default:
		sink = frameio.FixedBinarySink(out)
	}

	decomp, err := trajcomp.NewDecompressor(cfg, in, newLogger(fs.verbose))
	if err != nil {
		rep.fail(err)
		return err
	}
	defer decomp.Close()

	rep.started("DECOMPRESS", cfg.NumTraj, fs.codecName)
	start := time.Now()
	frames := 0
	frame := make([]float64, cfg.NumTraj)
	for {
		ok, err := decomp.ReadFrame(frame)
		if err != nil {
			rep.fail(err)
			return err
		}
		if !ok {
			break
		}
		if err := sink(frame); err != nil {
			rep.fail(err)
			return err
		}
		frames++
		if frames%1000 == 0 {
			rep.progressFrames(int64(frames))
		}
	}

	inInfo, _ := in.Stat()
	outInfo, _ := out.Stat()
	var inSize, outSize int64
	if inInfo != nil {
		inSize = inInfo.Size()
	}
	if outInfo != nil {
		outSize = outInfo.Size()
	}
	rep.finish(frames, time.Since(start), inSize, outSize)
	return nil
}

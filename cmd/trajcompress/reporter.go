package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// reporter prints human-friendly progress to the terminal. Grounded on
// five82-drapto/internal/reporter/terminal.go's TerminalReporter: a
// mutex-guarded progress bar plus a handful of color.Color fields for
// section headers and status lines.
type reporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar

	cyan  *color.Color
	green *color.Color
	red   *color.Color
	bold  *color.Color
}

func newReporter() *reporter {
	return &reporter{
		cyan:  color.New(color.FgCyan, color.Bold),
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed, color.Bold),
		bold:  color.New(color.Bold),
	}
}

func (r *reporter) section(title string) {
	fmt.Println()
	_, _ = r.cyan.Println(title)
}

func (r *reporter) started(op string, numTraj int, codecName string) {
	r.section(op)
	fmt.Printf("  %s %d\n", r.bold.Sprint("Trajectories:"), numTraj)
	fmt.Printf("  %s %s\n", r.bold.Sprint("Codec:"), codecName)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions64(
		-1,
		progressbar.OptionSetDescription("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *reporter) progressFrames(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress == nil {
		return
	}
	_ = r.progress.Set64(n)
}

func (r *reporter) finish(frames int, elapsed time.Duration, inBytes, outBytes int64) {
	r.mu.Lock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.mu.Unlock()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	fmt.Printf("  %s %d\n", r.bold.Sprint("Frames:"), frames)
	if inBytes > 0 {
		ratio := float64(inBytes) / float64(outBytes)
		fmt.Printf("  %s %d -> %d bytes (%.2fx)\n", r.bold.Sprint("Size:"), inBytes, outBytes, ratio)
	}
	fmt.Printf("  %s %s\n", r.bold.Sprint("Time:"), elapsed.Round(time.Millisecond))
	_, _ = r.green.Printf("  done\n")
}

func (r *reporter) fail(err error) {
	r.mu.Lock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.mu.Unlock()

	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %v\n", err)
}

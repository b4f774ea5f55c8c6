package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dirsize/internal/dirsize"
)

func logic(ctx context.Context, options dirsize.Options, stdout, stderr io.Writer) error {
	level := slog.LevelWarn
	if options.Debug {
		level = slog.LevelDebug
	}

	options.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	enableProgress := progressEnabled(options, stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files int64, bytes uint64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files int64, bytes uint64) {
			msg := fmt.Sprintf("Scanning… %d files, %s", files, humanize.Bytes(bytes))
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	usage, err := dirsize.Run(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch options.Output {
	case "json":
		return PrintJSON(usage, options.Path, stdout)
	default:
		return PrintText(usage, options.Path, options.HumanReadable, stdout)
	}
}

// progressEnabled resolves the tri-state progress option.
func progressEnabled(options dirsize.Options, stderr io.Writer) bool {
	if options.Progress != nil {
		return *options.Progress
	}

	f, ok := stderr.(*os.File)

	return ok &&
		options.Output != "json" &&
		!options.Debug &&
		isatty.IsTerminal(f.Fd())
}

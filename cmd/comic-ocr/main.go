package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/comic-ocr/internal/batch"
	"github.com/ironsheep/comic-ocr/internal/config"
	"github.com/ironsheep/comic-ocr/internal/logging"
	"github.com/ironsheep/comic-ocr/internal/ocr"
	"github.com/ironsheep/comic-ocr/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns its exit status. Per-file
// failures are narrated and still exit 0; argument errors, an unreadable
// directory, cancellation and server failures exit 1.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, config.LoadEnv())
	if err != nil {
		fmt.Fprintln(stderr, err)
		fmt.Fprint(stderr, config.Usage)
		return 1
	}

	switch cfg.Mode {
	case config.ModeHelp:
		fmt.Fprint(stdout, config.Usage)
		return 0
	case config.ModeVersion:
		fmt.Fprintf(stdout, "comic-ocr %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return 0
	}

	// stdout belongs to the MCP protocol in serve mode, so logs go to stderr.
	log := logging.New(stderr, cfg.LogLevel)
	log.Debug("comic-ocr starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	rec := ocr.NewTesseract(ocr.Options{
		Languages:      cfg.Languages,
		TessdataPrefix: cfg.TessdataPrefix,
		PageSegMode:    cfg.PageSegMode,
	})

	printOutput := func(res *batch.Result) {
		fmt.Fprintf(stdout, "Output saved to %s\n", res.Output)
	}

	switch cfg.Mode {
	case config.ModeServe:
		srv := server.New(rec,
			server.WithRows(cfg.Rows),
			server.WithVersion(Version),
			server.WithLogger(log),
		)
		if err := srv.Run(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info("Server stopped", "reason", ctx.Err())
			} else {
				log.Error("Server error", "error", err)
			}
			return 1
		}
		return 0

	case config.ModeFile:
		driver := batch.NewDriver(rec,
			batch.WithRows(cfg.Rows),
			batch.WithLogger(log),
			batch.WithOutputHook(printOutput),
		)
		if _, err := driver.ProcessOne(ctx, cfg.File); err != nil {
			log.Error("Failed to process image", "path", cfg.File, "error", err)
			if ctx.Err() != nil {
				return 1
			}
			// A failed file is reported, not fatal.
			return 0
		}
		return 0

	case config.ModeDirectory:
		driver := batch.NewDriver(rec,
			batch.WithRows(cfg.Rows),
			batch.WithWorkers(cfg.Workers),
			batch.WithLogger(log),
			batch.WithOutputHook(printOutput),
		)
		report, err := driver.ProcessDirectory(ctx, cfg.Directory, cfg.Recursive)
		if report != nil {
			fmt.Fprintln(stdout, report.Summary())
		}
		if err != nil {
			log.Error("Directory processing stopped", "directory", cfg.Directory, "error", err)
			return 1
		}
		return 0
	}

	fmt.Fprint(stdout, config.Usage)
	return 0
}

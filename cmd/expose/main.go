// Command expose runs one session in the terminal: it exposes the given
// local URL, prints progress, and cleans up on Ctrl-C.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melih/lighthouse-expose/internal/app"
	"github.com/melih/lighthouse-expose/internal/config"
	"github.com/melih/lighthouse-expose/internal/core/domain"
	"github.com/melih/lighthouse-expose/internal/core/ports"
	"github.com/melih/lighthouse-expose/internal/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: expose <local-url>")
		os.Exit(2)
	}
	os.Exit(run(os.Args[1]))
}

func run(localURL string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}

	// Logs go to stderr only when asked for; stdout carries the status lines.
	var logOut io.Writer = io.Discard
	if cfg.LogLevel == "debug" {
		logOut = os.Stderr
	}
	log := logger.NewWithWriter(logOut, "expose", logger.ParseLevel(cfg.LogLevel))

	sink := ports.StatusSinkFunc(func(e domain.StatusEvent) {
		fmt.Println(RenderEvent(e))
	})
	sequencer, closeRuntime, err := app.NewSequencer(cfg, sink, nil, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}
	defer closeRuntime()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println(TitleStyle.Render("lighthouse expose") + " " + DimmedStyle.Render(localURL))
	code := 0
	if err := sequencer.Start(ctx, localURL); err != nil {
		code = 1
	} else {
		fmt.Println(HelpStyle.Render("Press Ctrl-C to stop and clean up"))
		<-ctx.Done()
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sequencer.Cleanup(cleanupCtx); err != nil {
		log.Warn("cleanup finished with errors", slog.Any("error", err))
		code = 1
	}
	return code
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fotoladuViewer/internal/config"
	"fotoladuViewer/internal/lib/logger/handlers/slogpretty"
	"fotoladuViewer/internal/lib/logger/sl"
	"fotoladuViewer/internal/loader"
	"fotoladuViewer/internal/loader/terminal"
)

func main() {
	once := flag.Bool("once", false, "exit after the first image")
	cfg := config.MustLoad()

	log := slog.New(slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelWarn},
	}.NewPrettyHandler(os.Stderr))

	variant, err := loader.ParseVariant(cfg.Viewer.Variant)
	if err != nil {
		log.Error("invalid viewer variant", sl.Err(err))
		os.Exit(1)
	}

	client, err := loader.NewClient(log, cfg.Viewer.APIURL, cfg.Viewer.Timeout)
	if err != nil {
		log.Error("failed to create api client", sl.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := loader.New(log, client, terminal.New(os.Stdout), variant)

	if err := l.OnPageLoad(ctx); err != nil {
		log.Error("failed to load image", sl.Err(err))
	}
	if *once {
		return
	}

	fmt.Fprintln(os.Stderr, "enter tags (comma-separated) to load the next image, Ctrl-D to quit")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := l.SubmitTags(ctx, loader.ParseTags(line)); err != nil {
				log.Error("failed to load image", sl.Err(err))
			}
		}
	}
}

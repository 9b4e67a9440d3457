package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"bookcurator/internal/backend"
	"bookcurator/internal/config"
	"bookcurator/internal/logger"
	"bookcurator/internal/render"
	"bookcurator/internal/view"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	// log lines would break the prompt; only warnings go to stderr
	level := "warn"
	if cfg.CLI.Debug {
		level = "debug"
	}
	log := logger.Setup(level, "text", os.Stderr)
	logger.SlowThreshold = cfg.Backend.SlowCall

	opts := []backend.Option{backend.WithTimeout(cfg.Backend.Timeout), backend.WithLogger(log)}
	if !cfg.Backend.ValidateJSON {
		opts = append(opts, backend.WithoutSchemaChecks())
	}
	api, err := backend.New(cfg.Backend.URL, opts...)
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	text := render.NewText(render.NewPrinter(cfg.UI.Language))
	ctl := view.NewController(api, text, view.Options{
		ListLimit:     cfg.UI.ListLimit,
		MaxTranscript: cfg.Session.MaxTranscript,
	})
	sh := newShell(ctl, text, os.Stdout)
	sh.busy = spinner
	ctx := context.Background()

	// one-shot mode: bookcurator-cli <question>
	if len(os.Args) > 1 {
		sh.exec(ctx, strings.Join(os.Args[1:], " "))
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if f, err := os.Open(cfg.CLI.HistoryFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, cfg.CLI.HistoryFile, log)

	fmt.Printf("📚 Book Curator shell (%s). Type /help for commands.\n", api.BaseURL())
	for {
		input, err := line.Prompt("bookcurator> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Println()
			return
		}
		if err != nil {
			log.WithError(err).Error("prompt")
			return
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if sh.exec(ctx, input) {
			return
		}
	}
}

// spinner shows an indeterminate progress bar until the returned func runs.
func spinner() func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("📖"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()
	return func() {
		close(stop)
		<-done
		bar.Finish()
	}
}

func saveHistory(line *liner.State, path string, log *logrus.Logger) {
	f, err := os.Create(path)
	if err != nil {
		log.WithError(err).Warn("history not saved")
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		log.WithError(err).Warn("history not saved")
	}
}

// Command deasciify-tui is a terminal editor that deasciifies Turkish text
// as it is typed. The final text is written to stdout, or to -o, on exit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"deasciifier/internal/config"
	"deasciifier/internal/engine"
	"deasciifier/internal/logging"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
	"deasciifier/internal/tui"
	"deasciifier/pkg/options"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv("DEASCIIFIER_CONFIG"), "config file (TOML, YAML or JSON), reloaded on change")
		outPath    = flag.String("o", "", "write the text here on exit instead of stdout")
		logPath    = flag.String("log", "", "log file; logging is off when empty")
	)
	flag.Parse()

	if err := run(*configPath, flag.Arg(0), *outPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "deasciify-tui:", err)
		os.Exit(1)
	}
}

func run(configPath, inPath, outPath, logPath string) error {
	loader := config.NewLoader(configPath)
	defer loader.Close()
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(cfg.Logging(), logOut)

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return err
	}

	initial := ""
	if inPath != "" {
		data, err := os.ReadFile(inPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		initial = transform.Normalize(string(data))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()

	app := tui.New(screen, eng.Processor, eng.Catalog(), logger, options.WithSessionOptions(cfg.SessionOptions()))
	app.Editor().SetText(initial, nil)
	app.Editor().SetSelection(textrange.Point(app.Editor().Len()))

	if configPath != "" {
		loader.OnChange(func(c *config.Config) { app.SetOptions(c.SessionOptions()) })
		if err := loader.Watch(); err != nil {
			logger.Warn("config not watched", "err", err)
		}
		go func() {
			for err := range loader.Errors() {
				logger.Warn("config reload failed", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runErr := app.Run(ctx)
	screen.Fini()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	text := app.Editor().Text()
	if outPath == "" {
		_, err = io.WriteString(os.Stdout, text)
		return err
	}
	logger.Info("saving", slog.String("path", outPath))
	return os.WriteFile(outPath, []byte(text), 0o644)
}

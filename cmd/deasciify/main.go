// Command deasciify converts text from stdin and writes it to stdout.
//
// Indices given with -start and -end count runes of the NFC-normalized
// input. With both left at zero the whole text is converted.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"deasciifier/internal/config"
	"deasciifier/internal/engine"
	"deasciifier/internal/logging"
	"deasciifier/internal/rangeproc"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
)

func main() {
	var (
		modeName   = flag.String("mode", "deasciify", "deasciify or asciify")
		start      = flag.Int("start", 0, "selection start (rune index)")
		end        = flag.Int("end", 0, "selection end (rune index, exclusive)")
		configPath = flag.String("config", os.Getenv("DEASCIIFIER_CONFIG"), "config file (TOML, YAML or JSON)")
		verbose    = flag.Bool("v", false, "log changed positions to stderr")
	)
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, os.Stderr, *modeName, *configPath, textrange.New(*start, *end), *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "deasciify:", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out, errOut io.Writer, modeName, configPath string, sel textrange.Range, verbose bool) error {
	mode, err := transform.ParseMode(modeName)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logCfg := cfg.Logging()
	if verbose {
		logCfg.Level = slog.LevelDebug
	}
	logger := logging.New(logCfg, errOut)

	cfg.Corrections.GenerateVariants = false
	eng, err := engine.New(cfg, logger)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(bufio.NewReader(in))
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	text := transform.Normalize(string(data))

	outcome, err := rangeproc.Run(eng.Processor, rangeproc.SelectionPolicy, mode, text, sel)
	if err != nil {
		return err
	}
	result := text
	if !outcome.NoOp() {
		if result, err = outcome.Result.Apply(text, outcome.Range); err != nil {
			return err
		}
	}
	logger.Debug("converted", "mode", mode.String(), "range", outcome.Range.String(), "changed", outcome.Result.ChangedPositions)

	_, err = io.WriteString(out, result)
	return err
}

package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
)

func main() {
	var cli CLI

	ctx := kong.Parse(
		&cli,
		kong.Name("syslogparse"),
		kong.Description("Parse RFC3164 and RFC5424 syslog lines, one message per line."),
		kong.UsageOnError(),
	)

	logger := newLogger(os.Stderr, cli.Verbose)

	err := cli.Run(logger, os.Stdin, os.Stdout)
	ctx.FatalIfErrorf(err)
}

func newLogger(w io.Writer, verbosity int) *slog.Logger {
	level := slog.LevelWarn

	switch verbosity {
	case 0:
	case 1:
		level = slog.LevelInfo
	default: // 2+
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
}

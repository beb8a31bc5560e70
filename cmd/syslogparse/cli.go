package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/jeromer/syslogparser/v2"
	"github.com/jeromer/syslogparser/v2/rfc3164"
	"github.com/jeromer/syslogparser/v2/rfc5424"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FORMAT_AUTO    = "auto"
	FORMAT_RFC3164 = "rfc3164"
	FORMAT_RFC5424 = "rfc5424"

	OUTPUT_JSON  = "json"
	OUTPUT_YAML  = "yaml"
	OUTPUT_LINE  = "line"
	OUTPUT_PARTS = "parts"
)

// Lines longer than this are reported by the scanner instead of being split.
const maxLineLen = 64 * 1024

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CLI struct {
	Format   string   `help:"Input format (auto, rfc3164, rfc5424)" enum:"auto,rfc3164,rfc5424" default:"auto" short:"f" env:"SYSLOGPARSE_FORMAT"`
	Output   string   `help:"Output format (json, yaml, line, parts)" enum:"json,yaml,line,parts" default:"json" short:"o" env:"SYSLOGPARSE_OUTPUT"`
	Year     int      `help:"Year of RFC3164 timestamps, current year when unset" env:"SYSLOGPARSE_YEAR"`
	FailFast bool     `help:"Stop at the first line that does not parse"`
	Verbose  int      `help:"Log verbosity, repeat for more" short:"v" type:"counter"`
	Files    []string `arg:"" optional:"" help:"Files to read, stdin when none" type:"existingfile"`

	// used by tests
	now func() time.Time `kong:"-"`
}

type stats struct {
	parsed int
	failed int
}

func (c *CLI) Run(logger *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	w := bufio.NewWriter(stdout)
	defer w.Flush()

	st := &stats{}

	if len(c.Files) == 0 {
		if err := c.process(logger, "-", stdin, w, st); err != nil {
			return err
		}
	}

	for _, name := range c.Files {
		f, err := os.Open(name)
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", name)
		}

		err = c.process(logger, name, f, w, st)
		f.Close()

		if err != nil {
			return err
		}
	}

	logger.Info("done", "parsed", st.parsed, "failed", st.failed)

	return nil
}

func (c *CLI) process(logger *slog.Logger, name string, r io.Reader, w io.Writer, st *stats) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxLineLen)

	resolve := c.yearResolver()
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		p, maxLen, err := c.newParser(line, resolve)
		if err == nil {
			if len(line) > maxLen {
				logger.Warn("line exceeds max packet length, truncated", "file", name, "line", lineNo, "len", len(line), "max", maxLen)
			}

			err = p.Parse()
		}

		if err != nil {
			st.failed++
			logger.Warn("unable to parse line", "file", name, "line", lineNo, "err", err)

			if c.FailFast {
				return errors.Wrapf(err, "%s:%d", name, lineNo)
			}

			continue
		}

		st.parsed++
		logger.Debug("parsed line", "file", name, "line", lineNo, "protocol", p.Message().Protocol)

		if err = c.print(w, p); err != nil {
			return errors.Wrap(err, "failed to write output")
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read %s", name)
	}

	return nil
}

// newParser also returns the packet length the parser truncates line to.
func (c *CLI) newParser(line []byte, resolve rfc3164.YearResolver) (syslogparser.LogParser, int, error) {
	format := c.Format

	if format == "" || format == FORMAT_AUTO {
		rfc, err := syslogparser.DetectRFC(line)
		if err != nil {
			return nil, 0, err
		}

		switch rfc {
		case syslogparser.RFC_3164:
			format = FORMAT_RFC3164
		case syslogparser.RFC_5424:
			format = FORMAT_RFC5424
		}
	}

	switch format {
	case FORMAT_RFC3164:
		return rfc3164.NewParser(line, resolve), rfc3164.MAX_PACKET_LEN, nil
	case FORMAT_RFC5424:
		return rfc5424.NewParser(line), rfc5424.MAX_PACKET_LEN, nil
	}

	return nil, 0, errors.Errorf("unsupported format %q", format)
}

func (c *CLI) yearResolver() rfc3164.YearResolver {
	if c.Year != 0 {
		return rfc3164.FixedYear(c.Year)
	}

	return rfc3164.CurrentYear(c.clock())
}

func (c *CLI) clock() func() time.Time {
	if c.now != nil {
		return c.now
	}

	return time.Now
}

func (c *CLI) print(w io.Writer, p syslogparser.LogParser) error {
	switch c.Output {
	case OUTPUT_LINE:
		_, err := fmt.Fprintln(w, p.Message().Render(c.clock()()))
		return err
	case OUTPUT_PARTS:
		return printParts(w, p.Dump())
	case OUTPUT_YAML:
		b, err := yaml.Marshal(p.Dump())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "---\n%s", b)
		return err
	}

	b, err := json.Marshal(p.Dump())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// one key=value per line, messages separated by a blank line
func printParts(w io.Writer, parts syslogparser.LogParts) error {
	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		v := parts[k]
		if ts, ok := v.(time.Time); ok {
			v = ts.Format(syslogparser.RFC5424_TIMESTAMP_FORMAT)
		}

		if _, err := fmt.Fprintf(w, "%s=%v\n", k, v); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

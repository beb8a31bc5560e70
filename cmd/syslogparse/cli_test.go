package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jeromer/syslogparser/v2"
	"github.com/jeromer/syslogparser/v2/rfc3164"
	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type CLITestSuite struct {
	suite.Suite

	logs   *bytes.Buffer
	logger *slog.Logger
}

const (
	legacyLine     = "<34>Oct 11 22:14:15 mymachine su: 'su root' failed for lonvick on /dev/pts/8"
	structuredLine = `<165>1 2003-10-11T22:14:15.003Z mymachine.example.com evntslog - ID47 [exampleSDID@32473 iut="3"] An application event log entry...`
	garbageLine    = "garbage"
)

func (s *CLITestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.logger = slog.New(tint.NewHandler(s.logs, &tint.Options{
		Level:   slog.LevelDebug,
		NoColor: true,
	}))
}

func (s *CLITestSuite) run(cli *CLI, input string) (string, error) {
	out := &bytes.Buffer{}
	err := cli.Run(s.logger, strings.NewReader(input), out)

	return out.String(), err
}

func input(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func (s *CLITestSuite) TestRun_JSON() {
	cli := &CLI{Format: FORMAT_AUTO, Output: OUTPUT_JSON, Year: 2019}

	out, err := s.run(cli, input(legacyLine, "", garbageLine, structuredLine))
	s.Require().Nil(err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	s.Require().Len(lines, 2)

	var legacy map[string]interface{}
	s.Require().Nil(json.Unmarshal([]byte(lines[0]), &legacy))
	s.Require().Equal("mymachine", legacy["hostname"])
	s.Require().Equal("su", legacy["app_name"])
	s.Require().Equal(float64(34), legacy["priority"])
	s.Require().Equal("2019-10-11T22:14:15Z", legacy["timestamp"])
	s.Require().NotContains(legacy, "version")

	var structured map[string]interface{}
	s.Require().Nil(json.Unmarshal([]byte(lines[1]), &structured))
	s.Require().Equal(float64(1), structured["version"])
	s.Require().Equal("ID47", structured["msg_id"])
	s.Require().Equal(`[exampleSDID@32473 iut="3"]`, structured["structured_data"])
	s.Require().Equal("An application event log entry...", structured["message"])

	s.Require().Contains(s.logs.String(), "unable to parse line")
	s.Require().Contains(s.logs.String(), "line=3")
	s.Require().Contains(s.logs.String(), "parsed=2")
	s.Require().Contains(s.logs.String(), "failed=1")
}

func (s *CLITestSuite) TestRun_Line() {
	cli := &CLI{Format: FORMAT_AUTO, Output: OUTPUT_LINE, Year: 2019}

	out, err := s.run(cli, input(legacyLine, structuredLine))
	s.Require().Nil(err)

	s.Require().Equal(
		input(
			"<34> 2019-10-11T22:14:15Z mymachine su - -  'su root' failed for lonvick on /dev/pts/8",
			structuredLine,
		),
		out,
	)
}

func (s *CLITestSuite) TestRun_Parts() {
	cli := &CLI{Format: FORMAT_RFC3164, Output: OUTPUT_PARTS, Year: 2019}

	out, err := s.run(cli, input(legacyLine))
	s.Require().Nil(err)

	s.Require().Equal(
		"app_name=su\n"+
			"facility=4\n"+
			"hostname=mymachine\n"+
			"message='su root' failed for lonvick on /dev/pts/8\n"+
			"priority=34\n"+
			"severity=2\n"+
			"timestamp=2019-10-11T22:14:15Z\n"+
			"\n",
		out,
	)
}

func (s *CLITestSuite) TestRun_YAML() {
	cli := &CLI{Format: FORMAT_RFC5424, Output: OUTPUT_YAML}

	out, err := s.run(cli, input(structuredLine))
	s.Require().Nil(err)
	s.Require().True(strings.HasPrefix(out, "---\n"))

	var obtained map[string]interface{}
	s.Require().Nil(yaml.Unmarshal([]byte(out), &obtained))
	s.Require().Equal("mymachine.example.com", obtained["hostname"])
	s.Require().Equal("evntslog", obtained["app_name"])
	s.Require().Equal(165, obtained["priority"])
}

func (s *CLITestSuite) TestRun_FailFast() {
	cli := &CLI{Format: FORMAT_AUTO, Output: OUTPUT_LINE, Year: 2019, FailFast: true}

	out, err := s.run(cli, input(legacyLine, garbageLine, structuredLine))

	s.Require().ErrorIs(err, syslogparser.ErrPriorityNoEnd)
	s.Require().Contains(err.Error(), "-:2:")
	s.Require().Equal(1, strings.Count(out, "\n"), "lines before the failure are written")
}

func (s *CLITestSuite) TestRun_ForcedFormat() {
	cli := &CLI{Format: FORMAT_RFC5424, Output: OUTPUT_JSON, FailFast: true}

	_, err := s.run(cli, input(legacyLine))

	s.Require().ErrorIs(err, syslogparser.ErrHeaderParseFailed)
}

func (s *CLITestSuite) TestRun_Oversized() {
	cli := &CLI{Format: FORMAT_AUTO, Output: OUTPUT_JSON, Year: 2019}

	prefix := "<34>Oct 11 22:14:15 mymachine su: "
	long := prefix + strings.Repeat("a", rfc3164.MAX_PACKET_LEN)

	out, err := s.run(cli, input(structuredLine, long))
	s.Require().Nil(err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	s.Require().Len(lines, 2)

	var truncated map[string]interface{}
	s.Require().Nil(json.Unmarshal([]byte(lines[1]), &truncated))
	s.Require().Len(truncated["message"], rfc3164.MAX_PACKET_LEN-len(prefix))

	logs := s.logs.String()
	s.Require().Equal(1, strings.Count(logs, "line exceeds max packet length"))
	s.Require().Contains(logs, "line=2")
	s.Require().Contains(logs, "max=2048")
}

func (s *CLITestSuite) TestRun_CurrentYear() {
	cli := &CLI{
		Format: FORMAT_AUTO,
		Output: OUTPUT_LINE,
		now: func() time.Time {
			return time.Date(2021, time.January, 2, 10, 0, 0, 0, time.UTC)
		},
	}

	out, err := s.run(cli, input("<34>Dec 31 23:59:59 host app: x", "<34>Jan  1 00:00:01 host app: y"))
	s.Require().Nil(err)

	s.Require().Equal(
		input(
			"<34> 2020-12-31T23:59:59Z host app - -  x",
			"<34> 2021-01-01T00:00:01Z host app - -  y",
		),
		out,
	)
}

func (s *CLITestSuite) TestRun_Files() {
	dir := s.T().TempDir()

	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	s.Require().Nil(os.WriteFile(first, []byte(input(legacyLine)), 0o600))
	s.Require().Nil(os.WriteFile(second, []byte(input(structuredLine)), 0o600))

	cli := &CLI{
		Format: FORMAT_AUTO,
		Output: OUTPUT_LINE,
		Year:   2019,
		Files:  []string{first, second},
	}

	out, err := s.run(cli, "ignored")
	s.Require().Nil(err)
	s.Require().Equal(2, strings.Count(out, "\n"))

	cli.Files = []string{filepath.Join(dir, "missing.log")}

	_, err = s.run(cli, "")
	s.Require().ErrorIs(err, os.ErrNotExist)
}

func (s *CLITestSuite) TestKongFlags() {
	s.T().Setenv("SYSLOGPARSE_OUTPUT", "line")
	s.T().Setenv("SYSLOGPARSE_YEAR", "2019")

	var cli CLI

	parser, err := kong.New(&cli, kong.Name("syslogparse"))
	s.Require().Nil(err)

	_, err = parser.Parse([]string{"-f", "rfc3164", "-vv", "--fail-fast"})
	s.Require().Nil(err)

	s.Require().Equal(FORMAT_RFC3164, cli.Format)
	s.Require().Equal(OUTPUT_LINE, cli.Output)
	s.Require().Equal(2019, cli.Year)
	s.Require().Equal(2, cli.Verbose)
	s.Require().True(cli.FailFast)
	s.Require().Empty(cli.Files)

	_, err = parser.Parse([]string{"-o", "xml"})
	s.Require().NotNil(err)
}

func (s *CLITestSuite) TestNewLogger() {
	ctx := context.Background()

	testCases := []struct {
		description string
		verbosity   int
		enabled     slog.Level
		disabled    slog.Level
	}{
		{
			description: "default",
			verbosity:   0,
			enabled:     slog.LevelWarn,
			disabled:    slog.LevelInfo,
		},
		{
			description: "info",
			verbosity:   1,
			enabled:     slog.LevelInfo,
			disabled:    slog.LevelDebug,
		},
		{
			description: "debug",
			verbosity:   3,
			enabled:     slog.LevelDebug,
			disabled:    slog.LevelDebug - 1,
		},
	}

	for _, tc := range testCases {
		logger := newLogger(&bytes.Buffer{}, tc.verbosity)

		s.Require().True(logger.Enabled(ctx, tc.enabled), tc.description)
		s.Require().False(logger.Enabled(ctx, tc.disabled), tc.description)
	}
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(
		t, new(CLITestSuite),
	)
}

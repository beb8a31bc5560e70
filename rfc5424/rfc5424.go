// Package rfc5424 parses structured syslog lines.
package rfc5424

import (
	"github.com/jeromer/syslogparser/v2"
)

const (
	// according to https://tools.ietf.org/html/rfc5424#section-6.1
	// the length of the packet MUST be 2048 bytes or less.
	// However we will accept a bit more while protecting from exhaustion
	MAX_PACKET_LEN = 3048

	HOSTNAME_MAX_LEN = 255
	APP_NAME_MAX_LEN = 48
	PROC_ID_MAX_LEN  = 128
	MSG_ID_MAX_LEN   = 32
)

var (
	ErrYearInvalid       = syslogparser.NewParserError("Invalid year in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrMonthInvalid      = syslogparser.NewParserError("Invalid month in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrDayInvalid        = syslogparser.NewParserError("Invalid day in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrHourInvalid       = syslogparser.NewParserError("Invalid hour in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrMinuteInvalid     = syslogparser.NewParserError("Invalid minute in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrSecondInvalid     = syslogparser.NewParserError("Invalid second in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrSecFracInvalid    = syslogparser.NewParserError("Invalid fraction of second in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrTimeZoneInvalid   = syslogparser.NewParserError("Invalid time zone in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrInvalidTimeFormat = syslogparser.NewParserError("Invalid time format", syslogparser.ErrInvalidTimestamp)
	ErrInvalidVersion    = &syslogparser.ParserError{ErrorString: "Invalid version"}
	ErrInvalidHostname   = &syslogparser.ParserError{ErrorString: "Invalid hostname"}
	ErrInvalidAppName    = &syslogparser.ParserError{ErrorString: "Invalid app name"}
	ErrInvalidProcId     = &syslogparser.ParserError{ErrorString: "Invalid proc ID"}
	ErrInvalidMsgId      = &syslogparser.ParserError{ErrorString: "Invalid msg ID"}
	ErrMissingSpace      = &syslogparser.ParserError{ErrorString: "Missing space after field"}
)

type headerField struct {
	name   string
	maxLen int
	err    error
	dst    func(*syslogparser.Header[[]byte]) **[]byte
}

// HOSTNAME SP APP-NAME SP PROCID SP MSGID
var textFields = []headerField{
	{"hostname", HOSTNAME_MAX_LEN, ErrInvalidHostname, func(h *syslogparser.Header[[]byte]) **[]byte { return &h.Hostname }},
	{"app_name", APP_NAME_MAX_LEN, ErrInvalidAppName, func(h *syslogparser.Header[[]byte]) **[]byte { return &h.AppName }},
	{"proc_id", PROC_ID_MAX_LEN, ErrInvalidProcId, func(h *syslogparser.Header[[]byte]) **[]byte { return &h.ProcID }},
	{"msg_id", MSG_ID_MAX_LEN, ErrInvalidMsgId, func(h *syslogparser.Header[[]byte]) **[]byte { return &h.MsgID }},
}

// ParseHeader reads
//
//	HEADER = PRI VERSION SP TIMESTAMP SP HOSTNAME SP APP-NAME SP PROCID SP MSGID
//
// and the SP that follows it. It returns the header and the remainder of
// buff: STRUCTURED-DATA [SP MSG]. Text fields share memory with buff.
func ParseHeader(buff []byte) (syslogparser.Header[[]byte], []byte, error) {
	var hdr syslogparser.Header[[]byte]

	cursor := 0
	l := len(buff)

	pri, err := syslogparser.ParsePriority(buff, &cursor, l)
	if err != nil {
		return hdr, nil, syslogparser.NewHeaderError("priority", 0, err)
	}

	pos := cursor

	ver, err := parseVersion(buff, &cursor, l)
	if err != nil {
		return hdr, nil, syslogparser.NewHeaderError("version", pos, err)
	}

	pos = cursor

	ts, err := ParseTimestamp(buff, &cursor, l)
	if err == nil {
		err = expectSpace(buff, &cursor, l)
	}

	if err != nil {
		return hdr, nil, syslogparser.NewHeaderError("timestamp", pos, err)
	}

	hdr.Protocol = syslogparser.ProtocolRFC5424(ver)
	hdr.SetPriority(pri)
	hdr.Timestamp = ts

	for i, f := range textFields {
		pos = cursor

		v, err := parseUpToLen(buff, &cursor, l, f.maxLen, f.err)
		if err != nil {
			return syslogparser.Header[[]byte]{}, nil, syslogparser.NewHeaderError(f.name, pos, err)
		}

		*f.dst(&hdr) = v

		// SP after MSGID is optional when nothing follows
		if i == len(textFields)-1 && cursor == l {
			break
		}

		if err = expectSpace(buff, &cursor, l); err != nil {
			return syslogparser.Header[[]byte]{}, nil, syslogparser.NewHeaderError(f.name, pos, err)
		}
	}

	return hdr, buff[cursor:l], nil
}

// Parse reads a full RFC5424 line:
//
//	SYSLOG-MSG = HEADER SP STRUCTURED-DATA [SP MSG]
//
// The message shares memory with buff, except for structured data values
// holding escape sequences.
func Parse(buff []byte) (syslogparser.Message[[]byte], error) {
	hdr, rest, err := ParseHeader(buff)
	if err != nil {
		return syslogparser.Message[[]byte]{}, err
	}

	cursor := 0
	l := len(rest)

	sd, err := syslogparser.ParseStructuredData(rest, &cursor, l)
	if err != nil {
		return syslogparser.Message[[]byte]{}, err
	}

	if cursor < l {
		if rest[cursor] != ' ' {
			return syslogparser.Message[[]byte]{}, syslogparser.ErrSDTrailingCharacters
		}

		cursor++
	}

	return syslogparser.NewMessage(hdr, sd, rest[cursor:l]), nil
}

// VERSION = NONZERO-DIGIT 0*2DIGIT
func parseVersion(buff []byte, cursor *int, l int) (int, error) {
	v, err := syslogparser.ParseVersion(buff, cursor, l)
	if err != nil {
		return 0, err
	}

	if v == syslogparser.NO_VERSION {
		return 0, ErrInvalidVersion
	}

	if err = expectSpace(buff, cursor, l); err != nil {
		return 0, ErrInvalidVersion
	}

	return v, nil
}

// parseUpToLen reads NILVALUE / 1*maxLen PRINTUSASCII. NILVALUE yields nil.
// It fails with ErrEOL when the line ends where the field should start.
func parseUpToLen(buff []byte, cursor *int, l int, maxLen int, e error) (*[]byte, error) {
	to := *cursor

	v, err := syslogparser.ParseHostname(buff, &to, l)
	if err != nil {
		return nil, syslogparser.ErrEOL
	}

	if len(v) == 0 || len(v) > maxLen {
		return nil, e
	}

	for _, c := range v {
		if !syslogparser.IsPrintUSASCII(c) {
			return nil, e
		}
	}

	*cursor = to

	if len(v) == 1 && v[0] == syslogparser.NILVALUE {
		return nil, nil
	}

	return &v, nil
}

func expectSpace(buff []byte, cursor *int, l int) error {
	if *cursor >= l {
		return syslogparser.ErrEOL
	}

	if buff[*cursor] != ' ' {
		return ErrMissingSpace
	}

	*cursor++

	return nil
}

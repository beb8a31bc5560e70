// Package rfc3164 parses BSD syslog lines.
//
// RFC3164 timestamps carry no year: every entry point takes a YearResolver
// and the resulting timestamp is anchored in UTC.
package rfc3164

import (
	"bytes"

	"github.com/jeromer/syslogparser/v2"
)

const (
	// according to https://tools.ietf.org/html/rfc3164#section-4.1
	// "The total length of the packet MUST be 1024 bytes or less"
	// However we will accept a bit more while protecting from exhaustion
	MAX_PACKET_LEN = 2048

	TAG_SEPARATOR = ':'
	PID_START     = '['
	PID_END       = ']'
)

var (
	ErrMonthInvalid   = syslogparser.NewParserError("Invalid month in timestamp", syslogparser.ErrInvalidMonth)
	ErrDayInvalid     = syslogparser.NewParserError("Invalid day in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrHourInvalid    = syslogparser.NewParserError("Invalid hour in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrMinuteInvalid  = syslogparser.NewParserError("Invalid minute in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrSecondInvalid  = syslogparser.NewParserError("Invalid second in timestamp", syslogparser.ErrInvalidTimestamp)
	ErrNoYearResolver = syslogparser.NewParserError("No year resolver given", syslogparser.ErrInvalidTimestamp)
)

// ParseHeader reads PRI, TIMESTAMP and, when present, HOSTNAME and the tag
// of an RFC3164 line. It returns the header and the unparsed remainder of
// buff, which is the message content.
//
// HOSTNAME and the tag are optional: "<34>Oct 11 22:14:15: msg" has
// neither. Each is taken greedily when a token is found and a token taken
// is never given back to the content. A ':' right after the last token is
// dropped along with the spaces following it.
func ParseHeader(buff []byte, resolve YearResolver) (syslogparser.Header[[]byte], []byte, error) {
	var hdr syslogparser.Header[[]byte]

	cursor := 0
	l := len(buff)

	pri, err := syslogparser.ParsePriority(buff, &cursor, l)
	if err != nil {
		return hdr, nil, syslogparser.NewHeaderError("priority", 0, err)
	}

	skipSpaces(buff, &cursor, l)

	tsPos := cursor

	if resolve == nil {
		return hdr, nil, syslogparser.NewHeaderError("timestamp", tsPos, ErrNoYearResolver)
	}

	date, err := ParseTimestamp(buff, &cursor, l)
	if err != nil {
		return hdr, nil, syslogparser.NewHeaderError("timestamp", tsPos, err)
	}

	ts, err := date.Time(resolve(date))
	if err != nil {
		return hdr, nil, syslogparser.NewHeaderError("timestamp", tsPos, err)
	}

	hdr.Protocol = syslogparser.PROTOCOL_RFC3164
	hdr.SetPriority(pri)
	hdr.Timestamp = &ts

	if h, ok := parseToken(buff, &cursor, l, isHostnameChar); ok {
		hdr.Hostname = nilIfNilValue(h)
	}

	if t, ok := parseTag(buff, &cursor, l); ok {
		hdr.AppName = nilIfNilValue(t)
	}

	if cursor < l && buff[cursor] == TAG_SEPARATOR {
		cursor++
	}

	skipSpaces(buff, &cursor, l)

	return hdr, buff[cursor:l], nil
}

// Parse reads a full RFC3164 line. The message shares memory with buff.
func Parse(buff []byte, resolve YearResolver) (syslogparser.Message[[]byte], error) {
	hdr, content, err := ParseHeader(buff, resolve)
	if err != nil {
		return syslogparser.Message[[]byte]{}, err
	}

	return syslogparser.NewMessage(hdr, nil, content), nil
}

// parseToken reads SP+ followed by one or more chars accepted by valid.
// Nothing is consumed when no such token follows.
func parseToken(buff []byte, cursor *int, l int, valid func(byte) bool) ([]byte, bool) {
	from := *cursor

	if !skipSpaces(buff, &from, l) {
		return nil, false
	}

	to := from
	for to < l && valid(buff[to]) {
		to++
	}

	if to == from {
		return nil, false
	}

	*cursor = to

	return buff[from:to], true
}

// http://tools.ietf.org/html/rfc3164#section-4.1.3
//
// parseTag reads the TAG, an optional "[pid]" suffix is consumed but not
// kept: RFC3164 has no PROCID.
func parseTag(buff []byte, cursor *int, l int) ([]byte, bool) {
	tag, ok := parseToken(buff, cursor, l, isTagChar)
	if !ok {
		return nil, false
	}

	if *cursor < l && buff[*cursor] == PID_START {
		// the pid has to be closed before the next space
		end := l
		if next, err := syslogparser.FindNextSpace(buff, *cursor, l); err == nil {
			end = next - 1
		}

		if i := bytes.IndexByte(buff[*cursor:end], PID_END); i >= 0 {
			*cursor += i + 1
		}
	}

	return tag, true
}

func isHostnameChar(c byte) bool {
	return c != ' ' && c != TAG_SEPARATOR
}

func isTagChar(c byte) bool {
	return c != ' ' && c != TAG_SEPARATOR && c != PID_START
}

func nilIfNilValue(v []byte) *[]byte {
	if len(v) == 1 && v[0] == syslogparser.NILVALUE {
		return nil
	}

	return &v
}

package rfc5424

import (
	"time"

	"github.com/jeromer/syslogparser/v2"
)

const (
	// DATE-FULLYEAR = 4DIGIT
	yearLen = 4

	// TIME-SECFRAC = "." 1*6DIGIT
	maxSecFracLen = 6
)

// Every 2DIGIT field of FULL-DATE "T" PARTIAL-TIME after the year, with the
// separator that precedes it.
var dateTimeFields = [...]struct {
	sep byte
	min int
	max int
	err error
}{
	{'-', 1, 12, ErrMonthInvalid},  // DATE-MONTH
	{'-', 1, 31, ErrDayInvalid},    // DATE-MDAY, checked against the month below
	{'T', 0, 23, ErrHourInvalid},   // TIME-HOUR
	{':', 0, 59, ErrMinuteInvalid}, // TIME-MINUTE
	{':', 0, 59, ErrSecondInvalid}, // TIME-SECOND
}

// https://tools.ietf.org/html/rfc5424#section-6.2.3
//
// ParseTimestamp reads TIMESTAMP = NILVALUE / FULL-DATE "T" FULL-TIME.
// NILVALUE yields a nil time. The cursor only moves on success.
func ParseTimestamp(buff []byte, cursor *int, l int) (*time.Time, error) {
	to := *cursor

	if to >= l {
		return nil, syslogparser.ErrTimestampUnknownFormat
	}

	if buff[to] == syslogparser.NILVALUE {
		*cursor = to + 1
		return nil, nil
	}

	year, err := parseYear(buff, &to, l)
	if err != nil {
		return nil, err
	}

	// month, day, hour, minute, second
	var v [len(dateTimeFields)]int

	for i, f := range dateTimeFields {
		if err = expect(buff, &to, l, f.sep); err != nil {
			return nil, err
		}

		v[i], err = syslogparser.Parse2Digits(buff, &to, l, f.min, f.max, f.err)
		if err != nil {
			return nil, err
		}
	}

	nSec := 0

	if to < l && buff[to] == '.' {
		to++

		if nSec, err = parseSecFrac(buff, &to, l); err != nil {
			return nil, err
		}
	}

	loc, err := parseTimeOffset(buff, &to, l)
	if err != nil {
		return nil, err
	}

	ts := time.Date(year, time.Month(v[0]), v[1], v[2], v[3], v[4], nSec, loc)

	// Feb 30 and friends are normalized by time.Date
	if ts.Day() != v[1] {
		return nil, ErrDayInvalid
	}

	*cursor = to

	return &ts, nil
}

func parseYear(buff []byte, cursor *int, l int) (int, error) {
	if *cursor+yearLen > l {
		return 0, ErrYearInvalid
	}

	year := 0

	for _, c := range buff[*cursor : *cursor+yearLen] {
		if !syslogparser.IsDigit(c) {
			return 0, ErrYearInvalid
		}

		year = year*10 + int(c-'0')
	}

	*cursor += yearLen

	return year, nil
}

// parseSecFrac returns the 1 to 6 digits following "." as nanoseconds.
func parseSecFrac(buff []byte, cursor *int, l int) (int, error) {
	from := *cursor
	to := from
	nSec := 0

	for ; to < l && to-from < maxSecFracLen && syslogparser.IsDigit(buff[to]); to++ {
		nSec = nSec*10 + int(buff[to]-'0')
	}

	if to == from || (to < l && syslogparser.IsDigit(buff[to])) {
		return 0, ErrSecFracInvalid
	}

	for i := to - from; i < 9; i++ {
		nSec *= 10
	}

	*cursor = to

	return nSec, nil
}

// TIME-OFFSET    = "Z" / TIME-NUMOFFSET
// TIME-NUMOFFSET = ("+" / "-") TIME-HOUR ":" TIME-MINUTE
func parseTimeOffset(buff []byte, cursor *int, l int) (*time.Location, error) {
	if *cursor >= l {
		return nil, ErrTimeZoneInvalid
	}

	sign := 1

	switch buff[*cursor] {
	case 'Z':
		*cursor++
		return time.UTC, nil
	case '+':
	case '-':
		sign = -1
	default:
		return nil, ErrTimeZoneInvalid
	}

	to := *cursor + 1

	hour, err := syslogparser.Parse2Digits(buff, &to, l, 0, 23, ErrTimeZoneInvalid)
	if err != nil {
		return nil, err
	}

	if err = expect(buff, &to, l, ':'); err != nil {
		return nil, ErrTimeZoneInvalid
	}

	minute, err := syslogparser.Parse2Digits(buff, &to, l, 0, 59, ErrTimeZoneInvalid)
	if err != nil {
		return nil, err
	}

	*cursor = to

	return time.FixedZone("", sign*(hour*3600+minute*60)), nil
}

func expect(buff []byte, cursor *int, l int, c byte) error {
	if *cursor >= l || buff[*cursor] != c {
		return ErrInvalidTimeFormat
	}

	*cursor++

	return nil
}

package rfc3164

import (
	"time"

	"github.com/jeromer/syslogparser/v2"
)

// IncompleteDate is a TIMESTAMP as found on the wire: there is no year and
// no time zone.
type IncompleteDate struct {
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// YearResolver returns the year an IncompleteDate belongs to. It is called
// at most once per parsed timestamp.
type YearResolver func(IncompleteDate) int

// FixedYear always resolves to year.
func FixedYear(year int) YearResolver {
	return func(IncompleteDate) int {
		return year
	}
}

// CurrentYear resolves to the year of now(), or to the previous one when the
// date would be more than a day ahead of now().
func CurrentYear(now func() time.Time) YearResolver {
	return func(d IncompleteDate) int {
		n := now().UTC()
		y := n.Year()

		ts := time.Date(y, d.Month, d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)
		if ts.After(n.Add(24 * time.Hour)) {
			y--
		}

		return y
	}
}

// Time anchors d in year, in UTC. It fails on dates that do not exist in
// that year, eg. Feb 29 on a non leap year.
func (d IncompleteDate) Time(year int) (time.Time, error) {
	ts := time.Date(year, d.Month, d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)

	if ts.Month() != d.Month || ts.Day() != d.Day {
		return time.Time{}, ErrDayInvalid
	}

	return ts, nil
}

var months = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// ParseMonth reads a three letter month name, case sensitive.
func ParseMonth(buff []byte, cursor *int, l int) (time.Month, error) {
	monthLen := 3

	if *cursor+monthLen > l {
		return 0, ErrMonthInvalid
	}

	sub := string(buff[*cursor : *cursor+monthLen])

	for i, m := range months {
		if m == sub {
			*cursor += monthLen
			return time.Month(i + 1), nil
		}
	}

	return 0, ErrMonthInvalid
}

// https://tools.ietf.org/html/rfc3164#section-4.1.2
//
// ParseTimestamp reads "Mmm dd hh:mm:ss". Fields may be separated by more
// than one space, the day may be space padded.
func ParseTimestamp(buff []byte, cursor *int, l int) (IncompleteDate, error) {
	var d IncompleteDate
	var err error

	to := *cursor

	d.Month, err = ParseMonth(buff, &to, l)
	if err != nil {
		return d, err
	}

	if !skipSpaces(buff, &to, l) {
		return d, syslogparser.ErrTimestampUnknownFormat
	}

	d.Day, err = parseUpTo2Digits(buff, &to, l, 1, 31, ErrDayInvalid)
	if err != nil {
		return d, err
	}

	if !skipSpaces(buff, &to, l) {
		return d, syslogparser.ErrTimestampUnknownFormat
	}

	d.Hour, err = parseUpTo2Digits(buff, &to, l, 0, 23, ErrHourInvalid)
	if err != nil {
		return d, err
	}

	if err = expectColon(buff, &to, l); err != nil {
		return d, err
	}

	d.Minute, err = parseUpTo2Digits(buff, &to, l, 0, 59, ErrMinuteInvalid)
	if err != nil {
		return d, err
	}

	if err = expectColon(buff, &to, l); err != nil {
		return d, err
	}

	d.Second, err = parseUpTo2Digits(buff, &to, l, 0, 59, ErrSecondInvalid)
	if err != nil {
		return d, err
	}

	*cursor = to

	return d, nil
}

func parseUpTo2Digits(buff []byte, cursor *int, l int, min int, max int, e error) (int, error) {
	v := 0
	to := *cursor

	for ; to < l && to-*cursor < 2 && syslogparser.IsDigit(buff[to]); to++ {
		v = v*10 + int(buff[to]-'0')
	}

	if to == *cursor || v < min || v > max {
		return 0, e
	}

	*cursor = to

	return v, nil
}

func expectColon(buff []byte, cursor *int, l int) error {
	if *cursor >= l || buff[*cursor] != ':' {
		return syslogparser.ErrTimestampUnknownFormat
	}

	*cursor++

	return nil
}

// skipSpaces reports whether at least one space was skipped.
func skipSpaces(buff []byte, cursor *int, l int) bool {
	from := *cursor

	for *cursor < l && buff[*cursor] == ' ' {
		*cursor++
	}

	return *cursor > from
}

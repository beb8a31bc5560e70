package syslogparser

const (
	NO_VERSION = -1

	NILVALUE = '-'

	// VERSION = NONZERO-DIGIT 0*2DIGIT
	VERSION_MAX_LEN = 3
)

// ParseVersion reads the RFC5424 VERSION field. A non digit at cursor is
// not an error, it means the message carries no version (RFC3164).
func ParseVersion(buff []byte, cursor *int, l int) (int, error) {
	if *cursor >= l {
		return NO_VERSION, ErrVersionNotFound
	}

	if !IsDigit(buff[*cursor]) || buff[*cursor] == '0' {
		return NO_VERSION, nil
	}

	v := 0
	to := *cursor

	for ; to < l && to-*cursor < VERSION_MAX_LEN; to++ {
		c := buff[to]
		if !IsDigit(c) {
			break
		}

		v = v*10 + int(c-'0')
	}

	*cursor = to

	return v, nil
}

// ParseHostname returns the bytes up to the next space or the end of the
// buffer. The returned slice shares memory with buff.
func ParseHostname(buff []byte, cursor *int, l int) ([]byte, error) {
	from := *cursor

	if from >= l {
		return nil, ErrHostnameTooShort
	}

	var to int

	for to = from; to < l; to++ {
		if buff[to] == ' ' {
			break
		}
	}

	*cursor = to

	return buff[from:to], nil
}

// FindNextSpace returns the offset right after the next space.
func FindNextSpace(buff []byte, from int, l int) (int, error) {
	var to int

	for to = from; to < l; to++ {
		if buff[to] == ' ' {
			to++
			return to, nil
		}
	}

	return 0, ErrNoSpace
}

// Parse2Digits reads exactly two digits and checks they are within
// [min, max]. e is returned on any failure.
func Parse2Digits(buff []byte, cursor *int, l int, min int, max int, e error) (int, error) {
	digitLen := 2

	if *cursor+digitLen > l {
		return 0, e
	}

	c1, c2 := buff[*cursor], buff[*cursor+1]
	if !IsDigit(c1) || !IsDigit(c2) {
		return 0, e
	}

	i := int(c1-'0')*10 + int(c2-'0')
	if i < min || i > max {
		return 0, e
	}

	*cursor += digitLen

	return i, nil
}

func IsDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// PRINTUSASCII = %d33-126
func IsPrintUSASCII(c byte) bool {
	return c >= 33 && c <= 126
}

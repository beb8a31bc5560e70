// Package syslogparser implements functions to parse and render RFC3164 and
// RFC5424 syslog messages.
// syslogparser provides one subpackage per RFC, both producing the Message
// type defined here.
package syslogparser

type RFC uint8

const (
	RFC_UNKNOWN RFC = iota
	RFC_3164
	RFC_5424
)

// Where to look for the end of PRI when detecting the RFC.
const detectMaxLen = 10

type LogParts map[string]interface{}

type LogParser interface {
	Parse() error
	Dump() LogParts
	Message() Message[string]
}

// DetectRFC tells whether buff looks like an RFC5424 message (a VERSION
// follows PRI) or an RFC3164 one.
func DetectRFC(buff []byte) (RFC, error) {
	max := detectMaxLen
	if len(buff) < max {
		max = len(buff)
	}

	for i := 0; i < max; i++ {
		if buff[i] != PRI_PART_END {
			continue
		}

		x := i + 1

		v, err := ParseVersion(buff, &x, len(buff))
		if err != nil {
			return RFC_UNKNOWN, err
		}

		if v == NO_VERSION {
			return RFC_3164, nil
		}

		return RFC_5424, nil
	}

	return RFC_UNKNOWN, ErrPriorityNoEnd
}

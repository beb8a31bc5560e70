package syslogparser

const (
	PRI_PART_START = '<'
	PRI_PART_END   = '>'

	// "<" + 3 digits
	PRI_PART_MAX_LEN = 4

	MAX_PRIORITY = 191
)

// Facility is the origin of a message, the high five bits of PRI.
type Facility uint8

const (
	LOG_KERN Facility = iota
	LOG_USER
	LOG_MAIL
	LOG_DAEMON
	LOG_AUTH
	LOG_SYSLOG
	LOG_LPR
	LOG_NEWS
	LOG_UUCP
	LOG_CRON
	LOG_AUTHPRIV
	LOG_FTP
	LOG_NTP
	LOG_SECURITY
	LOG_CONSOLE
	LOG_SOLARISCRON
	LOG_LOCAL0
	LOG_LOCAL1
	LOG_LOCAL2
	LOG_LOCAL3
	LOG_LOCAL4
	LOG_LOCAL5
	LOG_LOCAL6
	LOG_LOCAL7
)

var facilityNames = [...]string{
	"kern", "user", "mail", "daemon",
	"auth", "syslog", "lpr", "news",
	"uucp", "cron", "authpriv", "ftp",
	"ntp", "security", "console", "solaris-cron",
	"local0", "local1", "local2", "local3",
	"local4", "local5", "local6", "local7",
}

func (f Facility) String() string {
	if int(f) < len(facilityNames) {
		return facilityNames[f]
	}

	return "unknown"
}

// Severity is the urgency of a message, the low three bits of PRI.
type Severity uint8

const (
	LOG_EMERG Severity = iota
	LOG_ALERT
	LOG_CRIT
	LOG_ERR
	LOG_WARNING
	LOG_NOTICE
	LOG_INFO
	LOG_DEBUG
)

var severityNames = [...]string{
	"emerg", "alert", "crit", "err",
	"warning", "notice", "info", "debug",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}

	return "unknown"
}

type Priority struct {
	P int
	F Facility
	S Severity
}

// ComposePriority returns the PRI value for f and s.
func ComposePriority(f Facility, s Severity) int {
	return int(f)*8 + int(s)
}

// DecodePriority splits p into its facility and severity. It fails with
// ErrOutOfRange when p is not in [0, 191].
func DecodePriority(p int) (Priority, error) {
	if p < 0 || p > MAX_PRIORITY {
		return Priority{}, ErrPriorityOutOfRange
	}

	return NewPriority(p), nil
}

// NewPriority does not validate p, use DecodePriority for untrusted values.
func NewPriority(p int) Priority {
	// The Priority value is calculated by first multiplying the Facility
	// number by 8 and then adding the numerical value of the Severity.
	return Priority{
		P: p,
		F: Facility(p / 8),
		S: Severity(p % 8),
	}
}

// ParsePriority reads a "<NNN>" token starting at cursor. The cursor is
// moved past the closing bracket on success and left untouched otherwise.
func ParsePriority(buff []byte, cursor *int, l int) (Priority, error) {
	if *cursor >= l {
		return Priority{}, ErrPriorityEmpty
	}

	if buff[*cursor] != PRI_PART_START {
		return Priority{}, ErrPriorityNoStart
	}

	priDigit := 0

	for i := 1; *cursor+i < l; i++ {
		c := buff[*cursor+i]

		if c == PRI_PART_END {
			if i == 1 {
				return Priority{}, ErrPriorityTooShort
			}

			pri, err := DecodePriority(priDigit)
			if err != nil {
				return Priority{}, err
			}

			*cursor += i + 1

			return pri, nil
		}

		if i == PRI_PART_MAX_LEN {
			return Priority{}, ErrPriorityTooLong
		}

		if !IsDigit(c) {
			return Priority{}, ErrPriorityNonDigit
		}

		priDigit = (priDigit * 10) + int(c-'0')
	}

	return Priority{}, ErrPriorityNoEnd
}

package syslogparser

import (
	"strconv"
	"time"
)

const (
	// RFC3339 with at most microseconds, TIME-SECFRAC = "." 1*6DIGIT
	RFC5424_TIMESTAMP_FORMAT = "2006-01-02T15:04:05.999999Z07:00"

	// Used when rendering a message that carries no priority.
	DEFAULT_FACILITY = LOG_SYSLOG
	DEFAULT_SEVERITY = LOG_DEBUG
)

// Text is the storage of every text field of a Header or Message. Parsers
// return the []byte form, borrowing from the input buffer. The string form
// owns its memory, see Message.Owned.
type Text interface {
	~string | ~[]byte
}

// Protocol tells which grammar a message follows.
type Protocol struct {
	RFC     RFC
	Version int
}

var PROTOCOL_RFC3164 = Protocol{RFC: RFC_3164, Version: NO_VERSION}

func ProtocolRFC5424(version int) Protocol {
	return Protocol{RFC: RFC_5424, Version: version}
}

func (p Protocol) String() string {
	switch p.RFC {
	case RFC_3164:
		return "RFC3164"
	case RFC_5424:
		return "RFC5424(" + strconv.Itoa(p.Version) + ")"
	}

	return "unknown"
}

// Header holds the decoded header fields. A nil field was absent on the
// wire, or given as NILVALUE.
type Header[T Text] struct {
	Protocol  Protocol
	Facility  *Facility
	Severity  *Severity
	Timestamp *time.Time
	Hostname  *T
	AppName   *T
	ProcID    *T
	MsgID     *T
}

// SetPriority fills Facility and Severity from a decoded PRI.
func (h *Header[T]) SetPriority(pri Priority) {
	f, s := pri.F, pri.S
	h.Facility = &f
	h.Severity = &s
}

func (h Header[T]) owned() Header[string] {
	return Header[string]{
		Protocol:  h.Protocol,
		Facility:  copyOptional(h.Facility),
		Severity:  copyOptional(h.Severity),
		Timestamp: copyOptional(h.Timestamp),
		Hostname:  ownedText(h.Hostname),
		AppName:   ownedText(h.AppName),
		ProcID:    ownedText(h.ProcID),
		MsgID:     ownedText(h.MsgID),
	}
}

// Message is a complete syslog line. StructuredData is always empty for
// RFC3164 messages.
type Message[T Text] struct {
	Header[T]
	StructuredData []StructuredElement[T]
	Msg            T
}

func NewMessage[T Text](hdr Header[T], sd []StructuredElement[T], msg T) Message[T] {
	return Message[T]{
		Header:         hdr,
		StructuredData: sd,
		Msg:            msg,
	}
}

// Owned returns a copy of m that shares no memory with the buffer m was
// parsed from.
func (m Message[T]) Owned() Message[string] {
	o := Message[string]{
		Header: m.Header.owned(),
		Msg:    string(m.Msg),
	}

	if len(m.StructuredData) > 0 {
		o.StructuredData = make([]StructuredElement[string], len(m.StructuredData))
		for i, e := range m.StructuredData {
			o.StructuredData[i] = e.owned()
		}
	}

	return o
}

// Equal compares every field but Protocol: an RFC3164 and an RFC5424
// message carrying the same values are equal. Timestamps are compared as
// instants. A nil and an empty StructuredData are equal.
func (m Message[T]) Equal(o Message[T]) bool {
	return optionalEqual(m.Facility, o.Facility) &&
		optionalEqual(m.Severity, o.Severity) &&
		timestampEqual(m.Timestamp, o.Timestamp) &&
		textEqual(m.Hostname, o.Hostname) &&
		textEqual(m.AppName, o.AppName) &&
		textEqual(m.ProcID, o.ProcID) &&
		textEqual(m.MsgID, o.MsgID) &&
		structuredDataEqual(m.StructuredData, o.StructuredData) &&
		string(m.Msg) == string(o.Msg)
}

// Priority returns the PRI m is rendered with.
func (m Message[T]) Priority() Priority {
	f, s := DEFAULT_FACILITY, DEFAULT_SEVERITY

	if m.Facility != nil {
		f = *m.Facility
	}

	if m.Severity != nil {
		s = *m.Severity
	}

	return NewPriority(ComposePriority(f, s))
}

// AppendTo renders m as a single wire line:
//
//	<PRI>VERSION SP TIMESTAMP SP HOSTNAME SP APP-NAME SP PROCID SP MSGID SP SD SP MSG
//
// VERSION is empty for RFC3164 and so is SD when there is none. now is
// rendered when m has no timestamp. TIMESTAMP carries at most 6 fractional
// digits: sub-microsecond precision is dropped, trailing zeros are trimmed.
func (m Message[T]) AppendTo(dst []byte, now time.Time) []byte {
	dst = append(dst, PRI_PART_START)
	dst = strconv.AppendInt(dst, int64(m.Priority().P), 10)
	dst = append(dst, PRI_PART_END)

	if m.Protocol.RFC == RFC_5424 {
		dst = strconv.AppendInt(dst, int64(m.Protocol.Version), 10)
	}

	ts := now
	if m.Timestamp != nil {
		ts = *m.Timestamp
	}

	dst = append(dst, ' ')
	dst = ts.AppendFormat(dst, RFC5424_TIMESTAMP_FORMAT)

	for _, f := range []*T{m.Hostname, m.AppName, m.ProcID, m.MsgID} {
		dst = append(dst, ' ')
		dst = appendOptional(dst, f)
	}

	dst = append(dst, ' ')

	if len(m.StructuredData) > 0 {
		dst = AppendStructuredData(dst, m.StructuredData)
	} else if m.Protocol.RFC == RFC_5424 {
		dst = append(dst, NILVALUE)
	}

	dst = append(dst, ' ')

	return append(dst, m.Msg...)
}

func (m Message[T]) Render(now time.Time) string {
	return string(m.AppendTo(nil, now))
}

// String renders m, using the wall clock when m has no timestamp.
func (m Message[T]) String() string {
	return m.Render(time.Now())
}

// Dump flattens m. Absent fields are left out.
func (m Message[T]) Dump() LogParts {
	parts := LogParts{
		"message": string(m.Msg),
	}

	if m.Facility != nil && m.Severity != nil {
		parts["priority"] = m.Priority().P
	}

	if m.Facility != nil {
		parts["facility"] = int(*m.Facility)
	}

	if m.Severity != nil {
		parts["severity"] = int(*m.Severity)
	}

	if m.Protocol.RFC == RFC_5424 {
		parts["version"] = m.Protocol.Version
	}

	if m.Timestamp != nil {
		parts["timestamp"] = *m.Timestamp
	}

	for k, f := range map[string]*T{
		"hostname": m.Hostname,
		"app_name": m.AppName,
		"proc_id":  m.ProcID,
		"msg_id":   m.MsgID,
	} {
		if f != nil {
			parts[k] = string(*f)
		}
	}

	if len(m.StructuredData) > 0 {
		parts["structured_data"] = string(AppendStructuredData(nil, m.StructuredData))
	}

	return parts
}

func appendOptional[T Text](dst []byte, v *T) []byte {
	if v == nil {
		return append(dst, NILVALUE)
	}

	return append(dst, *v...)
}

func copyOptional[V any](v *V) *V {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}

func ownedText[T Text](v *T) *string {
	if v == nil {
		return nil
	}

	s := string(*v)

	return &s
}

func textEqual[T Text](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}

	return string(*a) == string(*b)
}

func optionalEqual[V comparable](a, b *V) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func timestampEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(*b)
}

package syslogparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MessageTestSuite struct {
	suite.Suite
}

func ptr[V any](v V) *V {
	return &v
}

func fullMessage() Message[string] {
	return Message[string]{
		Header: Header[string]{
			Protocol:  ProtocolRFC5424(1),
			Facility:  ptr(LOG_LOCAL4),
			Severity:  ptr(LOG_NOTICE),
			Timestamp: ptr(time.Date(2003, time.October, 11, 22, 14, 15, 3000000, time.UTC)),
			Hostname:  ptr("mymachine.example.com"),
			AppName:   ptr("evntslog"),
			MsgID:     ptr("ID47"),
		},
		StructuredData: []StructuredElement[string]{
			{
				ID: "exampleSDID@32473",
				Params: []SDParam[string]{
					{Name: "iut", Value: "3"},
					{Name: "eventSource", Value: "Application"},
				},
			},
		},
		Msg: "An application event log entry...",
	}
}

func (s *MessageTestSuite) TestRender_RFC5424() {
	s.Require().Equal(
		`<165>1 2003-10-11T22:14:15.003Z mymachine.example.com evntslog - ID47 [exampleSDID@32473 iut="3" eventSource="Application"] An application event log entry...`,
		fullMessage().Render(time.Time{}),
	)
}

func (s *MessageTestSuite) TestRender_NoStructuredData() {
	m := fullMessage()
	m.StructuredData = nil

	s.Require().Equal(
		`<165>1 2003-10-11T22:14:15.003Z mymachine.example.com evntslog - ID47 - An application event log entry...`,
		m.Render(time.Time{}),
	)

	m.Protocol = PROTOCOL_RFC3164

	s.Require().Equal(
		`<165> 2003-10-11T22:14:15.003Z mymachine.example.com evntslog - ID47  An application event log entry...`,
		m.Render(time.Time{}),
	)
}

func (s *MessageTestSuite) TestRender_Offset() {
	m := fullMessage()
	m.Timestamp = ptr(time.Date(2003, time.August, 24, 5, 14, 15, 3000, time.FixedZone("", -7*3600)))

	s.Require().Contains(m.Render(time.Time{}), " 2003-08-24T05:14:15.000003-07:00 ")
}

func (s *MessageTestSuite) TestRender_SubMicrosecond() {
	m := fullMessage()
	m.Timestamp = ptr(time.Date(2003, time.October, 11, 22, 14, 15, 123456789, time.UTC))

	s.Require().Contains(m.Render(time.Time{}), " 2003-10-11T22:14:15.123456Z ")

	m.Timestamp = ptr(time.Date(2003, time.October, 11, 22, 14, 15, 999, time.UTC))

	s.Require().Contains(m.Render(time.Time{}), " 2003-10-11T22:14:15Z ")
}

func (s *MessageTestSuite) TestRender_Defaults() {
	now := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)
	m := Message[string]{
		Header: Header[string]{Protocol: ProtocolRFC5424(1)},
		Msg:    "hello",
	}

	s.Require().Equal(
		"<47>1 2020-01-02T03:04:05Z - - - - - hello",
		m.Render(now),
	)

	// defaults are not written back
	s.Require().Nil(m.Facility)
	s.Require().Nil(m.Severity)
	s.Require().Nil(m.Timestamp)
}

func (s *MessageTestSuite) TestRender_BorrowedEqualsOwned() {
	m := fullMessage()

	borrowed := Message[[]byte]{
		Header: Header[[]byte]{
			Protocol:  m.Protocol,
			Facility:  m.Facility,
			Severity:  m.Severity,
			Timestamp: m.Timestamp,
			Hostname:  ptr([]byte(*m.Hostname)),
			AppName:   ptr([]byte(*m.AppName)),
			MsgID:     ptr([]byte(*m.MsgID)),
		},
		StructuredData: []StructuredElement[[]byte]{
			{
				ID: []byte("exampleSDID@32473"),
				Params: []SDParam[[]byte]{
					{Name: []byte("iut"), Value: []byte("3")},
					{Name: []byte("eventSource"), Value: []byte("Application")},
				},
			},
		},
		Msg: []byte(m.Msg),
	}

	s.Require().Equal(m.Render(time.Time{}), borrowed.Render(time.Time{}))
	s.Require().Equal(m, borrowed.Owned())
	s.Require().True(m.Equal(borrowed.Owned()))
}

func (s *MessageTestSuite) TestOwned_Copies() {
	host := []byte("host")
	value := []byte("v")
	body := []byte("body")

	borrowed := Message[[]byte]{
		Header: Header[[]byte]{
			Protocol: PROTOCOL_RFC3164,
			Facility: ptr(LOG_AUTH),
			Hostname: &host,
		},
		StructuredData: []StructuredElement[[]byte]{
			{ID: []byte("id"), Params: []SDParam[[]byte]{{Name: []byte("n"), Value: value}}},
		},
		Msg: body,
	}

	owned := borrowed.Owned()

	host[0] = 'H'
	value[0] = 'V'
	body[0] = 'B'
	*borrowed.Facility = LOG_KERN

	s.Require().Equal("host", *owned.Hostname)
	s.Require().Equal("v", owned.StructuredData[0].Params[0].Value)
	s.Require().Equal("body", owned.Msg)
	s.Require().Equal(LOG_AUTH, *owned.Facility)
	s.Require().Equal(PROTOCOL_RFC3164, owned.Protocol)
	s.Require().Nil(owned.AppName)
}

func (s *MessageTestSuite) TestEqual() {
	a := fullMessage()

	b := fullMessage()
	b.Protocol = PROTOCOL_RFC3164
	s.Require().True(a.Equal(b), "protocol is not compared")

	c := fullMessage()
	c.Timestamp = ptr(a.Timestamp.In(time.FixedZone("", 3600)))
	s.Require().True(a.Equal(c), "same instant")

	d := fullMessage()
	d.StructuredData[0].Params[0], d.StructuredData[0].Params[1] = d.StructuredData[0].Params[1], d.StructuredData[0].Params[0]
	s.Require().False(a.Equal(d), "param order matters")

	e := fullMessage()
	e.ProcID = ptr("")
	s.Require().False(a.Equal(e), "empty is not absent")

	f := fullMessage()
	f.Severity = nil
	s.Require().False(a.Equal(f))

	g := fullMessage()
	g.StructuredData = nil
	h := fullMessage()
	h.StructuredData = []StructuredElement[string]{}
	s.Require().True(g.Equal(h), "nil and empty structured data")

	i := fullMessage()
	i.Msg = "other"
	s.Require().False(a.Equal(i))
}

func (s *MessageTestSuite) TestDump() {
	m := fullMessage()

	s.Require().Equal(
		LogParts{
			"priority":        165,
			"facility":        20,
			"severity":        5,
			"version":         1,
			"timestamp":       *m.Timestamp,
			"hostname":        "mymachine.example.com",
			"app_name":        "evntslog",
			"msg_id":          "ID47",
			"structured_data": `[exampleSDID@32473 iut="3" eventSource="Application"]`,
			"message":         "An application event log entry...",
		},
		m.Dump(),
	)
}

func (s *MessageTestSuite) TestProtocolString() {
	s.Require().Equal("RFC3164", PROTOCOL_RFC3164.String())
	s.Require().Equal("RFC5424(1)", ProtocolRFC5424(1).String())
}

func BenchmarkRender(b *testing.B) {
	m := fullMessage()
	buff := make([]byte, 0, 256)

	for i := 0; i < b.N; i++ {
		buff = m.AppendTo(buff[:0], time.Time{})
	}
}

func TestMessageTestSuite(t *testing.T) {
	suite.Run(
		t, new(MessageTestSuite),
	)
}

package rfc5424

import (
	"github.com/jeromer/syslogparser/v2"
)

// Parser parses a single packet, capped to MAX_PACKET_LEN bytes.
type Parser struct {
	buff    []byte
	l       int
	message syslogparser.Message[[]byte]
}

func NewParser(buff []byte) *Parser {
	return &Parser{
		buff: buff,
		l:    min(len(buff), MAX_PACKET_LEN),
	}
}

func (p *Parser) Parse() error {
	msg, err := Parse(p.buff[:p.l])
	if err != nil {
		return err
	}

	p.message = msg

	return nil
}

// Message returns a copy of the parsed message that does not reference the
// packet buffer.
func (p *Parser) Message() syslogparser.Message[string] {
	return p.message.Owned()
}

func (p *Parser) Dump() syslogparser.LogParts {
	return p.message.Dump()
}

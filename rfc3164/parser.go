package rfc3164

import (
	"github.com/jeromer/syslogparser/v2"
)

// Parser parses a single packet, capped to MAX_PACKET_LEN bytes.
type Parser struct {
	buff    []byte
	l       int
	resolve YearResolver
	message syslogparser.Message[[]byte]
}

func NewParser(buff []byte, resolve YearResolver) *Parser {
	return &Parser{
		buff:    buff,
		l:       min(len(buff), MAX_PACKET_LEN),
		resolve: resolve,
	}
}

func (p *Parser) Parse() error {
	msg, err := Parse(p.buff[:p.l], p.resolve)
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

package syslogparser

// https://tools.ietf.org/html/rfc5424#section-6.3
//
// STRUCTURED-DATA = NILVALUE / 1*SD-ELEMENT
// SD-ELEMENT      = "[" SD-ID *(SP SD-PARAM) "]"
// SD-PARAM        = PARAM-NAME "=" %d34 PARAM-VALUE %d34

const (
	SD_ELEMENT_START = '['
	SD_ELEMENT_END   = ']'
	SD_PARAM_EQUAL   = '='
	SD_VALUE_QUOTE   = '"'
	SD_ESCAPE        = '\\'
)

// SDParam is a single PARAM-NAME="PARAM-VALUE" pair. Value holds the
// unescaped text.
type SDParam[T Text] struct {
	Name  T
	Value T
}

// StructuredElement is one SD-ELEMENT. Params keep their wire order.
type StructuredElement[T Text] struct {
	ID     T
	Params []SDParam[T]
}

// Param returns the value of the first param called name.
func (e StructuredElement[T]) Param(name string) (T, bool) {
	for _, p := range e.Params {
		if string(p.Name) == name {
			return p.Value, true
		}
	}

	var zero T

	return zero, false
}

// Equal compares the ID and the full ordered list of params.
func (e StructuredElement[T]) Equal(o StructuredElement[T]) bool {
	if string(e.ID) != string(o.ID) || len(e.Params) != len(o.Params) {
		return false
	}

	for i, p := range e.Params {
		q := o.Params[i]
		if string(p.Name) != string(q.Name) || string(p.Value) != string(q.Value) {
			return false
		}
	}

	return true
}

// AppendTo renders the element in wire format. Values are always escaped.
func (e StructuredElement[T]) AppendTo(dst []byte) []byte {
	dst = append(dst, SD_ELEMENT_START)
	dst = append(dst, e.ID...)

	for _, p := range e.Params {
		dst = append(dst, ' ')
		dst = append(dst, p.Name...)
		dst = append(dst, SD_PARAM_EQUAL, SD_VALUE_QUOTE)
		dst = AppendEscapedSDValue(dst, p.Value)
		dst = append(dst, SD_VALUE_QUOTE)
	}

	return append(dst, SD_ELEMENT_END)
}

func (e StructuredElement[T]) String() string {
	return string(e.AppendTo(nil))
}

func (e StructuredElement[T]) owned() StructuredElement[string] {
	o := StructuredElement[string]{ID: string(e.ID)}

	if len(e.Params) > 0 {
		o.Params = make([]SDParam[string], len(e.Params))
		for i, p := range e.Params {
			o.Params[i] = SDParam[string]{Name: string(p.Name), Value: string(p.Value)}
		}
	}

	return o
}

// AppendStructuredData renders elems back to back with no separator. Nothing
// is appended for an empty list, the caller decides whether NILVALUE applies.
func AppendStructuredData[T Text](dst []byte, elems []StructuredElement[T]) []byte {
	for _, e := range elems {
		dst = e.AppendTo(dst)
	}

	return dst
}

func structuredDataEqual[T Text](a, b []StructuredElement[T]) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}

	return true
}

// ParseStructuredData reads NILVALUE or one or more consecutive SD-ELEMENTs.
// NILVALUE yields a nil slice. Returned IDs and names share memory with
// buff, values do too unless they contained escape sequences.
func ParseStructuredData(buff []byte, cursor *int, l int) ([]StructuredElement[[]byte], error) {
	if *cursor >= l {
		return nil, ErrSDNoStart
	}

	if buff[*cursor] == NILVALUE {
		*cursor++
		return nil, nil
	}

	var elems []StructuredElement[[]byte]

	to := *cursor

	for to < l && buff[to] == SD_ELEMENT_START {
		e, err := ParseSDElement(buff, &to, l)
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	if len(elems) == 0 {
		return nil, ErrSDNoStart
	}

	*cursor = to

	return elems, nil
}

// ParseSDElement reads a single "[id name="value" ...]" element.
func ParseSDElement(buff []byte, cursor *int, l int) (StructuredElement[[]byte], error) {
	var e StructuredElement[[]byte]

	if *cursor >= l || buff[*cursor] != SD_ELEMENT_START {
		return e, ErrSDNoStart
	}

	from := *cursor + 1
	to := from

	for ; to < l && buff[to] != ' ' && buff[to] != SD_ELEMENT_END; to++ {
		if !isSDNameChar(buff[to]) {
			return e, ErrSDInvalidID
		}
	}

	if to >= l {
		return e, ErrSDUnterminated
	}

	if to == from {
		return e, ErrSDInvalidID
	}

	e.ID = buff[from:to]

	for to < l {
		switch buff[to] {
		case SD_ELEMENT_END:
			*cursor = to + 1
			return e, nil
		case ' ':
			to++

			p, err := parseSDParam(buff, &to, l)
			if err != nil {
				return StructuredElement[[]byte]{}, err
			}

			e.Params = append(e.Params, p)
		default:
			return StructuredElement[[]byte]{}, ErrSDUnterminated
		}
	}

	return StructuredElement[[]byte]{}, ErrSDUnterminated
}

func parseSDParam(buff []byte, cursor *int, l int) (SDParam[[]byte], error) {
	var p SDParam[[]byte]

	from := *cursor
	to := from

	for ; to < l && buff[to] != SD_PARAM_EQUAL; to++ {
		if !isSDNameChar(buff[to]) {
			return p, ErrSDInvalidParamName
		}
	}

	if to >= l {
		return p, ErrSDUnterminated
	}

	if to == from {
		return p, ErrSDInvalidParamName
	}

	name := buff[from:to]

	to++

	if to >= l {
		return p, ErrSDUnterminatedValue
	}

	if buff[to] != SD_VALUE_QUOTE {
		return p, ErrSDMissingValueQuote
	}

	to++
	from = to

	escaped := false

	for ; to < l; to++ {
		c := buff[to]

		if c == SD_ESCAPE && to+1 < l && isSDEscapable(buff[to+1]) {
			escaped = true
			to++
			continue
		}

		if c == SD_VALUE_QUOTE {
			break
		}
	}

	if to >= l {
		return p, ErrSDUnterminatedValue
	}

	p.Name = name
	p.Value = buff[from:to]

	if escaped {
		p.Value = UnescapeSDValue(p.Value)
	}

	*cursor = to + 1

	return p, nil
}

// AppendEscapedSDValue escapes '"', '\' and ']' unconditionally, a
// backslash already present in v is escaped as well.
func AppendEscapedSDValue[T Text](dst []byte, v T) []byte {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if isSDEscapable(c) {
			dst = append(dst, SD_ESCAPE)
		}

		dst = append(dst, c)
	}

	return dst
}

// UnescapeSDValue resolves \" \\ and \] into the escaped character. Any
// other backslash is kept as is. The result never shares memory with raw.
func UnescapeSDValue(raw []byte) []byte {
	v := make([]byte, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == SD_ESCAPE && i+1 < len(raw) && isSDEscapable(raw[i+1]) {
			i++
			c = raw[i]
		}

		v = append(v, c)
	}

	return v
}

// SD-NAME = 1*32PRINTUSASCII except '=', SP, ']', %d34 (")
func isSDNameChar(c byte) bool {
	return c != ' ' && c != SD_PARAM_EQUAL && c != SD_ELEMENT_END && c != SD_VALUE_QUOTE
}

func isSDEscapable(c byte) bool {
	return c == SD_VALUE_QUOTE || c == SD_ESCAPE || c == SD_ELEMENT_END
}

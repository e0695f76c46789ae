package parsers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CSON parses CoffeeScript Object Notation. The supported subset covers
// what data files use in practice: indentation-nested objects, braced
// objects, arrays separated by commas or newlines, single, double and
// triple quoted strings, numbers, booleans (true/false, yes/no, on/off),
// null, and # / ### comments. String interpolation is not evaluated.
func CSON(raw []byte) (any, error) {
	toks, err := lexCSON(string(raw))
	if err != nil {
		return nil, err
	}
	p := &csonParser{toks: toks}
	return p.document()
}

type csonKind int

const (
	csonEOF csonKind = iota
	csonNewline
	csonString
	csonNumber
	csonWord
	csonColon
	csonComma
	csonLBrace
	csonRBrace
	csonLBrack
	csonRBrack
)

var csonPunct = map[byte]csonKind{
	':': csonColon,
	',': csonComma,
	'{': csonLBrace,
	'}': csonRBrace,
	'[': csonLBrack,
	']': csonRBrack,
}

type csonToken struct {
	kind csonKind
	text string
	line int
	col  int
	// bol marks the first token of a line.
	bol bool
}

func (t csonToken) describe() string {
	switch t.kind {
	case csonEOF:
		return "end of input"
	case csonNewline:
		return "newline"
	case csonString:
		return "string"
	default:
		return strconv.Quote(t.text)
	}
}

func csonErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("cson: line %d: %s", line, fmt.Sprintf(format, args...))
}

func lexCSON(src string) ([]csonToken, error) {
	var toks []csonToken
	line, col := 1, 0
	bol := true

	emit := func(kind csonKind, text string, startLine, startCol int) {
		toks = append(toks, csonToken{kind: kind, text: text, line: startLine, col: startCol, bol: bol})
		bol = false
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			toks = append(toks, csonToken{kind: csonNewline, line: line, col: col})
			i++
			line++
			col = 0
			bol = true

		case c == ' ' || c == '\t' || c == '\r':
			i++
			col++

		case c == '#':
			if strings.HasPrefix(src[i:], "###") && !strings.HasPrefix(src[i:], "####") {
				end := strings.Index(src[i+3:], "###")
				if end < 0 {
					return nil, csonErrorf(line, "unterminated block comment")
				}
				block := src[i : i+3+end+3]
				line += strings.Count(block, "\n")
				col = columnAfter(block, col)
				i += len(block)
				continue
			}
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '\'' || c == '"':
			text, n, err := lexCSONString(src[i:], line)
			if err != nil {
				return nil, err
			}
			emit(csonString, text, line, col)
			consumed := src[i : i+n]
			line += strings.Count(consumed, "\n")
			col = columnAfter(consumed, col)
			i += n

		case isCSONNumberStart(src, i):
			j := i + 1
			for j < len(src) && isCSONNumberChar(src[i:j], src[j]) {
				j++
			}
			emit(csonNumber, src[i:j], line, col)
			col += j - i
			i = j

		case isCSONWordStart(c):
			j := i + 1
			for j < len(src) && isCSONWordChar(src[j]) {
				j++
			}
			emit(csonWord, src[i:j], line, col)
			col += j - i
			i = j

		default:
			kind, ok := csonPunct[c]
			if !ok {
				return nil, csonErrorf(line, "unexpected character %q", c)
			}
			emit(kind, string(c), line, col)
			i++
			col++
		}
	}

	toks = append(toks, csonToken{kind: csonEOF, line: line, bol: true})
	return toks, nil
}

func columnAfter(s string, start int) int {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return len(s) - idx - 1
	}
	return start + len(s)
}

func isCSONDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isCSONNumberStart(src string, i int) bool {
	c := src[i]
	if isCSONDigit(c) {
		return true
	}
	if (c == '-' || c == '+' || c == '.') && i+1 < len(src) {
		next := src[i+1]
		if isCSONDigit(next) {
			return true
		}
		return c != '.' && next == '.' && i+2 < len(src) && isCSONDigit(src[i+2])
	}
	return false
}

// isCSONNumberChar reports whether c continues the number literal tok.
func isCSONNumberChar(tok string, c byte) bool {
	switch {
	case isCSONDigit(c), c == '.', c == '_':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '+' || c == '-':
		prev := tok[len(tok)-1]
		return (prev == 'e' || prev == 'E') && !strings.ContainsAny(tok, "xX")
	}
	return false
}

func isCSONWordStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isCSONWordChar(c byte) bool {
	return isCSONWordStart(c) || isCSONDigit(c)
}

// lexCSONString reads the string literal at the start of s and returns its
// unescaped value and the number of bytes consumed.
func lexCSONString(s string, line int) (string, int, error) {
	q := s[:1]
	triple := strings.Repeat(q, 3)

	if strings.HasPrefix(s, triple) {
		end := strings.Index(s[3:], triple)
		if end < 0 {
			return "", 0, csonErrorf(line, "unterminated block string")
		}
		body := dedentBlock(s[3 : 3+end])
		if q == `"` && interpolates(body) {
			return "", 0, csonErrorf(line, "string interpolation is not supported")
		}
		text, err := unescapeCSON(body, line)
		return text, 3 + end + 3, err
	}

	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\n':
			return "", 0, csonErrorf(line, "unterminated string")
		case s[0]:
			if q == `"` && interpolates(s[1:i]) {
				return "", 0, csonErrorf(line, "string interpolation is not supported")
			}
			text, err := unescapeCSON(s[1:i], line)
			return text, i + 1, err
		}
	}
	return "", 0, csonErrorf(line, "unterminated string")
}

// interpolates reports whether body holds an unescaped `#{`.
func interpolates(body string) bool {
	for i := 0; i+1 < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
		case body[i] == '#' && body[i+1] == '{':
			return true
		}
	}
	return false
}

// dedentBlock strips the leading newline, the trailing blank line and the
// common indentation of a block string.
func dedentBlock(body string) string {
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")
	lines := strings.Split(body, "\n")
	if last := lines[len(lines)-1]; strings.TrimSpace(last) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, l := range lines {
		if len(l) >= indent && indent > 0 {
			lines[i] = l[indent:]
		} else if strings.TrimSpace(l) == "" {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

var csonEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 'b': "\b", 'f': "\f", 'v': "\v", '0': "\x00",
}

func unescapeCSON(s string, line int) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		c := s[i]
		if esc, ok := csonEscapes[c]; ok {
			b.WriteString(esc)
			continue
		}
		if c == 'u' {
			if i+4 >= len(s) {
				return "", csonErrorf(line, "short unicode escape")
			}
			r, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", csonErrorf(line, "invalid unicode escape %q", s[i-1:i+5])
			}
			b.WriteRune(rune(r))
			i += 4
			continue
		}
		if c == '\n' {
			// line continuation
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

var leadingZero = regexp.MustCompile(`^[+-]?0[0-9]`)

func parseCSONNumber(t csonToken) (any, error) {
	text := strings.ReplaceAll(t.text, "_", "")
	if leadingZero.MatchString(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return i, nil
		}
	} else if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, csonErrorf(t.line, "invalid number %q", t.text)
	}
	return f, nil
}

type csonParser struct {
	toks []csonToken
	pos  int
}

func (p *csonParser) peek() csonToken {
	return p.toks[p.pos]
}

func (p *csonParser) peekAt(n int) csonToken {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *csonParser) next() csonToken {
	t := p.toks[p.pos]
	if t.kind != csonEOF {
		p.pos++
	}
	return t
}

func (p *csonParser) skipNewlines() {
	for p.peek().kind == csonNewline {
		p.pos++
	}
}

func (p *csonParser) skipSeparators() {
	for k := p.peek().kind; k == csonNewline || k == csonComma; k = p.peek().kind {
		p.pos++
	}
}

// atKey reports whether the next tokens are `key :`.
func (p *csonParser) atKey() bool {
	switch p.peek().kind {
	case csonWord, csonString, csonNumber:
		return p.peekAt(1).kind == csonColon
	}
	return false
}

func (p *csonParser) document() (any, error) {
	p.skipNewlines()
	if p.peek().kind == csonEOF {
		return map[string]any{}, nil
	}

	var (
		v   any
		err error
	)
	if p.atKey() {
		v, err = p.implicitObject(p.peek().col)
	} else {
		v, err = p.value()
	}
	if err != nil {
		return nil, err
	}

	p.skipNewlines()
	if t := p.peek(); t.kind != csonEOF {
		return nil, csonErrorf(t.line, "unexpected %s", t.describe())
	}
	return v, nil
}

// implicitObject reads `key: value` members aligned at indent. It stops at
// a dedent, a closing bracket, or a comma that opens its own line (the
// element separator inside arrays). Members sharing a line need a comma.
func (p *csonParser) implicitObject(indent int) (map[string]any, error) {
	obj := make(map[string]any)
	separated := true
	for {
		p.skipNewlines()
		t := p.peek()
		if t.kind == csonComma {
			if t.bol {
				break
			}
			p.next()
			separated = true
			continue
		}
		if t.bol && t.col < indent {
			break
		}
		if !p.atKey() {
			break
		}
		if t.bol && t.col > indent {
			return nil, csonErrorf(t.line, "unexpected indentation")
		}
		if !t.bol && !separated {
			return nil, csonErrorf(t.line, "unexpected %s, expected newline or ','", t.describe())
		}

		key := p.next().text
		p.next()

		v, err := p.memberValue(indent)
		if err != nil {
			return nil, err
		}
		obj[key] = v
		separated = false
	}
	return obj, nil
}

func (p *csonParser) memberValue(indent int) (any, error) {
	t := p.peek()
	if t.kind != csonNewline && t.kind != csonEOF {
		if p.atKey() {
			return p.implicitObject(t.col)
		}
		return p.value()
	}

	p.skipNewlines()
	n := p.peek()
	if n.kind == csonEOF || n.col <= indent {
		return nil, csonErrorf(n.line, "missing value")
	}
	if p.atKey() {
		return p.implicitObject(n.col)
	}
	return p.value()
}

func (p *csonParser) value() (any, error) {
	t := p.next()
	switch t.kind {
	case csonString:
		return t.text, nil
	case csonNumber:
		return parseCSONNumber(t)
	case csonWord:
		switch t.text {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		case "null", "undefined":
			return nil, nil
		}
		return nil, csonErrorf(t.line, "unexpected identifier %q", t.text)
	case csonLBrace:
		return p.bracedObject(t)
	case csonLBrack:
		return p.array(t)
	}
	return nil, csonErrorf(t.line, "unexpected %s", t.describe())
}

func (p *csonParser) bracedObject(open csonToken) (map[string]any, error) {
	obj := make(map[string]any)
	for first := true; ; first = false {
		start := p.pos
		p.skipSeparators()
		t := p.peek()
		if t.kind == csonRBrace {
			p.next()
			return obj, nil
		}
		if t.kind == csonEOF {
			return nil, csonErrorf(open.line, "unterminated object")
		}
		if !p.atKey() {
			return nil, csonErrorf(t.line, "expected key, got %s", t.describe())
		}
		if !first && p.pos == start {
			return nil, csonErrorf(t.line, "unexpected %s, expected newline or ','", t.describe())
		}

		key := p.next().text
		p.next()
		p.skipNewlines()

		var (
			v   any
			err error
		)
		if p.atKey() {
			v, err = p.implicitObject(p.peek().col)
		} else {
			v, err = p.value()
		}
		if err != nil {
			return nil, err
		}
		obj[key] = v
	}
}

func (p *csonParser) array(open csonToken) ([]any, error) {
	list := make([]any, 0)
	for {
		p.skipSeparators()
		t := p.peek()
		if t.kind == csonRBrack {
			p.next()
			return list, nil
		}
		if t.kind == csonEOF {
			return nil, csonErrorf(open.line, "unterminated array")
		}

		var (
			v   any
			err error
		)
		if p.atKey() {
			v, err = p.implicitObject(t.col)
		} else {
			v, err = p.value()
		}
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

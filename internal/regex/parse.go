package regex

import (
	"strconv"
	"strings"

	"github.com/mossforge/lrtab/internal/symbols"
	"golang.org/x/text/cases"
)

// Parse compiles a regex source string into an AST. If caseInsensitive is
// set, every literal and character class is expanded through the fold
// mapping before being stored, per spec.md §4.C.
func Parse(src string, caseInsensitive bool) (Node, error) {
	p := &parser{src: []rune(src), caseFold: caseInsensitive}
	node, err := p.parseAlternate()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, &ParseError{Pos: p.pos, Message: "unexpected trailing input, possibly an unmatched ')'"}
	}
	return node, nil
}

// ParseLiteral builds the AST for a literal string match (no regex
// metacharacters interpreted), used for terminals declared with
// kind=literal in the grammar's terminal declarations (spec.md §6).
func ParseLiteral(s string, caseInsensitive bool) Node {
	p := &parser{caseFold: caseInsensitive}
	var parts []Node
	for _, r := range s {
		parts = append(parts, p.literalNode(r))
	}
	if len(parts) == 0 {
		return Concat{}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return Concat{Of: parts}
}

type parser struct {
	src      []rune
	pos      int
	caseFold bool
}

var foldCaser = cases.Fold()

// foldedSet returns the set of a rune and, if case folding is active, its
// case-fold partner(s), so the NFA's alphabet carries case-insensitivity
// instead of a flag on the automaton (spec.md §4.C).
func (p *parser) foldedSet(r rune) symbols.Set {
	s := symbols.Single(int(r))
	if !p.caseFold {
		return s
	}
	folded := []rune(foldCaser.String(string(r)))
	for _, fr := range folded {
		s = s.Union(symbols.Single(int(fr)))
	}
	// cases.Fold normalizes toward lowercase; also union the upper form
	// so both cases of a simple ASCII/Unicode letter match.
	upper := strings.ToUpper(string(r))
	for _, ur := range upper {
		s = s.Union(symbols.Single(int(ur)))
	}
	lower := strings.ToLower(string(r))
	for _, lr := range lower {
		s = s.Union(symbols.Single(int(lr)))
	}
	return s
}

func (p *parser) literalNode(r rune) Node {
	return Literal{Set: p.foldedSet(r)}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

// parseAlternate := concat ('|' concat)*
func (p *parser) parseAlternate() (Node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	alts := []Node{first}
	for {
		r, ok := p.peek()
		if !ok || r != '|' {
			break
		}
		p.advance()
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return Alternate{Of: alts}, nil
}

// parseConcat := repeat*, stopping at '|', ')', or end of input.
func (p *parser) parseConcat() (Node, error) {
	var parts []Node
	for {
		r, ok := p.peek()
		if !ok || r == '|' || r == ')' {
			break
		}
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return Concat{}, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return Concat{Of: parts}, nil
}

// parseRepeat := atom ('*' | '+' | '?' | '{' n (',' m?)? '}')?
func (p *parser) parseRepeat() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	r, ok := p.peek()
	if !ok {
		return atom, nil
	}
	switch r {
	case '*':
		p.advance()
		return Star(atom), nil
	case '+':
		p.advance()
		return Plus(atom), nil
	case '?':
		p.advance()
		return Opt(atom), nil
	case '{':
		return p.parseBoundedRepeat(atom)
	}
	return atom, nil
}

func (p *parser) parseBoundedRepeat(atom Node) (Node, error) {
	start := p.pos
	p.advance() // consume '{'
	numStart := p.pos
	for {
		r, ok := p.peek()
		if !ok {
			return nil, &ParseError{Pos: start, Message: "unterminated bounded repetition {n,m}"}
		}
		if r == '}' {
			break
		}
		p.advance()
	}
	body := string(p.src[numStart:p.pos])
	p.advance() // consume '}'

	parts := strings.SplitN(body, ",", 2)
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, &ParseError{Pos: numStart, Message: "invalid repetition count: " + body}
	}
	max := min
	if len(parts) == 2 {
		trimmed := strings.TrimSpace(parts[1])
		if trimmed == "" {
			max = -1
		} else {
			max, err = strconv.Atoi(trimmed)
			if err != nil {
				return nil, &ParseError{Pos: numStart, Message: "invalid repetition count: " + body}
			}
		}
	}
	if max != -1 && max < min {
		return nil, &ParseError{Pos: numStart, Message: "repetition upper bound less than lower bound: " + body}
	}
	return Repeat{Of: atom, Min: min, Max: max}, nil
}

// parseAtom := '(' alternate ')' | class | escape | '.' | literal-rune
func (p *parser) parseAtom() (Node, error) {
	r, ok := p.peek()
	if !ok {
		return nil, &ParseError{Pos: p.pos, Message: "unexpected end of pattern"}
	}

	switch r {
	case '(':
		p.advance()
		inner, err := p.parseAlternate()
		if err != nil {
			return nil, err
		}
		closer, ok := p.peek()
		if !ok || closer != ')' {
			return nil, &ParseError{Pos: p.pos, Message: "unterminated group, expected ')'"}
		}
		p.advance()
		return inner, nil
	case '[':
		return p.parseClass()
	case '.':
		p.advance()
		// any symbol but newline, mirroring the regex-simplification
		// rewrite TameParse applies for '.'.
		all := symbols.NewSet(symbols.Range{Lo: 0, Hi: 0x110000})
		nl := symbols.Single('\n')
		return Literal{Set: all.Difference(nl)}, nil
	case '\\':
		p.advance()
		set, err := p.parseEscape()
		if err != nil {
			return nil, err
		}
		return Literal{Set: set}, nil
	case ')', '|', '*', '+', '?':
		return nil, &ParseError{Pos: p.pos, Message: "unexpected metacharacter '" + string(r) + "'"}
	default:
		p.advance()
		return p.literalNode(r), nil
	}
}

// parseClass := '[' '^'? classItem+ ']'
func (p *parser) parseClass() (Node, error) {
	start := p.pos
	p.advance() // consume '['

	negate := false
	if r, ok := p.peek(); ok && r == '^' {
		negate = true
		p.advance()
	}

	var set symbols.Set
	first := true
	for {
		r, ok := p.peek()
		if !ok {
			return nil, &ParseError{Pos: start, Message: "unterminated character class"}
		}
		if r == ']' && !first {
			p.advance()
			break
		}
		first = false

		lo, err := p.parseClassChar()
		if err != nil {
			return nil, err
		}
		hi := lo
		if r2, ok := p.peek(); ok && r2 == '-' {
			// lookahead: don't treat a trailing '-' right before ']' as a
			// range operator.
			save := p.pos
			p.advance()
			if r3, ok := p.peek(); ok && r3 != ']' {
				hi, err = p.parseClassChar()
				if err != nil {
					return nil, err
				}
			} else {
				p.pos = save
			}
		}
		if hi < lo {
			return nil, &ParseError{Pos: start, Message: "character class range out of order"}
		}
		set.Add(symbols.Range{Lo: lo, Hi: hi + 1})
	}

	if p.caseFold {
		set = p.expandClassFold(set)
	}

	if negate {
		all := symbols.NewSet(symbols.Range{Lo: 0, Hi: 0x110000})
		set = all.Difference(set)
	}

	return Literal{Set: set}, nil
}

func (p *parser) expandClassFold(s symbols.Set) symbols.Set {
	out := s
	for _, r := range s.Ranges() {
		for v := r.Lo; v < r.Hi; v++ {
			out = out.Union(p.foldedSet(rune(v)))
		}
	}
	return out
}

// parseClassChar parses a single character-class member: a literal rune
// or an escape, returning its code point.
func (p *parser) parseClassChar() (int, error) {
	r, ok := p.peek()
	if !ok {
		return 0, &ParseError{Pos: p.pos, Message: "unexpected end of character class"}
	}
	if r == '\\' {
		p.advance()
		set, err := p.parseEscape()
		if err != nil {
			return 0, err
		}
		ranges := set.Ranges()
		if len(ranges) != 1 || ranges[0].Hi-ranges[0].Lo != 1 {
			return 0, &ParseError{Pos: p.pos, Message: "escape sequence does not denote a single character in class"}
		}
		return ranges[0].Lo, nil
	}
	p.advance()
	return int(r), nil
}

// parseEscape handles \n \t \r \f \v \\ \. and friends plus \uXXXX/\xXX.
func (p *parser) parseEscape() (symbols.Set, error) {
	r, ok := p.peek()
	if !ok {
		return symbols.Set{}, &ParseError{Pos: p.pos, Message: "dangling escape at end of pattern"}
	}

	switch r {
	case 'n':
		p.advance()
		return symbols.Single('\n'), nil
	case 't':
		p.advance()
		return symbols.Single('\t'), nil
	case 'r':
		p.advance()
		return symbols.Single('\r'), nil
	case 'f':
		p.advance()
		return symbols.Single('\f'), nil
	case 'v':
		p.advance()
		return symbols.Single('\v'), nil
	case '0':
		p.advance()
		return symbols.Single(0), nil
	case 'u':
		p.advance()
		return p.parseHexEscape(4)
	case 'x':
		p.advance()
		return p.parseHexEscape(2)
	case '\\', '.', '(', ')', '[', ']', '{', '}', '|', '*', '+', '?', '^', '-':
		p.advance()
		return p.foldedSet(r), nil
	default:
		return symbols.Set{}, &EscapeError{Char: r}
	}
}

func (p *parser) parseHexEscape(digits int) (symbols.Set, error) {
	if p.pos+digits > len(p.src) {
		return symbols.Set{}, &ParseError{Pos: p.pos, Message: "truncated unicode escape"}
	}
	hex := string(p.src[p.pos : p.pos+digits])
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return symbols.Set{}, &ParseError{Pos: p.pos, Message: "invalid hex digits in escape: " + hex}
	}
	p.pos += digits
	return p.foldedSet(rune(v)), nil
}

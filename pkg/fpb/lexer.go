package fpb

import "strings"

// lexer tokenizes FPB source text. It never fails: unknown characters are
// skipped so the parser always receives a well-formed stream ending in EOF.
type lexer struct {
	src    string
	pos    int
	line   int
	column int
	tokens []Token
}

// tokenize splits source into a token stream terminated by an EOF token.
func tokenize(source string) []Token {
	lx := &lexer{src: source, line: 1, column: 1}
	return lx.run()
}

func (lx *lexer) run() []Token {
	for lx.pos < len(lx.src) {
		lx.skipBlank()
		if lx.pos >= len(lx.src) {
			break
		}

		switch ch := lx.src[lx.pos]; {
		case ch == '\n':
			lx.emit(TokenNewline, "\n")
			lx.advance()
		case ch == '/' && lx.peek(1) == '/':
			lx.readComment()
		case ch == '@':
			lx.readAtWord()
		case ch == '"':
			lx.readString()
		case ch == '{':
			lx.emit(TokenLBrace, "{")
			lx.advance()
		case ch == '}':
			lx.emit(TokenRBrace, "}")
			lx.advance()
		case lx.readOperator():
			// token emitted by readOperator
		case isWordStart(ch):
			lx.readWord()
		default:
			lx.advance()
		}
	}
	lx.tokens = append(lx.tokens, Token{Type: TokenEOF, Line: lx.line, Column: lx.column})
	return lx.tokens
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}

func (lx *lexer) advance() byte {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return ch
}

func (lx *lexer) advanceN(n int) {
	for i := 0; i < n && lx.pos < len(lx.src); i++ {
		lx.advance()
	}
}

func (lx *lexer) peek(offset int) byte {
	if idx := lx.pos + offset; idx < len(lx.src) {
		return lx.src[idx]
	}
	return 0
}

func (lx *lexer) emit(t TokenType, value string) {
	lx.tokens = append(lx.tokens, Token{Type: t, Value: value, Line: lx.line, Column: lx.column})
}

func (lx *lexer) skipBlank() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case ' ', '\t', '\r':
			lx.advance()
		default:
			return
		}
	}
}

func (lx *lexer) readComment() {
	line, column := lx.line, lx.column
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.advance()
	}
	value := strings.TrimSpace(lx.src[start:lx.pos])
	lx.tokens = append(lx.tokens, Token{Type: TokenComment, Value: value, Line: line, Column: column})
}

// readAtWord handles the block delimiters and placement annotations.
// Unrecognized @-words are skipped a character at a time.
func (lx *lexer) readAtWord() {
	rest := lx.src[lx.pos:]

	if strings.HasPrefix(rest, StartDelimiter) {
		lx.emit(TokenStartFPB, StartDelimiter)
		lx.advanceN(len(StartDelimiter))
		return
	}
	if strings.HasPrefix(rest, EndDelimiter) {
		lx.emit(TokenEndFPB, EndDelimiter)
		lx.advanceN(len(EndDelimiter))
		return
	}

	// Longest annotation first so @boundary-top is not cut at @boundary.
	best := ""
	for annotation := range placementAnnotations {
		if !strings.HasPrefix(rest, annotation) || len(annotation) <= len(best) {
			continue
		}
		if len(annotation) < len(rest) {
			if next := rest[len(annotation)]; isWordChar(next) || next == '-' {
				continue
			}
		}
		best = annotation
	}
	if best != "" {
		lx.emit(TokenAnnotation, best)
		lx.advanceN(len(best))
		return
	}

	lx.advance()
}

// readString reads a double-quoted literal. A missing closing quote ends
// the string at the line break.
func (lx *lexer) readString() {
	line, column := lx.line, lx.column
	lx.advance() // opening quote
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '"' && lx.src[lx.pos] != '\n' {
		lx.advance()
	}
	value := lx.src[start:lx.pos]
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
		lx.advance()
	}
	lx.tokens = append(lx.tokens, Token{Type: TokenString, Value: value, Line: line, Column: column})
}

func (lx *lexer) readOperator() bool {
	rest := lx.src[lx.pos:]
	for _, candidate := range connectionOperators {
		if strings.HasPrefix(rest, candidate.op) {
			lx.emit(candidate.typ, candidate.op)
			lx.advanceN(len(candidate.op))
			return true
		}
	}
	return false
}

func (lx *lexer) readWord() {
	line, column := lx.line, lx.column
	start := lx.pos
	for lx.pos < len(lx.src) && isWordChar(lx.src[lx.pos]) {
		lx.advance()
	}
	word := lx.src[start:lx.pos]
	t := TokenIdentifier
	if keywords[word] {
		t = TokenKeyword
	}
	lx.tokens = append(lx.tokens, Token{Type: t, Value: word, Line: line, Column: column})
}

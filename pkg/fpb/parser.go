package fpb

import (
	"fmt"

	"github.com/phindler/fpdviz/pkg/model"
)

// parser turns a token stream into a model, accumulating problems on the
// model instead of aborting.
type parser struct {
	tokens []Token
	pos    int
	m      *model.Model

	elementKinds  map[string]string // element ID -> declaring keyword
	flowCounter   int
	usageCounter  int
	systemCounter int
	currentSystem string
}

// Parse converts FPB source text into a model.
//
// Parse never returns an error: syntax problems are appended to the model's
// Errors and Warnings lists and parsing continues with the next statement,
// so one bad line never hides the rest of the document.
func Parse(source string) *model.Model {
	p := &parser{
		tokens:       tokenize(source),
		m:            &model.Model{},
		elementKinds: make(map[string]string),
	}
	p.run()
	return p.m
}

func (p *parser) run() {
	p.skipTrivial()
	p.expect(TokenStartFPB)
	p.skipTrivial()

	for !p.check(TokenEndFPB) && !p.check(TokenEOF) {
		p.parseStatement()
		p.skipTrivial()
	}

	if p.check(TokenEndFPB) {
		p.next()
	} else {
		p.errorf("Missing %s delimiter", EndDelimiter)
	}
}

func (p *parser) parseStatement() {
	tok := p.current()

	switch tok.Type {
	case TokenComment:
		p.next()
	case TokenKeyword:
		switch {
		case tok.Value == "title":
			p.parseTitle()
		case tok.Value == "system":
			p.parseSystemBlock()
		default:
			p.parseElementDecl()
		}
	case TokenIdentifier:
		p.parseConnection()
	default:
		p.next()
	}
}

func (p *parser) parseTitle() {
	if p.currentSystem != "" {
		p.errorf("Line %d: title cannot be used inside a system block", p.current().Line)
		p.next()
		return
	}
	p.next() // title
	if !p.check(TokenString) {
		p.errorf("Line %d: Expected string after 'title'", p.current().Line)
		return
	}
	p.m.Title = p.current().Value
	p.next()
}

func (p *parser) parseSystemBlock() {
	systemTok := p.current()
	p.next() // system

	if !p.check(TokenString) {
		p.errorf("Line %d: Expected string after 'system'", systemTok.Line)
		return
	}
	name := p.current().Value
	p.next()

	if !p.check(TokenLBrace) {
		p.errorf("Line %d: Expected '{' after system name", systemTok.Line)
		return
	}
	p.next()

	p.systemCounter++
	systemID := fmt.Sprintf("system_%d", p.systemCounter)
	p.m.SystemLimits = append(p.m.SystemLimits, model.SystemLimit{
		ID:             systemID,
		Identification: model.Identification{UniqueIdent: systemID, LongName: name},
		Label:          name,
		Line:           systemTok.Line,
	})

	p.currentSystem = systemID
	p.skipTrivial()
	for !p.check(TokenRBrace) && !p.check(TokenEOF) && !p.check(TokenEndFPB) {
		p.parseStatement()
		p.skipTrivial()
	}
	if p.check(TokenRBrace) {
		p.next()
	} else {
		p.errorf("Line %d: Missing '}' for system %q", systemTok.Line, name)
	}
	p.currentSystem = ""
}

func (p *parser) parseElementDecl() {
	keywordTok := p.current()
	keyword := keywordTok.Value
	p.next()

	if !p.check(TokenIdentifier) {
		p.errorf("Line %d: Expected identifier after '%s'", keywordTok.Line, keyword)
		return
	}
	id := p.current().Value
	p.next()

	if _, dup := p.elementKinds[id]; dup {
		p.errorf("Line %d: Duplicate element ID '%s'", keywordTok.Line, id)
		return
	}

	label := id
	if p.check(TokenString) {
		label = p.current().Value
		p.next()
	}

	placement := model.PlacementNone
	if p.check(TokenAnnotation) {
		annotation := p.current().Value
		p.next()
		if _, isState := stateKeywords[keyword]; isState {
			placement = placementAnnotations[annotation]
		} else {
			p.warnf("Line %d: Placement annotation '%s' ignored on '%s' (only valid on state elements)",
				keywordTok.Line, annotation, keyword)
		}
	}

	ident := model.Identification{UniqueIdent: id, LongName: label}
	p.elementKinds[id] = keyword

	switch {
	case stateKeywords[keyword] != "":
		p.m.States = append(p.m.States, model.State{
			ID:             id,
			Type:           stateKeywords[keyword],
			Identification: ident,
			Label:          label,
			Placement:      placement,
			Line:           keywordTok.Line,
			SystemID:       p.currentSystem,
		})
	case keyword == "process_operator":
		p.m.ProcessOperators = append(p.m.ProcessOperators, model.ProcessOperator{
			ID:             id,
			Identification: ident,
			Label:          label,
			Line:           keywordTok.Line,
			SystemID:       p.currentSystem,
		})
	case keyword == "technical_resource":
		p.m.TechnicalResources = append(p.m.TechnicalResources, model.TechnicalResource{
			ID:             id,
			Identification: ident,
			Label:          label,
			Line:           keywordTok.Line,
			SystemID:       p.currentSystem,
		})
	}
}

func (p *parser) parseConnection() {
	sourceTok := p.current()
	sourceID := sourceTok.Value
	p.next()

	opTok := p.current()
	var flowType model.FlowType
	isUsage := false
	switch opTok.Type {
	case TokenFlow:
		flowType = model.FlowRegular
	case TokenAlternativeFlow:
		flowType = model.FlowAlternative
	case TokenParallelFlow:
		flowType = model.FlowParallel
	case TokenUsage:
		isUsage = true
	default:
		p.errorf("Line %d: Expected connection operator after '%s'", sourceTok.Line, sourceID)
		return
	}
	p.next()

	if !p.check(TokenIdentifier) {
		p.errorf("Line %d: Expected identifier after connection operator", sourceTok.Line)
		return
	}
	targetID := p.current().Value
	p.next()

	if _, ok := p.elementKinds[sourceID]; !ok {
		p.errorf("Line %d: Element '%s' is not defined", sourceTok.Line, sourceID)
		return
	}
	if _, ok := p.elementKinds[targetID]; !ok {
		p.errorf("Line %d: Element '%s' is not defined", sourceTok.Line, targetID)
		return
	}

	if isUsage {
		p.usageCounter++
		p.m.Usages = append(p.m.Usages, model.Usage{
			ID:                   fmt.Sprintf("usage_%d", p.usageCounter),
			ProcessOperatorRef:   sourceID,
			TechnicalResourceRef: targetID,
			Line:                 sourceTok.Line,
			SystemID:             p.currentSystem,
		})
		return
	}

	p.flowCounter++
	p.m.Flows = append(p.m.Flows, model.Flow{
		ID:        fmt.Sprintf("flow_%d", p.flowCounter),
		SourceRef: sourceID,
		TargetRef: targetID,
		Type:      flowType,
		Line:      sourceTok.Line,
		SystemID:  p.currentSystem,
	})
}

// Token helpers.

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Type: TokenEOF}
}

func (p *parser) check(t TokenType) bool {
	return p.current().Type == t
}

func (p *parser) next() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) expect(t TokenType) Token {
	if p.check(t) {
		return p.next()
	}
	tok := p.current()
	p.errorf("Line %d: Expected %s, got %s", tok.Line, t, tok.Type)
	return tok
}

func (p *parser) skipTrivial() {
	for p.check(TokenNewline) || p.check(TokenComment) {
		p.next()
	}
}

func (p *parser) errorf(format string, args ...any) {
	p.m.Errors = append(p.m.Errors, fmt.Sprintf(format, args...))
}

func (p *parser) warnf(format string, args ...any) {
	p.m.Warnings = append(p.m.Warnings, fmt.Sprintf(format, args...))
}

package fpb

import "github.com/phindler/fpdviz/pkg/model"

// TokenType classifies the tokens produced by the lexer.
type TokenType int

// Token types.
const (
	TokenEOF TokenType = iota
	TokenStartFPB
	TokenEndFPB
	TokenKeyword
	TokenIdentifier
	TokenString
	TokenFlow
	TokenAlternativeFlow
	TokenParallelFlow
	TokenUsage
	TokenAnnotation
	TokenComment
	TokenLBrace
	TokenRBrace
	TokenNewline
)

// String returns the token type name for error messages.
func (t TokenType) String() string {
	switch t {
	case TokenStartFPB:
		return "START_FPB"
	case TokenEndFPB:
		return "END_FPB"
	case TokenKeyword:
		return "KEYWORD"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenString:
		return "STRING"
	case TokenFlow:
		return "FLOW"
	case TokenAlternativeFlow:
		return "ALTERNATIVE_FLOW"
	case TokenParallelFlow:
		return "PARALLEL_FLOW"
	case TokenUsage:
		return "USAGE"
	case TokenAnnotation:
		return "ANNOTATION"
	case TokenComment:
		return "COMMENT"
	case TokenLBrace:
		return "LBRACE"
	case TokenRBrace:
		return "RBRACE"
	case TokenNewline:
		return "NEWLINE"
	default:
		return "EOF"
	}
}

// Token is a single lexeme with its source position.
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
}

// Block delimiters.
const (
	StartDelimiter = "@startfpb"
	EndDelimiter   = "@endfpb"
)

// stateKeywords maps element keywords that declare states to their type.
var stateKeywords = map[string]model.StateType{
	"product":     model.StateProduct,
	"energy":      model.StateEnergy,
	"information": model.StateInformation,
}

// keywords holds every reserved word of the language.
var keywords = map[string]bool{
	"product":            true,
	"energy":             true,
	"information":        true,
	"process_operator":   true,
	"technical_resource": true,
	"title":              true,
	"system":             true,
}

// placementAnnotations maps annotation spellings to placement hints.
var placementAnnotations = map[string]model.Placement{
	"@boundary":        model.PlacementBoundary,
	"@boundary-top":    model.PlacementBoundaryTop,
	"@boundary-bottom": model.PlacementBoundaryBottom,
	"@boundary-left":   model.PlacementBoundaryLeft,
	"@boundary-right":  model.PlacementBoundaryRight,
	"@internal":        model.PlacementInternal,
}

// connectionOperators lists the connection spellings longest-first so the
// lexer matches greedily (-.-> before -->).
var connectionOperators = []struct {
	op   string
	typ  TokenType
	flow model.FlowType
}{
	{"-.->", TokenAlternativeFlow, model.FlowAlternative},
	{"<..>", TokenUsage, ""},
	{"-->", TokenFlow, model.FlowRegular},
	{"==>", TokenParallelFlow, model.FlowParallel},
}

package adapter

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/swift"

	m "stringscan.dev/pkg/stringscan/internal/model"
	"stringscan.dev/pkg/stringscan/internal/syntax"
)

// grammar describes how one tree-sitter language is lowered into syntax nodes.
type grammar struct {
	language   m.Language
	extensions []string
	// strict grammars report syntax errors precisely enough to act on them.
	strict         bool
	sitterLanguage func() *sitter.Language

	// kinds maps named node types to syntax kinds; unlisted named types become KindOther.
	kinds map[string]syntax.Kind
	// tokenKind classifies anonymous nodes, which default to KindToken.
	tokenKind func(tokenType, parentType string) syntax.Kind
	// literalParts rewrites the lowered children of a string literal.
	literalParts func(literal *sitter.Node, parts []*syntax.Node, text []byte, start, end int) []*syntax.Node
	// literalStart moves a literal's start over a prefix the grammar does not know.
	literalStart func(text []byte, start int) int
}

func swiftGrammar() *grammar {
	return &grammar{
		language:       m.LanguageSwift,
		extensions:     []string{"swift"},
		strict:         true,
		sitterLanguage: swift.GetLanguage,
		kinds: map[string]syntax.Kind{
			"source_file":               syntax.KindSourceFile,
			"line_string_literal":       syntax.KindStringLiteral,
			"multi_line_string_literal": syntax.KindStringLiteral,
			"raw_string_literal":        syntax.KindStringLiteral,
			"regex_literal":             syntax.KindRegexLiteral,
			"line_str_text":             syntax.KindStringText,
			"multi_line_str_text":       syntax.KindStringText,
			"str_escaped_char":          syntax.KindStringText,
			"raw_str_part":              syntax.KindStringText,
			"raw_str_end_part":          syntax.KindStringText,
			"interpolated_expression":   syntax.KindInterpolation,
			"raw_str_interpolation":     syntax.KindInterpolation,
			"call_expression":           syntax.KindCall,
			"call_suffix":               syntax.KindCallSuffix,
			"value_arguments":           syntax.KindArgumentList,
			"value_argument":            syntax.KindArgument,
			"value_argument_label":      syntax.KindArgumentLabel,
			"simple_identifier":         syntax.KindIdentifier,
		},
		tokenKind: func(tokenType, parentType string) syntax.Kind {
			// a lone quote inside a """ literal is part of its text
			if tokenType == `"` && parentType == "multi_line_string_literal" {
				return syntax.KindStringText
			}

			return syntax.KindToken
		},
		literalParts: swiftLiteralParts,
	}
}

// cGrammar handles Objective-C sources and headers with the C grammar.
// Objective-C constructs show up as error nodes, so the grammar is tolerant.
func cGrammar() *grammar {
	return &grammar{
		language:       m.LanguageObjC,
		extensions:     []string{"m", "h"},
		strict:         false,
		sitterLanguage: c.GetLanguage,
		kinds: map[string]syntax.Kind{
			"translation_unit": syntax.KindSourceFile,
			"string_literal":   syntax.KindStringLiteral,
			"call_expression":  syntax.KindCall,
			"argument_list":    syntax.KindArgumentList,
			"identifier":       syntax.KindIdentifier,
		},
		tokenKind: func(string, string) syntax.Kind {
			return syntax.KindToken
		},
		literalParts: cLiteralParts,
		literalStart: objcLiteralStart,
	}
}

func (g *grammar) kindOf(n *sitter.Node, parentType string) syntax.Kind {
	if n.Type() == "ERROR" {
		return syntax.KindError
	}

	if !n.IsNamed() {
		return g.tokenKind(n.Type(), parentType)
	}

	if kind, ok := g.kinds[n.Type()]; ok {
		return kind
	}

	return syntax.KindOther
}

// lower converts a tree-sitter subtree into syntax nodes.
func (g *grammar) lower(root *sitter.Node, text []byte) (*syntax.Node, error) {
	return g.lowerNode(root, "", text)
}

func (g *grammar) lowerNode(n *sitter.Node, parentType string, text []byte) (*syntax.Node, error) {
	start, end, err := byteRange(n)
	if err != nil {
		return nil, err
	}

	if start > end || end > len(text) {
		return nil, fmt.Errorf("node %s spans [%d,%d) outside %d bytes", n.Type(), start, end, len(text))
	}

	kind := g.kindOf(n, parentType)

	children := make([]*syntax.Node, 0, n.ChildCount())

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}

		lowered, err := g.lowerNode(child, n.Type(), text)
		if err != nil {
			return nil, err
		}

		children = append(children, lowered)
	}

	var nodeText string

	switch kind {
	case syntax.KindStringLiteral:
		children = g.literalParts(n, children, text, start, end)

		if g.literalStart != nil {
			start = g.literalStart(text, start)
		}
	case syntax.KindRegexLiteral:
		nodeText = regexPattern(string(text[start:end]))
	case syntax.KindStringText, syntax.KindIdentifier:
		nodeText = string(text[start:end])
	}

	return syntax.NewNode(kind, n.Type(), start, end, nodeText, children...), nil
}

// swiftLiteralParts turns the text parts of a Swift literal into the literal's
// content: raw delimiters are removed and multi-line literals lose the
// newlines next to their delimiters and the closing delimiter's indentation.
func swiftLiteralParts(literal *sitter.Node, parts []*syntax.Node, text []byte, start, end int) []*syntax.Node {
	switch literal.Type() {
	case "multi_line_string_literal":
		rejoinTextParts(parts, text, start)
		normalizeMultiLine(parts, closingIndent(string(text[start:end])))
	case "raw_string_literal":
		texts := rejoinTextParts(parts, text, start)
		if len(texts) == 0 {
			return parts
		}

		first, last := texts[0], texts[len(texts)-1]
		multiLine := strings.HasPrefix(strings.TrimLeft(first.Text, "#"), `"""`)

		first.Text = trimRawOpening(first.Text)
		last.Text = trimRawClosing(last.Text)

		if multiLine {
			normalizeMultiLine(parts, closingIndent(string(text[start:end])))
		}
	}

	return parts
}

// rejoinTextParts extends every text part back to the end of its previous
// sibling. The grammar starts a part after leading whitespace, which belongs
// to the literal's content.
func rejoinTextParts(parts []*syntax.Node, text []byte, start int) []*syntax.Node {
	var texts []*syntax.Node

	previousEnd := start

	for _, part := range parts {
		if part.Kind == syntax.KindStringText && previousEnd <= part.Start {
			part.Start = previousEnd
			part.Text = string(text[previousEnd:part.End])
			texts = append(texts, part)
		}

		previousEnd = max(previousEnd, part.End)
	}

	return texts
}

func trimRawOpening(s string) string {
	s = strings.TrimLeft(s, "#")
	if trimmed, ok := strings.CutPrefix(s, `"""`); ok {
		return trimmed
	}

	return strings.TrimPrefix(s, `"`)
}

func trimRawClosing(s string) string {
	s = strings.TrimRight(s, "#")
	if trimmed, ok := strings.CutSuffix(s, `"""`); ok {
		return trimmed
	}

	return strings.TrimSuffix(s, `"`)
}

// closingIndent returns the whitespace in front of a multi-line literal's
// closing delimiter.
func closingIndent(raw string) string {
	body, ok := strings.CutSuffix(strings.TrimRight(raw, "#"), `"""`)
	if !ok {
		return ""
	}

	indent := body[strings.LastIndexByte(body, '\n')+1:]
	if strings.Trim(indent, " \t") != "" {
		return ""
	}

	return indent
}

// normalizeMultiLine rewrites the text parts of a multi-line literal in place.
// The newline after the opening delimiter and the one before the closing
// delimiter are dropped, and indent is removed from the start of every line.
func normalizeMultiLine(parts []*syntax.Node, indent string) {
	var last *syntax.Node

	first := true
	atLineStart := true

	for _, part := range parts {
		switch part.Kind {
		case syntax.KindStringText:
		case syntax.KindInterpolation:
			first, atLineStart, last = false, false, nil
			continue
		default:
			continue
		}

		content := part.Text
		if first {
			content = trimNewline(content, strings.CutPrefix)
			first = false
		}

		part.Text, atLineStart = stripIndent(content, indent, atLineStart)
		last = part
	}

	if last != nil {
		last.Text = trimNewline(last.Text, strings.CutSuffix)
	}
}

func trimNewline(s string, cut func(s, sep string) (string, bool)) string {
	for _, newline := range []string{"\r\n", "\n"} {
		if trimmed, ok := cut(s, newline); ok {
			return trimmed
		}
	}

	return s
}

// stripIndent removes indent after every newline in s. atLineStart says
// whether s itself starts a line; the returned flag says whether s ends one.
func stripIndent(s, indent string, atLineStart bool) (string, bool) {
	var b strings.Builder

	for s != "" {
		if atLineStart {
			s = strings.TrimPrefix(s, indent)
			atLineStart = false

			continue
		}

		i := strings.IndexByte(s, '\n')
		if i < 0 {
			b.WriteString(s)
			break
		}

		b.WriteString(s[:i+1])
		s = s[i+1:]
		atLineStart = true
	}

	return b.String(), atLineStart
}

// cLiteralParts replaces a C string literal's children with one text node
// holding everything between its quotes, escapes included.
func cLiteralParts(_ *sitter.Node, _ []*syntax.Node, text []byte, start, end int) []*syntax.Node {
	raw := string(text[start:end])

	open := strings.IndexByte(raw, '"')
	closing := strings.LastIndexByte(raw, '"')

	if open < 0 || closing <= open {
		return nil
	}

	return []*syntax.Node{
		syntax.NewNode(syntax.KindStringText, "string_content", start+open+1, start+closing, raw[open+1:closing]),
	}
}

// objcLiteralStart includes the '@' of an Objective-C string literal, which
// the C grammar leaves outside the literal.
func objcLiteralStart(text []byte, start int) int {
	if start > 0 && start <= len(text) && text[start-1] == '@' {
		return start - 1
	}

	return start
}

// regexPattern removes the slashes and any extended-delimiter hashes around a regex literal.
func regexPattern(raw string) string {
	hashes := len(raw) - len(strings.TrimLeft(raw, "#"))
	body := raw[hashes:]
	body = strings.TrimSuffix(body, strings.Repeat("#", hashes))
	body = strings.TrimPrefix(body, "/")

	return strings.TrimSuffix(body, "/")
}

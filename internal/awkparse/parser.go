package awkparse

import (
	"regexp"
	"strings"

	"github.com/awklsp/awk-languageserver/internal/symbol"
)

var shebangPattern = regexp.MustCompile(`^#!(.*[^a-z])?([a-z]?awk) +-f`)

// DetectShebangMode inspects the first line of text for a shebang of the
// form "#!/usr/bin/gawk -f" and reports the dialect it names, per §4.7.
// ok is false when the first line carries no such shebang.
func DetectShebangMode(text string) (gawk bool, ok bool) {
	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = text[:idx]
	}
	m := shebangPattern.FindStringSubmatch(firstLine)
	if m == nil {
		return false, false
	}
	return strings.Contains(m[2], "gawk"), true
}

// Parse tokenizes and parses text, driving handler with the event
// stream described in events.go. ambientGawk is the process-wide mode
// used when the text carries no shebang override. baseName is the
// file's base name (without extension), used for BaseNameHint unless
// it ends in "Constants" (§4.7, Open Question: preserved verbatim).
//
// A panic during parsing is recovered and reported through OnMessage as
// a single crash diagnostic anchored at the parser's last consumed
// token, per §7; parsing of other documents is unaffected by the
// caller's own isolation (each call gets a fresh Parser).
func Parse(text string, baseName string, ambientGawk bool, handler Handler) {
	gawkMode := ambientGawk
	if override, ok := DetectShebangMode(text); ok {
		gawkMode = override
	}
	handler.FileModeHint(gawkMode)

	if !strings.HasSuffix(baseName, "Constants") {
		handler.BaseNameHint(baseName)
	}

	p := &Parser{handler: handler, toks: newLexer(text).lex()}
	// A doc comment at the very start of the text has no preceding token
	// for advance to collect it after.
	for p.cur().kind == tokDocComment && p.pos < len(p.toks)-1 {
		p.pendingDoc = p.cur().text
		p.pos++
	}

	defer func() {
		if r := recover(); r != nil {
			handler.OnMessage(SeverityError, SubTypeCrash, "internal parser error", p.lastLine, p.lastCol, 1)
		}
	}()

	p.parseProgram()
}

// Parser drives a recursive-descent pass over one token stream. It is
// constructed fresh per call to Parse, so there are no cross-request
// mutable callback slots to rebind (the Design Note in §9 applied
// directly: the parser context is a value, not global state).
type Parser struct {
	toks    []token
	pos     int
	handler Handler

	// scope is the name of the function currently being parsed, or ""
	// at file scope.
	scope string

	lastLine, lastCol int

	pendingDoc string
}

func (p *Parser) cur() token  { return p.toks[p.pos] }
func (p *Parser) at(k tokenKind) bool { return p.cur().kind == k }
func (p *Parser) atPunct(s string) bool {
	return p.cur().kind == tokPunct && p.cur().text == s
}
func (p *Parser) atKeyword(s string) bool {
	return p.cur().kind == tokIdent && p.cur().text == s
}

func (p *Parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.lastLine, p.lastCol = t.line, t.col
	}
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	// A pending doc comment is carried only across the "function"/"func"
	// keyword; any other token drops it.
	if t.kind != tokIdent || (t.text != "function" && t.text != "func") {
		p.pendingDoc = ""
	}
	// Collect a doc-comment token transparently; it does not otherwise
	// appear to the grammar.
	for p.cur().kind == tokDocComment {
		p.pendingDoc = p.cur().text
		if p.pos < len(p.toks)-1 {
			p.pos++
		} else {
			break
		}
	}
	return t
}

func (p *Parser) takePendingDoc() string {
	doc := p.pendingDoc
	p.pendingDoc = ""
	return strings.TrimSpace(doc)
}

func (p *Parser) expectPunct(s string) {
	if p.atPunct(s) {
		p.advance()
		return
	}
	t := p.cur()
	p.handler.OnMessage(SeverityError, SubTypeSyntax, "expected '"+s+"'", t.line, t.col, len(t.text))
}

// consumeStatementTerminator consumes a trailing ";" if present;
// otherwise, if the statement stream continues directly into something
// that looks like a new statement, it emits the "comma" stylistic
// warning described in §9 (the sub-type name is the parser's own and
// does not match its "missing semicolon" user label).
func (p *Parser) consumeStatementTerminator() {
	if p.atPunct(";") {
		p.advance()
		return
	}
	if p.atPunct("}") || p.at(tokEOF) {
		return
	}
	t := p.cur()
	p.handler.OnMessage(SeverityWarning, SubTypeComma, "missing semicolon", t.line, t.col, 0)
}

func (p *Parser) parseProgram() {
	for !p.at(tokEOF) {
		before := p.pos
		p.parseItem()
		if p.pos == before {
			// No progress: force advance to avoid an infinite loop on
			// input the grammar below doesn't recognize.
			t := p.advance()
			p.handler.OnMessage(SeverityError, SubTypeSyntax, "unexpected token", t.line, t.col, len(t.text))
		}
	}
}

func (p *Parser) parseItem() {
	switch {
	case p.atPunct("@"):
		p.parseInclude()
	case p.atKeyword("function") || p.atKeyword("func"):
		p.parseFunctionDecl()
	case p.atKeyword("BEGIN") || p.atKeyword("END"):
		p.advance()
		p.parseBlock()
	case p.atPunct("{"):
		p.parseBlock()
	case p.at(tokEOF):
		return
	default:
		// A pattern-action rule: an expression pattern followed by a
		// block, or a bare expression (patterns with an implicit
		// "print $0" action are accepted syntactically, the action is
		// simply absent).
		p.parseExpr()
		if p.atPunct("{") {
			p.parseBlock()
		} else {
			p.consumeStatementTerminator()
		}
	}
}

func (p *Parser) parseInclude() {
	at := p.advance() // "@"
	if !p.atKeyword("include") {
		p.handler.OnMessage(SeverityError, SubTypeSyntax, "expected 'include' after '@'", at.line, at.col, 1)
		return
	}
	p.advance() // "include"
	if !p.at(tokString) {
		t := p.cur()
		p.handler.OnMessage(SeverityError, SubTypeSyntax, "expected a filename string after @include", t.line, t.col, 0)
		return
	}
	t := p.advance()
	relative := !strings.HasPrefix(t.text, "/")
	p.handler.OnInclude(t.text, relative, at.line, at.col, t.col+len(t.text)-at.col+1)
}

func (p *Parser) parseFunctionDecl() {
	p.advance() // "function"/"func"
	doc := p.takePendingDoc()
	if !p.at(tokIdent) {
		t := p.cur()
		p.handler.OnMessage(SeverityError, SubTypeSyntax, "expected a function name", t.line, t.col, 0)
		return
	}
	nameTok := p.advance()
	name := nameTok.text

	p.handler.OnDefine(symbol.Function, "", name, nameTok.line, nameTok.col, doc)
	p.handler.OnUse(symbol.Function, "", name, nameTok.line, nameTok.col, true)

	p.expectPunct("(")
	var params []string
	for !p.atPunct(")") && !p.at(tokEOF) {
		if p.at(tokIdent) {
			pt := p.advance()
			params = append(params, pt.text)
			p.handler.OnDefine(symbol.Parameter, name, pt.text, pt.line, pt.col, "")
			p.handler.OnUse(symbol.Parameter, name, pt.text, pt.line, pt.col, true)
		}
		if p.atPunct(",") {
			p.advance()
		} else {
			break
		}
	}
	p.expectPunct(")")
	// firstOptional is len(params): the recognized grammar has no
	// optional-parameter syntax of its own, so every declared parameter
	// is required and the arity check (§4.5) expects an exact count —
	// this is what makes the scenario 3 arity-mismatch diagnostic fire.
	p.handler.OnArity(name, params, len(params))

	prevScope := p.scope
	p.scope = name
	p.parseBlock()
	p.scope = prevScope
}

func (p *Parser) parseBlock() {
	p.expectPunct("{")
	for !p.atPunct("}") && !p.at(tokEOF) {
		before := p.pos
		p.parseStmt()
		if p.pos == before {
			t := p.advance()
			p.handler.OnMessage(SeverityError, SubTypeSyntax, "unexpected token in block", t.line, t.col, len(t.text))
		}
	}
	if p.atPunct("}") {
		p.advance()
	}
}

func (p *Parser) parseStmt() {
	switch {
	case p.atPunct("{"):
		p.parseBlock()
	case p.atPunct(";"):
		p.advance()
	case p.atKeyword("if"):
		p.parseIf()
	case p.atKeyword("while"):
		p.parseWhile()
	case p.atKeyword("do"):
		p.parseDoWhile()
	case p.atKeyword("for"):
		p.parseFor()
	case p.atKeyword("print") || p.atKeyword("printf"):
		p.parsePrint()
	case p.atKeyword("return"):
		p.advance()
		if !p.atPunct(";") && !p.atPunct("}") {
			p.parseExpr()
		}
		p.consumeStatementTerminator()
	case p.atKeyword("next") || p.atKeyword("break") || p.atKeyword("continue"):
		p.advance()
		p.consumeStatementTerminator()
	case p.atKeyword("delete"):
		p.advance()
		p.parsePrimary()
		p.consumeStatementTerminator()
	default:
		p.parseExpr()
		p.consumeStatementTerminator()
	}
}

func (p *Parser) parseIf() {
	p.advance()
	p.expectPunct("(")
	p.parseExpr()
	p.expectPunct(")")
	p.parseStmt()
	if p.atKeyword("else") {
		p.advance()
		p.parseStmt()
	}
}

func (p *Parser) parseWhile() {
	p.advance()
	p.expectPunct("(")
	p.parseExpr()
	p.expectPunct(")")
	p.parseStmt()
}

func (p *Parser) parseDoWhile() {
	p.advance()
	p.parseStmt()
	if p.atKeyword("while") {
		p.advance()
		p.expectPunct("(")
		p.parseExpr()
		p.expectPunct(")")
	}
	p.consumeStatementTerminator()
}

func (p *Parser) parseFor() {
	p.advance()
	p.expectPunct("(")
	// "for (k in arr)" form.
	if p.at(tokIdent) {
		save := p.pos
		ident := p.advance()
		if p.atKeyword("in") {
			p.advance()
			p.handler.OnUse(symbol.Global, p.scope, ident.text, ident.line, ident.col, false)
			p.parsePrimary()
			p.expectPunct(")")
			p.parseStmt()
			return
		}
		p.pos = save
	}
	if !p.atPunct(";") {
		p.parseExpr()
	}
	p.expectPunct(";")
	if !p.atPunct(";") {
		p.parseExpr()
	}
	p.expectPunct(";")
	if !p.atPunct(")") {
		p.parseExpr()
	}
	p.expectPunct(")")
	p.parseStmt()
}

func (p *Parser) parsePrint() {
	p.advance()
	for !p.atPunct(";") && !p.atPunct("}") && !p.at(tokEOF) &&
		!p.atPunct(">") && !p.atPunct(">>") && !p.atPunct("|") {
		p.parseTernary()
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if p.atPunct(">") || p.atPunct(">>") || p.atPunct("|") {
		p.advance()
		p.parseExpr()
	}
	p.consumeStatementTerminator()
}

// --- expressions ---

func (p *Parser) parseExpr() { p.parseAssignment() }

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "^=": true,
}

func (p *Parser) parseAssignment() {
	p.parseTernary()
	if p.cur().kind == tokPunct && assignOps[p.cur().text] {
		p.advance()
		p.parseAssignment()
	}
}

func (p *Parser) parseTernary() {
	p.parseOr()
	if p.atPunct("?") {
		p.advance()
		p.parseExpr()
		p.expectPunct(":")
		p.parseExpr()
	}
}

func (p *Parser) parseOr() {
	p.parseAnd()
	for p.atPunct("||") {
		p.advance()
		p.parseAnd()
	}
}

func (p *Parser) parseAnd() {
	p.parseIn()
	for p.atPunct("&&") {
		p.advance()
		p.parseIn()
	}
}

func (p *Parser) parseIn() {
	p.parseMatch()
	for p.atKeyword("in") {
		p.advance()
		p.parseMatch()
	}
}

func (p *Parser) parseMatch() {
	p.parseRel()
	for p.atPunct("~") || p.atPunct("!~") {
		p.advance()
		p.parseRel()
	}
}

var relOps = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true}

func (p *Parser) parseRel() {
	p.parseConcat()
	if p.cur().kind == tokPunct && relOps[p.cur().text] {
		p.advance()
		p.parseConcat()
	}
}

func (p *Parser) parseConcat() {
	p.parseAdditive()
	for p.startsPrimary() {
		p.parseAdditive()
	}
}

func (p *Parser) startsPrimary() bool {
	switch p.cur().kind {
	case tokIdent:
		return !keywords[p.cur().text]
	case tokNumber, tokString, tokRegex:
		return true
	case tokPunct:
		return p.cur().text == "(" || p.cur().text == "$" || p.cur().text == "!" || p.cur().text == "-"
	}
	return false
}

func (p *Parser) parseAdditive() {
	p.parseMultiplicative()
	for p.atPunct("+") || p.atPunct("-") {
		p.advance()
		p.parseMultiplicative()
	}
}

func (p *Parser) parseMultiplicative() {
	p.parseUnary()
	for p.atPunct("*") || p.atPunct("/") || p.atPunct("%") {
		p.advance()
		p.parseUnary()
	}
}

func (p *Parser) parseUnary() {
	if p.atPunct("!") || p.atPunct("-") || p.atPunct("+") || p.atPunct("++") || p.atPunct("--") {
		p.advance()
		p.parseUnary()
		return
	}
	p.parsePower()
}

func (p *Parser) parsePower() {
	p.parsePostfix()
	if p.atPunct("^") || p.atPunct("**") {
		p.advance()
		p.parseUnary()
	}
}

func (p *Parser) parsePostfix() {
	p.parsePrimary()
	if p.atPunct("++") || p.atPunct("--") {
		p.advance()
	}
}

func (p *Parser) parsePrimary() {
	switch {
	case p.atPunct("("):
		p.advance()
		p.parseExpr()
		p.expectPunct(")")
	case p.atPunct("$"):
		p.advance()
		p.parsePrimary()
	case p.at(tokNumber) || p.at(tokString) || p.at(tokRegex):
		p.advance()
	case p.at(tokIdent) && !keywords[p.cur().text]:
		p.parseIdentPrimary()
	case p.atKeyword("getline"):
		p.advance()
		if p.at(tokIdent) {
			p.parseIdentPrimary()
		}
	default:
		if !p.at(tokEOF) {
			p.advance()
		}
	}
}

func (p *Parser) parseIdentPrimary() {
	t := p.advance()
	name := t.text

	if p.atPunct("(") {
		p.parseCallArgs(name, t.line, t.col)
		return
	}

	p.handler.OnUse(symbol.Global, p.scope, name, t.line, t.col, false)

	if p.atPunct("[") {
		p.advance()
		p.parseExpr()
		for p.atPunct(",") {
			p.advance()
			p.parseExpr()
		}
		p.expectPunct("]")
	}
}

// parseCallArgs parses "(" arg ("," arg)* ")" for a call to name at
// (line, col), bracketing the whole call and each argument with the
// OnFunctionCall/OnParameter events described in §4.3.
func (p *Parser) parseCallArgs(name string, line, col int) {
	p.handler.OnUse(symbol.Function, p.scope, name, line, col, false)
	p.handler.OnFunctionCall(true, name, line, col)
	p.advance() // "("

	index := 0
	for !p.atPunct(")") && !p.at(tokEOF) {
		at := p.cur()
		p.handler.OnParameter(index, true, at.line, at.col)
		p.parseExpr()
		endTok := p.cur()
		p.handler.OnParameter(index, false, endTok.line, endTok.col)
		index++
		if p.atPunct(",") {
			p.advance()
			continue
		}
		break
	}
	closeTok := p.cur()
	if p.atPunct(")") {
		p.advance()
	}
	p.handler.OnParameter(-1, true, closeTok.line, closeTok.col)
	p.handler.OnFunctionCall(false, name, closeTok.line, closeTok.col)
}

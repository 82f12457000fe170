package completion

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/lukascekic/scriptrunner"
	"github.com/lukascekic/scriptrunner/lexer"
)

// Document symbols are names declared within a script. They are collected
// from tokens only, without building a syntax tree. Symbol tables are attached
// to scopes, and scopes are organized in a tree following the braces of the
// document.

// --- Symbols ---------------------------------------------------------------

// DeclKind tells how a symbol has been declared.
type DeclKind int8

// Kinds of declarations
const (
	Value DeclKind = iota
	Variable
	Function
	Class
	Parameter
)

func (d DeclKind) String() string {
	switch d {
	case Value:
		return "val"
	case Variable:
		return "var"
	case Function:
		return "fun"
	case Class:
		return "class"
	}
	return "param"
}

var declKeywords = map[string]DeclKind{
	"val":       Value,
	"var":       Variable,
	"fun":       Function,
	"class":     Class,
	"object":    Class,
	"interface": Class,
	"typealias": Class,
}

// Symbol is a name declared in a document. Span is the range of the declaring
// identifier.
type Symbol struct {
	name string
	Decl DeclKind
	Span scriptrunner.Span
}

// Name gets the symbol's name.
func (s *Symbol) Name() string {
	return s.name
}

// String is a debug Stringer for symbols.
func (s *Symbol) String() string {
	return fmt.Sprintf("<%s '%s'@%d>", s.Decl, s.name, s.Span.From())
}

// === Symbol Tables =========================================================

// SymbolTable stores symbols by name. Iteration is in order of names.
type SymbolTable struct {
	table *treemap.Map
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: treemap.NewWithStringComparator()}
}

// Resolve checks for a symbol in the table. Returns a symbol or nil.
func (t *SymbolTable) Resolve(name string) *Symbol {
	if sym, found := t.table.Get(name); found {
		return sym.(*Symbol)
	}
	return nil
}

// Define creates a new symbol and stores it into the table. The name may not
// be empty. Overwrites an existing symbol with this name, if any.
// Returns the new symbol and the previously stored one (or nil).
func (t *SymbolTable) Define(name string, decl DeclKind, span scriptrunner.Span) (*Symbol, *Symbol) {
	if name == "" {
		return nil, nil
	}
	sym := &Symbol{name: name, Decl: decl, Span: span}
	return sym, t.Insert(sym)
}

// Insert inserts a pre-created symbol, returning the symbol it replaced.
func (t *SymbolTable) Insert(sym *Symbol) *Symbol {
	old := t.Resolve(sym.name)
	t.table.Put(sym.name, sym)
	return old
}

// Size counts the symbols in a symbol table.
func (t *SymbolTable) Size() int {
	return t.table.Size()
}

// Each iterates over the symbols in the table, ordered by name.
func (t *SymbolTable) Each(mapper func(string, *Symbol)) {
	t.table.Each(func(k, v interface{}) {
		mapper(k.(string), v.(*Symbol))
	})
}

// === Scopes ================================================================

// Scope is a named region of a document, which may contain symbol definitions.
// Scopes link back to a parent scope, forming a tree. A scope starts at its
// opening brace and ends behind its closing brace. A scope never closed
// extends to the end of the document.
type Scope struct {
	Name     string
	Parent   *Scope
	Span     scriptrunner.Span
	closed   bool
	children []*Scope
	symtab   *SymbolTable
}

// NewScope creates a new scope, starting at rune offset start.
func NewScope(name string, parent *Scope, start int) *Scope {
	sc := &Scope{
		Name:   name,
		Parent: parent,
		Span:   scriptrunner.Span{start, start},
		symtab: NewSymbolTable(),
	}
	if parent != nil {
		parent.children = append(parent.children, sc)
	}
	return sc
}

// Prettyfied Stringer.
func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s %s>", s.Name, s.Span)
}

// Symbols returns the symbol table of a scope.
func (s *Scope) Symbols() *SymbolTable {
	return s.symtab
}

// Children returns the nested scopes, in document order.
func (s *Scope) Children() []*Scope {
	return s.children
}

// Define defines a symbol in the scope. Returns the new symbol and the
// previously stored symbol with this name, if any.
func (s *Scope) Define(name string, decl DeclKind, span scriptrunner.Span) (*Symbol, *Symbol) {
	return s.symtab.Define(name, decl, span)
}

// Resolve finds a symbol along the path to the root scope. Returns the symbol
// (or nil) and the scope it has been found in.
func (s *Scope) Resolve(name string) (*Symbol, *Scope) {
	for ; s != nil; s = s.Parent {
		if sym := s.symtab.Resolve(name); sym != nil {
			return sym, s
		}
	}
	return nil, nil
}

// contains is true if a cursor at rune offset pos is inside the scope, i.e.
// behind its opening brace and in front of its closing brace.
func (s *Scope) contains(pos int) bool {
	if s.Parent == nil {
		return true
	}
	if pos <= s.Span.From() {
		return false
	}
	return !s.closed || pos < s.Span.To()
}

// Innermost returns the most deeply nested scope containing a cursor at pos.
func (s *Scope) Innermost(pos int) *Scope {
	for _, ch := range s.children {
		if ch.contains(pos) {
			return ch.Innermost(pos)
		}
	}
	return s
}

// Visible lists the symbols declared in front of pos and visible from there,
// innermost declaration first. Shadowed symbols are left out.
func (s *Scope) Visible(pos int) []*Symbol {
	seen := make(map[string]bool)
	var visible []*Symbol
	for sc := s.Innermost(pos); sc != nil; sc = sc.Parent {
		sc.symtab.Each(func(name string, sym *Symbol) {
			if seen[name] || sym.Span.To() >= pos {
				return
			}
			seen[name] = true
			visible = append(visible, sym)
		})
	}
	return visible
}

// ---------------------------------------------------------------------------

// ScopeTree is treated as a stack during collection of symbols, thus building
// a tree from scopes which are pushed and popped to/from the stack.
type ScopeTree struct {
	base *Scope
	tos  *Scope
}

// Current gets the current scope of a stack (TOS).
func (st *ScopeTree) Current() *Scope {
	if st.tos == nil {
		panic("attempt to access scope from empty stack")
	}
	return st.tos
}

// Globals gets the outermost scope, containing top-level symbols.
func (st *ScopeTree) Globals() *Scope {
	if st.base == nil {
		panic("attempt to access global scope from empty stack")
	}
	return st.base
}

// PushNewScope pushes a new scope, starting at rune offset start.
func (st *ScopeTree) PushNewScope(name string, start int) *Scope {
	sc := NewScope(name, st.tos, start)
	if st.tos == nil {
		st.base = sc
	}
	st.tos = sc
	tracer().P("scope", name).Debugf("pushing new scope")
	return sc
}

// PopScope closes the top-most scope at rune offset end and pops it.
func (st *ScopeTree) PopScope(end int) *Scope {
	if st.tos == nil {
		panic("attempt to pop scope from empty stack")
	}
	sc := st.tos
	sc.Span[1], sc.closed = end, true
	st.tos = sc.Parent
	tracer().Debugf("popping scope [%s]", sc.Name)
	return sc
}

// === Collecting ============================================================

// CollectSymbols builds the scope tree of a tokenized document and returns
// its global scope. Declarations recognized are
//
//	val/var name, val (a, b), fun name(p: T), fun <T> R.name(), class/object/interface/typealias name
//
// Function parameters are defined in the scope of the function body, provided
// the body is a block.
func CollectSymbols(tokens []lexer.Token) *Scope {
	st := &ScopeTree{}
	st.PushNewScope("global", 0)
	var params []lexer.Token
	name := "block"
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Type {
		case lexer.LBRACE:
			sc := st.PushNewScope(name, t.Start)
			for _, p := range params {
				sc.Define(p.Text, Parameter, p.Span())
			}
			params, name = nil, "block"
		case lexer.RBRACE:
			if st.Current() != st.Globals() {
				st.PopScope(t.End)
			}
		case lexer.KEYWORD:
			decl, ok := declKeywords[t.Text]
			if !ok {
				continue
			}
			names, j := declaredNames(tokens, i+1)
			for _, n := range names {
				st.Current().Define(n.Text, decl, n.Span())
			}
			if decl == Function && len(names) == 1 {
				var ps []lexer.Token
				if ps, j = parameters(tokens, j); bodyFollows(tokens, j) {
					params, name = ps, "fun "+names[0].Text
				}
			}
			i = j - 1
		}
	}
	global := st.Globals()
	if n := len(tokens); n > 0 {
		global.Span[1] = tokens[n-1].End
	}
	return global
}

func trivia(t lexer.Token) bool {
	return t.Type == lexer.WHITESPACE || t.Type == lexer.NEWLINE || t.Type == lexer.COMMENT
}

// skip returns the index of the first non-trivia token at or behind i.
func skip(tokens []lexer.Token, i int) int {
	for i < len(tokens) && trivia(tokens[i]) {
		i++
	}
	return i
}

func isOperator(tokens []lexer.Token, i int, op string) bool {
	return i < len(tokens) && tokens[i].Type == lexer.OPERATOR && strings.HasPrefix(tokens[i].Text, op)
}

// declaredNames reads the name(s) following a declaration keyword. It returns
// the identifiers and the index of the first token not consumed.
func declaredNames(tokens []lexer.Token, i int) ([]lexer.Token, int) {
	i = skip(tokens, i)
	if i < len(tokens) && tokens[i].Type == lexer.LT { // type parameters
		i = skip(tokens, closing(tokens, i)+1)
	}
	if i < len(tokens) && tokens[i].Type == lexer.LPAREN { // destructuring
		var names []lexer.Token
		for i++; i < len(tokens) && tokens[i].Type != lexer.RPAREN; i++ {
			if tokens[i].Type == lexer.IDENTIFIER {
				names = append(names, tokens[i])
			}
		}
		return names, i
	}
	var name *lexer.Token
	for i < len(tokens) && (tokens[i].Type == lexer.IDENTIFIER || tokens[i].Type == lexer.BUILTIN_TYPE) {
		name = &tokens[i]
		k := i + 1
		if k < len(tokens) && tokens[k].Type == lexer.LT {
			k = closing(tokens, k) + 1
		}
		if !isOperator(tokens, k, ".") || isOperator(tokens, k, "..") {
			i++
			break
		}
		i = k + 1 // behind receiver type
	}
	if name == nil || name.Type != lexer.IDENTIFIER {
		return nil, i
	}
	return []lexer.Token{*name}, i
}

// closing returns the index of the '>' matching the '<' at index i, or the
// index of the last token if there is none.
func closing(tokens []lexer.Token, i int) int {
	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].Type {
		case lexer.LT:
			depth++
		case lexer.GT:
			if depth--; depth == 0 {
				return i
			}
		}
	}
	return len(tokens) - 1
}

// parameters reads a parameter list starting at index i, if present. A
// parameter is an identifier directly followed by ':' on the outermost
// parenthesis level.
func parameters(tokens []lexer.Token, i int) ([]lexer.Token, int) {
	i = skip(tokens, i)
	if i >= len(tokens) || tokens[i].Type != lexer.LPAREN {
		return nil, i
	}
	var params []lexer.Token
	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			if depth--; depth == 0 {
				return params, i + 1
			}
		case lexer.IDENTIFIER:
			if depth == 1 && isOperator(tokens, skip(tokens, i+1), ":") {
				params = append(params, tokens[i])
			}
		}
	}
	return params, i
}

// bodyFollows is true if, after an optional return type, a block starts at i.
func bodyFollows(tokens []lexer.Token, i int) bool {
	i = skip(tokens, i)
	if !isOperator(tokens, i, ":") {
		return i < len(tokens) && tokens[i].Type == lexer.LBRACE
	}
	for i = skip(tokens, i+1); i < len(tokens); i = skip(tokens, i+1) {
		switch tokens[i].Type {
		case lexer.LBRACE:
			return true
		case lexer.IDENTIFIER, lexer.BUILTIN_TYPE, lexer.LT, lexer.GT:
		case lexer.OPERATOR:
			if tokens[i].Text != "." && tokens[i].Text != "?" && tokens[i].Text != "," {
				return false
			}
		default:
			return false
		}
	}
	return false
}

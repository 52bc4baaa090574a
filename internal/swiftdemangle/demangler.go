package swiftdemangle

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by the entry points. Every malformed input maps to one of
// these; callers should test with errors.Is.
var (
	ErrEmptyInput            = errors.New("swiftdemangle: empty mangled name")
	ErrInvalidPrefix         = errors.New("swiftdemangle: unrecognized mangling prefix")
	ErrMalformed             = errors.New("swiftdemangle: malformed mangled name")
	ErrUnbalancedStack       = errors.New("swiftdemangle: unbalanced node stack")
	ErrBudgetExceeded        = errors.New("swiftdemangle: nesting budget exceeded")
	ErrUnresolvedSymbolicRef = errors.New("swiftdemangle: unresolved symbolic reference")
)

const (
	maxNumWords    = 26
	maxRepeatCount = 2048

	// DefaultMaxDepth bounds the nesting of recursive productions.
	DefaultMaxDepth = 1024
)

// Prefixes of the current mangling scheme.
var manglingPrefixes = []string{"_T0", "$S", "_$S", "$s", "_$s"}

// SymbolicReferenceResolver resolves symbolic reference offsets found in mangled
// strings. Implementations must interpret the offset relative to the address of
// the reference site and build the returned node with the given factory.
type SymbolicReferenceResolver interface {
	ResolveType(f *Factory, control byte, offset int32, refIndex int) (*Node, error)
}

type Option func(*options)

type options struct {
	resolver SymbolicReferenceResolver
	maxDepth int
}

func WithResolver(r SymbolicReferenceResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithMaxDepth sets the nesting budget; values <= 0 restore DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

func buildOptions(opts ...Option) options {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.maxDepth <= 0 {
		cfg.maxDepth = DefaultMaxDepth
	}
	return cfg
}

type stackEntry struct {
	node *Node
	pos  int
}

// Demangler is one demangling session: a node factory plus the parser state.
//
// Trees returned by a Demangler stay valid until Clear is called. A Demangler
// must not be used from several goroutines at once.
type Demangler struct {
	f        *Factory
	resolver SymbolicReferenceResolver
	maxDepth int

	text          string
	pos           int
	nodeStack     []stackEntry
	substitutions []*Node
	words         [maxNumWords]string
	numWords      int
	depth         int
	err           error
}

// New returns a session that owns its own factory.
func New(opts ...Option) *Demangler {
	return newDemangler(NewFactory(), buildOptions(opts...))
}

func newDemangler(f *Factory, cfg options) *Demangler {
	return &Demangler{
		f:        f,
		resolver: cfg.resolver,
		maxDepth: cfg.maxDepth,
	}
}

// Factory returns the factory that owns this session's nodes.
func (d *Demangler) Factory() *Factory {
	return d.f
}

// Clear invalidates all trees returned so far and resets the session. Slab
// capacity grown by earlier calls is kept.
func (d *Demangler) Clear() {
	d.f.Clear()
	d.init("")
	clear(d.nodeStack[:cap(d.nodeStack)])
	clear(d.substitutions[:cap(d.substitutions)])
}

// DemangleSymbol demangles a complete symbol including its mangling prefix
// and returns its Global node.
func (d *Demangler) DemangleSymbol(mangled string) (*Node, error) {
	if mangled == "" {
		return nil, ErrEmptyInput
	}
	d.init(mangled)

	// Old-style class and protocol names are still used in ObjC metadata.
	if d.nextIfString("_Tt") {
		global := d.demangleObjCTypeName()
		if global == nil {
			return nil, d.failure()
		}
		d.pushNode(global)
		return global, nil
	}

	prefix := manglingPrefixLength(mangled)
	if prefix == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, truncate(mangled))
	}
	d.pos = prefix

	if !d.parseAndPushNodes() {
		return nil, d.failure()
	}

	global := d.createNode(KindGlobal)
	suffix := d.popNodeKind(KindSuffix)
	parent := global
	for attr := d.popNodeIf(isFunctionAttr); attr != nil; attr = d.popNodeIf(isFunctionAttr) {
		d.f.addChild(parent, attr)
		if attr.kind == KindPartialApplyForwarder || attr.kind == KindPartialApplyObjCForwarder {
			parent = attr
		}
	}
	if len(d.nodeStack) != 1 {
		return nil, d.unbalanced()
	}
	top := d.nodeStack[0].node
	if top.kind == KindType {
		if top.NumChildren() != 1 {
			return nil, d.failure()
		}
		top = top.FirstChild()
	}
	d.f.addChild(parent, top)
	if suffix != nil {
		d.f.addChild(global, suffix)
	}
	return global, nil
}

// DemangleType demangles a bare type mangling (no symbol prefix).
func (d *Demangler) DemangleType(mangled string) (*Node, error) {
	if mangled == "" {
		return nil, ErrEmptyInput
	}
	d.init(mangled)
	if !d.parseAndPushNodes() {
		return nil, d.failure()
	}
	if len(d.nodeStack) != 1 {
		return nil, d.unbalanced()
	}
	return d.nodeStack[0].node, nil
}

// IsMangledName reports whether name carries a prefix of the current scheme.
func IsMangledName(name string) bool {
	return manglingPrefixLength(name) > 0 || strings.HasPrefix(name, "_Tt")
}

func manglingPrefixLength(name string) int {
	for _, prefix := range manglingPrefixes {
		if strings.HasPrefix(name, prefix) {
			return len(prefix)
		}
	}
	return 0
}

func (d *Demangler) init(text string) {
	d.text = text
	d.pos = 0
	d.nodeStack = d.nodeStack[:0]
	d.substitutions = d.substitutions[:0]
	d.numWords = 0
	d.depth = 0
	d.err = nil
}

func (d *Demangler) parseAndPushNodes() bool {
	for d.pos < len(d.text) {
		node := d.demangleOperator()
		if node == nil {
			if debugEnabled {
				debugf("demangleOperator failed at pos=%d stack=%s\n", d.pos, d.stackTrail())
			}
			return false
		}
		d.pushNode(node)
	}
	return true
}

// failure converts the current parser state into an error.
func (d *Demangler) failure() error {
	if d.err != nil {
		return d.err
	}
	pos := d.pos
	if pos > len(d.text) {
		pos = len(d.text)
	}
	return fmt.Errorf("%w at position %d of %q", ErrMalformed, pos, truncate(d.text))
}

func (d *Demangler) unbalanced() error {
	return fmt.Errorf("%w: %d nodes left after parsing %q", ErrUnbalancedStack, len(d.nodeStack), truncate(d.text))
}

// fail records the first specific failure cause and returns nil so rules can
// write `return d.fail(err)`.
func (d *Demangler) fail(err error) *Node {
	if d.err == nil {
		d.err = err
	}
	return nil
}

// enter consumes one unit of the nesting budget.
func (d *Demangler) enter() bool {
	if d.depth >= d.maxDepth {
		d.fail(fmt.Errorf("%w: limit %d", ErrBudgetExceeded, d.maxDepth))
		return false
	}
	d.depth++
	return true
}

func (d *Demangler) leave() {
	d.depth--
}

func truncate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// Cursor primitives. nextChar advances even at the end of input so that
// pushBack always undoes exactly one nextChar.

func (d *Demangler) peekChar() byte {
	if d.pos >= len(d.text) {
		return 0
	}
	return d.text[d.pos]
}

func (d *Demangler) nextChar() byte {
	if d.pos >= len(d.text) {
		d.pos++
		return 0
	}
	c := d.text[d.pos]
	d.pos++
	return c
}

func (d *Demangler) pushBack() {
	if d.pos > 0 {
		d.pos--
	}
}

func (d *Demangler) nextIf(c byte) bool {
	if d.peekChar() != c || d.pos >= len(d.text) {
		return false
	}
	d.pos++
	return true
}

func (d *Demangler) nextIfString(s string) bool {
	if d.pos > len(d.text) || !strings.HasPrefix(d.text[d.pos:], s) {
		return false
	}
	d.pos += len(s)
	return true
}

// Node stack.

func (d *Demangler) pushNode(n *Node) {
	d.nodeStack = append(d.nodeStack, stackEntry{node: n, pos: d.pos})
}

func (d *Demangler) popNode() *Node {
	if len(d.nodeStack) == 0 {
		return nil
	}
	top := d.nodeStack[len(d.nodeStack)-1].node
	d.nodeStack[len(d.nodeStack)-1] = stackEntry{}
	d.nodeStack = d.nodeStack[:len(d.nodeStack)-1]
	return top
}

func (d *Demangler) popNodeKind(kind NodeKind) *Node {
	if len(d.nodeStack) == 0 || d.nodeStack[len(d.nodeStack)-1].node.kind != kind {
		return nil
	}
	return d.popNode()
}

func (d *Demangler) popNodeIf(pred func(NodeKind) bool) *Node {
	if len(d.nodeStack) == 0 || !pred(d.nodeStack[len(d.nodeStack)-1].node.kind) {
		return nil
	}
	return d.popNode()
}

func (d *Demangler) stackTrail() string {
	var sb strings.Builder
	for i, e := range d.nodeStack {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s@%d", e.node.kind, e.pos)
	}
	return "[" + sb.String() + "]"
}

// Substitutions.

func (d *Demangler) addSubstitution(n *Node) {
	if n == nil {
		return
	}
	if debugEnabled {
		debugf("addSubstitution[%d]=%s\n", len(d.substitutions), n.kind)
	}
	d.substitutions = append(d.substitutions, n)
}

func (d *Demangler) substitution(index int) *Node {
	if index < 0 || index >= len(d.substitutions) {
		return nil
	}
	return d.substitutions[index]
}

// Node construction helpers. Every helper returns nil when one of its inputs
// is nil, which is how failures propagate through the productions.

func (d *Demangler) createNode(kind NodeKind) *Node {
	return d.f.CreateNode(kind)
}

func (d *Demangler) createNodeWithIndex(kind NodeKind, index uint64) *Node {
	return d.f.CreateNodeWithIndex(kind, index)
}

func (d *Demangler) createNodeWithText(kind NodeKind, text string) *Node {
	return d.f.CreateNodeWithText(kind, text)
}

func (d *Demangler) addChild(parent, child *Node) *Node {
	if parent == nil || child == nil {
		return nil
	}
	d.f.addChild(parent, child)
	return parent
}

func (d *Demangler) createWithChild(kind NodeKind, child *Node) *Node {
	if child == nil {
		return nil
	}
	n := d.createNode(kind)
	d.f.addChild(n, child)
	return n
}

func (d *Demangler) createType(child *Node) *Node {
	return d.createWithChild(KindType, child)
}

func (d *Demangler) createWithChildren(kind NodeKind, children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			return nil
		}
	}
	n := d.createNode(kind)
	for _, c := range children {
		d.f.addChild(n, c)
	}
	return n
}

func (d *Demangler) createWithPoppedType(kind NodeKind) *Node {
	return d.createWithChild(kind, d.popNodeKind(KindType))
}

func (d *Demangler) changeKind(n *Node, kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	return d.f.cloneWithKind(n, kind)
}

// Numbers.

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLowerLetter(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func isUpperLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c byte) bool {
	return isLowerLetter(c) || isUpperLetter(c)
}

// demangleNatural returns -1 when no digit follows or the value overflows.
func (d *Demangler) demangleNatural() int {
	if !isDigit(d.peekChar()) {
		return -1
	}
	num := 0
	for isDigit(d.peekChar()) {
		next := num*10 + int(d.peekChar()-'0')
		if next < num || next > 1<<31-1 {
			return -1
		}
		num = next
		d.pos++
	}
	return num
}

// demangleIndex decodes `_` as 0 and `<n>_` as n+1; it returns -1 otherwise.
func (d *Demangler) demangleIndex() int {
	if d.nextIf('_') {
		return 0
	}
	num := d.demangleNatural()
	if num >= 0 && d.nextIf('_') {
		return num + 1
	}
	return -1
}

func (d *Demangler) demangleIndexAsNode() *Node {
	idx := d.demangleIndex()
	if idx < 0 {
		return nil
	}
	return d.createNodeWithIndex(KindNumber, uint64(idx))
}

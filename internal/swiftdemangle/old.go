package swiftdemangle

import (
	"fmt"
	"strings"
)

// oldDemangler parses the legacy `_T` mangling. Unlike the current scheme the
// grammar is prefix-ordered, so it is a plain recursive descent that shares
// the cursor, substitution list and factory of a Demangler.
type oldDemangler struct {
	*Demangler
}

// DemangleOldSymbolAsNode demangles a legacy `_T` symbol into nodes owned by f.
// The caller decides when to clear f, so many symbols can share one arena.
func DemangleOldSymbolAsNode(mangled string, f *Factory, opts ...Option) (*Node, error) {
	if mangled == "" {
		return nil, ErrEmptyInput
	}
	if !strings.HasPrefix(mangled, "_T") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, truncate(mangled))
	}
	o := oldDemangler{newDemangler(f, buildOptions(opts...))}
	o.init(mangled)
	global := o.parseGlobal()
	if global == nil || o.pos < len(o.text) {
		return nil, o.failure()
	}
	return global, nil
}

// DemangleOldTypeAsNode demangles a legacy type mangling into nodes owned by f.
func DemangleOldTypeAsNode(mangled string, f *Factory, opts ...Option) (*Node, error) {
	if mangled == "" {
		return nil, ErrEmptyInput
	}
	o := oldDemangler{newDemangler(f, buildOptions(opts...))}
	o.init(mangled)
	ty := o.parseType()
	if ty == nil || o.pos < len(o.text) {
		return nil, o.failure()
	}
	return ty, nil
}

func (o oldDemangler) parseGlobal() *Node {
	if !o.nextIfString("_T") {
		return nil
	}
	global := o.createNode(KindGlobal)
	for o.nextIf('T') {
		var attr NodeKind
		switch o.nextChar() {
		case 'o':
			attr = KindObjCAttribute
		case 'O':
			attr = KindNonObjCAttribute
		case 'D':
			attr = KindDynamicAttribute
		case 'd':
			attr = KindDirectMethodReferenceAttribute
		default:
			return nil
		}
		o.f.addChild(global, o.createNode(attr))
	}

	var body *Node
	switch {
	case o.nextIf('t'):
		body = o.createWithChild(KindTypeMangling, o.parseType())
	case o.nextIf('M'):
		body = o.parseMetadata()
	case o.nextIf('W'):
		if !o.nextIf('V') {
			return nil
		}
		body = o.createWithChild(KindValueWitnessTable, o.parseType())
	default:
		body = o.parseEntity()
	}
	return o.addChild(global, body)
}

func (o oldDemangler) parseMetadata() *Node {
	switch {
	case o.nextIf('P'):
		return o.createWithChild(KindGenericTypeMetadataPattern, o.parseType())
	case o.nextIf('a'):
		return o.createWithChild(KindTypeMetadataAccessFunction, o.parseType())
	case o.nextIf('L'):
		return o.createWithChild(KindTypeMetadataLazyCache, o.parseType())
	case o.nextIf('m'):
		return o.createWithChild(KindMetaclass, o.parseType())
	case o.nextIf('n'):
		return o.createWithChild(KindNominalTypeDescriptor, o.parseType())
	case o.nextIf('f'):
		return o.createWithChild(KindFullTypeMetadata, o.parseType())
	case o.nextIf('p'):
		return o.createWithChild(KindProtocolDescriptor, o.createType(o.parseProtocol()))
	}
	return o.createWithChild(KindTypeMetadata, o.parseType())
}

func (o oldDemangler) parseEntity() *Node {
	var basic NodeKind
	switch o.nextChar() {
	case 'F':
		basic = KindFunction
	case 'v':
		basic = KindVariable
	case 'I':
		basic = KindInitializer
	case 'i':
		basic = KindSubscript
	default:
		return nil
	}
	ctx := o.parseContext()
	if ctx == nil {
		return nil
	}

	kind := basic
	var wrap NodeKind
	var name, index *Node
	hasType := true
	switch {
	case o.nextIf('D'):
		kind, hasType = KindDeallocator, false
	case o.nextIf('d'):
		kind, hasType = KindDestructor, false
	case o.nextIf('e'):
		kind, hasType = KindIVarInitializer, false
	case o.nextIf('E'):
		kind, hasType = KindIVarDestroyer, false
	case o.nextIf('C'):
		kind = KindAllocator
	case o.nextIf('c'):
		kind = KindConstructor
	case o.nextIf('g'):
		wrap, kind, name = KindGetter, KindVariable, o.parseDeclName()
	case o.nextIf('s'):
		wrap, kind, name = KindSetter, KindVariable, o.parseDeclName()
	case o.nextIf('m'):
		wrap, kind, name = KindMaterializeForSet, KindVariable, o.parseDeclName()
	case o.nextIf('w'):
		wrap, kind, name = KindWillSet, KindVariable, o.parseDeclName()
	case o.nextIf('W'):
		wrap, kind, name = KindDidSet, KindVariable, o.parseDeclName()
	case o.nextIf('U'):
		kind, index = KindExplicitClosure, o.demangleIndexAsNode()
	case o.nextIf('u'):
		kind, index = KindImplicitClosure, o.demangleIndexAsNode()
	case basic == KindInitializer && o.nextIf('A'):
		kind, index, hasType = KindDefaultArgumentInitializer, o.demangleIndexAsNode(), false
	case basic == KindInitializer && o.nextIf('i'):
		kind, hasType = KindInitializer, false
	case basic == KindSubscript:
	default:
		name = o.parseDeclName()
		if name == nil {
			return nil
		}
	}
	if wrap != "" {
		if name == nil {
			return nil
		}
		if name.kind == KindIdentifier && name.Text() == "subscript" {
			kind, name = KindSubscript, nil
		}
	}
	if (kind == KindExplicitClosure || kind == KindImplicitClosure || kind == KindDefaultArgumentInitializer) && index == nil {
		return nil
	}

	entity := o.createWithChild(kind, ctx)
	if name != nil {
		o.f.addChild(entity, name)
	}
	if index != nil {
		o.f.addChild(entity, index)
	}
	if hasType {
		entity = o.addChild(entity, o.parseType())
	}
	if wrap != "" {
		entity = o.createWithChild(wrap, entity)
	}
	return entity
}

func (o oldDemangler) parseContext() *Node {
	if !o.enter() {
		return nil
	}
	defer o.leave()

	switch c := o.peekChar(); {
	case c == 'E':
		o.pos++
		module := o.parseModule()
		ext := o.parseContext()
		if ext == nil || !isNominal(ext.kind) {
			return nil
		}
		return o.createWithChildren(KindExtension, module, ext)
	case c == 'S':
		o.pos++
		n := o.parseSubstitution()
		if n != nil && n.kind == KindType {
			n = n.FirstChild()
		}
		if n == nil || !isContext(n.kind) {
			return nil
		}
		return n
	case c == 'C':
		o.pos++
		return o.parseNominalDecl(KindClass)
	case c == 'V':
		o.pos++
		return o.parseNominalDecl(KindStructure)
	case c == 'O':
		o.pos++
		return o.parseNominalDecl(KindEnum)
	case c == 'P':
		o.pos++
		return o.parseNominalDecl(KindProtocol)
	case c == 'F' || c == 'v' || c == 'I' || c == 'i':
		return o.parseEntity()
	case isDigit(c) || (c == 'X' && isDigit(o.peekAt(1))):
		module := o.parseIdentifier(KindModule)
		o.addSubstitution(module)
		return module
	}
	return nil
}

func (o oldDemangler) parseModule() *Node {
	if o.nextIf('S') {
		n := o.parseSubstitution()
		if n == nil || n.kind != KindModule {
			return nil
		}
		return n
	}
	module := o.parseIdentifier(KindModule)
	o.addSubstitution(module)
	return module
}

func (o oldDemangler) parseNominalDecl(kind NodeKind) *Node {
	ctx := o.parseContext()
	name := o.parseDeclName()
	n := o.createWithChildren(kind, ctx, name)
	o.addSubstitution(n)
	return n
}

// parseSubstitution decodes what follows an 'S': a standard module, a known
// standard library type or an index into the substitution list.
func (o oldDemangler) parseSubstitution() *Node {
	switch o.peekChar() {
	case 's':
		o.pos++
		return o.createNodeWithText(KindModule, stdlibName)
	case 'o':
		o.pos++
		return o.createNodeWithText(KindModule, objcModuleName)
	case 'C':
		o.pos++
		return o.createNodeWithText(KindModule, clangImporterModule)
	}
	if c := o.peekChar(); strings.IndexByte(oldStandardTypes, c) >= 0 {
		o.pos++
		kt, _ := lookupStandardType(c)
		return o.createSwiftType(kt.kind, kt.name)
	}
	idx := o.demangleIndex()
	if idx < 0 {
		return nil
	}
	return o.substitution(idx)
}

// oldStandardTypes lists the standard types with a legacy `S` abbreviation.
const oldStandardTypes = "abcdfiVvPpqQRrSu"

func (o oldDemangler) parseDeclName() *Node {
	if o.nextIf('L') {
		discriminator := o.demangleIndexAsNode()
		name := o.parseIdentifier(KindIdentifier)
		return o.createWithChildren(KindLocalDeclName, discriminator, name)
	}
	if o.nextIf('P') {
		discriminator := o.parseIdentifier(KindIdentifier)
		name := o.parseIdentifier(KindIdentifier)
		return o.createWithChildren(KindPrivateDeclName, discriminator, name)
	}
	return o.parseIdentifier(KindIdentifier)
}

// parseIdentifier reads `[X][o<fixity>]<len><chars>`. An X marks a punycode
// payload, which is decoded before operator letters are mapped.
func (o oldDemangler) parseIdentifier(kind NodeKind) *Node {
	punycoded := o.nextIf('X')
	isOperator := false
	if o.nextIf('o') {
		switch o.nextChar() {
		case 'p':
			kind = KindPrefixOperator
		case 'P':
			kind = KindPostfixOperator
		case 'i':
			kind = KindInfixOperator
		default:
			return nil
		}
		isOperator = true
	}
	n := o.demangleNatural()
	if n <= 0 || o.pos+n > len(o.text) {
		return nil
	}
	text := o.text[o.pos : o.pos+n]
	if punycoded {
		decoded, err := decodeSwiftPunycode(text)
		if err != nil {
			return o.fail(fmt.Errorf("%w: punycode identifier at position %d: %v", ErrMalformed, o.pos, err))
		}
		text = o.f.text.CopyString(decoded)
	}
	o.pos += n
	if !isOperator {
		return o.createNodeWithText(kind, text)
	}
	tb := o.f.newTextBuilder()
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 0x80 {
			tb.appendByte(c)
			continue
		}
		if !isLowerLetter(c) || opCharTable[c-'a'] == ' ' {
			return nil
		}
		tb.appendByte(opCharTable[c-'a'])
	}
	return o.createNodeWithText(kind, tb.String())
}

func (o oldDemangler) parseProtocol() *Node {
	ctx := o.parseContext()
	if ctx == nil {
		return nil
	}
	if ctx.kind == KindProtocol {
		return ctx
	}
	proto := o.createWithChildren(KindProtocol, ctx, o.parseDeclName())
	o.addSubstitution(proto)
	return proto
}

// parseType returns a Type node.
func (o oldDemangler) parseType() *Node {
	if !o.enter() {
		return nil
	}
	defer o.leave()

	ty := o.parseTypeBody()
	if ty == nil || ty.kind == KindType {
		return ty
	}
	return o.createType(ty)
}

func (o oldDemangler) parseTypeBody() *Node {
	switch c := o.nextChar(); c {
	case 'B':
		return o.parseBuiltin()
	case 'a':
		ctx := o.parseContext()
		name := o.parseDeclName()
		alias := o.createWithChildren(KindTypeAlias, ctx, name)
		o.addSubstitution(alias)
		return alias
	case 'C':
		return o.parseNominalDecl(KindClass)
	case 'V':
		return o.parseNominalDecl(KindStructure)
	case 'O':
		return o.parseNominalDecl(KindEnum)
	case 'P':
		list := o.createNode(KindTypeList)
		for !o.nextIf('_') {
			proto := o.parseProtocol()
			if proto == nil {
				return nil
			}
			o.f.addChild(list, o.createType(proto))
		}
		return o.createWithChild(KindProtocolList, list)
	case 'D':
		return o.createWithChild(KindDynamicSelf, o.parseType())
	case 'F':
		return o.parseFunctionType(KindFunctionType)
	case 'f':
		return o.parseFunctionType(KindUncurriedFunctionType)
	case 'b':
		return o.parseFunctionType(KindObjCBlock)
	case 'K':
		return o.parseFunctionType(KindAutoClosureType)
	case 'G':
		return o.parseBoundGeneric()
	case 'M':
		return o.createWithChild(KindMetatype, o.parseType())
	case 'Q':
		depth := 0
		if o.nextIf('d') {
			if depth = o.demangleIndex(); depth < 0 {
				return nil
			}
			depth++
		}
		index := o.demangleIndex()
		if index < 0 {
			return nil
		}
		tb := o.f.newTextBuilder()
		appendGenericParamName(&tb, depth, index)
		return o.createNodeWithText(KindArchetypeRef, tb.String())
	case 'q':
		if o.nextIf('d') {
			depth := o.demangleIndex()
			index := o.demangleIndex()
			if depth < 0 || index < 0 {
				return nil
			}
			return o.getDependentGenericParamType(depth+1, index)
		}
		index := o.demangleIndex()
		if index < 0 {
			return nil
		}
		return o.getDependentGenericParamType(0, index)
	case 'R':
		return o.createWithChild(KindInOut, o.parseType())
	case 'S':
		n := o.parseSubstitution()
		if n == nil || n.kind == KindModule {
			return nil
		}
		return n
	case 'T', 't':
		return o.parseTuple(c == 't')
	case 'X':
		switch o.nextChar() {
		case 'o':
			return o.createWithChild(KindUnowned, o.parseType())
		case 'w':
			return o.createWithChild(KindWeak, o.parseType())
		case 'f':
			return o.parseFunctionType(KindThinFunctionType)
		}
	}
	return nil
}

func (o oldDemangler) parseBuiltin() *Node {
	var name string
	switch c := o.nextChar(); c {
	case 'f', 'i':
		prefix := "Builtin.Int"
		if c == 'f' {
			prefix = "Builtin.Float"
		}
		bits := o.demangleNatural()
		if bits <= 0 || !o.nextIf('_') {
			return nil
		}
		tb := o.f.newTextBuilder()
		tb.appendString(prefix)
		tb.appendInt(int64(bits))
		return o.createNodeWithText(KindBuiltinTypeName, tb.String())
	case 'o':
		name = "Builtin.NativeObject"
	case 'O':
		name = "Builtin.UnknownObject"
	case 'b':
		name = "Builtin.BridgeObject"
	case 'p':
		name = "Builtin.RawPointer"
	case 'w':
		name = "Builtin.Word"
	case 'B':
		name = "Builtin.UnsafeValueBuffer"
	default:
		return nil
	}
	return o.createNodeWithText(KindBuiltinTypeName, name)
}

func (o oldDemangler) parseFunctionType(kind NodeKind) *Node {
	args := o.createWithChild(KindArgumentTuple, o.parseType())
	result := o.createWithChild(KindReturnType, o.parseType())
	return o.createWithChildren(kind, args, result)
}

func (o oldDemangler) parseBoundGeneric() *Node {
	base := o.parseType()
	if base == nil || base.NumChildren() != 1 {
		return nil
	}
	args := o.createNode(KindTypeList)
	for !o.nextIf('_') {
		arg := o.parseType()
		if arg == nil {
			return nil
		}
		o.f.addChild(args, arg)
	}
	if args.NumChildren() == 0 {
		return nil
	}
	var kind NodeKind
	switch base.FirstChild().kind {
	case KindClass:
		kind = KindBoundGenericClass
	case KindStructure:
		kind = KindBoundGenericStructure
	case KindEnum:
		kind = KindBoundGenericEnum
	default:
		return nil
	}
	return o.createWithChildren(kind, base, args)
}

func (o oldDemangler) parseTuple(variadic bool) *Node {
	tuple := o.createNode(KindTuple)
	for !o.nextIf('_') {
		elem := o.createNode(KindTupleElement)
		if isDigit(o.peekChar()) {
			label := o.parseIdentifier(KindTupleElementName)
			if label == nil {
				return nil
			}
			o.f.addChild(elem, label)
		}
		ty := o.parseType()
		if ty == nil {
			return nil
		}
		o.f.addChild(elem, ty)
		o.f.addChild(tuple, elem)
	}
	if variadic {
		last := tuple.LastChild()
		if last == nil {
			return nil
		}
		// The marker leads the element's children, as in the current scheme.
		o.f.addChild(last, o.createNode(KindVariadicMarker))
		ch := last.children
		marker := ch[len(ch)-1]
		copy(ch[1:], ch[:len(ch)-1])
		ch[0] = marker
	}
	return tuple
}

func (o oldDemangler) peekAt(off int) byte {
	if o.pos+off >= len(o.text) {
		return 0
	}
	return o.text[o.pos+off]
}

package swiftdemangle

import (
	"encoding/binary"
	"fmt"
)

// demangleOperator decodes one operator and returns the node to push, or nil
// when the input is malformed.
func (d *Demangler) demangleOperator() *Node {
	c := d.nextChar()
	if debugEnabled {
		debugf("demangleOperator: %q at pos=%d\n", c, d.pos-1)
	}
	if c >= 0x01 && c <= 0x17 {
		return d.demangleSymbolicReference(c)
	}
	switch c {
	case 'A':
		return d.demangleMultiSubstitutions()
	case 'B':
		return d.demangleBuiltinType()
	case 'C':
		return d.demangleAnyGenericType(KindClass)
	case 'D':
		return d.createWithChild(KindTypeMangling, d.popNodeKind(KindType))
	case 'E':
		return d.demangleExtensionContext()
	case 'F':
		return d.demanglePlainFunction()
	case 'G':
		return d.demangleBoundGenericType()
	case 'I':
		return d.demangleImplFunctionType()
	case 'K':
		return d.createNode(KindThrowsAnnotation)
	case 'L':
		return d.demangleLocalIdentifier()
	case 'M':
		return d.demangleMetatype()
	case 'N':
		return d.createWithChild(KindTypeMetadata, d.popNodeKind(KindType))
	case 'O':
		return d.demangleAnyGenericType(KindEnum)
	case 'P':
		return d.demangleAnyGenericType(KindProtocol)
	case 'Q':
		return d.demangleArchetype()
	case 'R':
		return d.demangleGenericRequirement()
	case 'S':
		return d.demangleStandardSubstitution()
	case 'T':
		return d.demangleThunkOrSpecialization()
	case 'V':
		return d.demangleAnyGenericType(KindStructure)
	case 'W':
		return d.demangleWitness()
	case 'X':
		return d.demangleSpecialType()
	case 'Z':
		return d.createWithChild(KindStatic, d.popNodeIf(isEntity))
	case 'a':
		return d.demangleAnyGenericType(KindTypeAlias)
	case 'c':
		return d.popFunctionType(KindFunctionType)
	case 'd':
		return d.createNode(KindVariadicMarker)
	case 'f':
		return d.demangleFunctionEntity()
	case 'h':
		return d.createType(d.createWithChild(KindShared, d.popTypeAndGetChild()))
	case 'i':
		return d.demangleAccessor(d.demangleSubscript())
	case 'l':
		return d.demangleGenericSignature(false)
	case 'm':
		return d.createType(d.createWithChild(KindMetatype, d.popNodeKind(KindType)))
	case 'o':
		return d.demangleOperatorIdentifier()
	case 'p':
		return d.createType(d.demangleProtocolList())
	case 'q':
		return d.createType(d.demangleGenericParamIndex())
	case 'r':
		return d.demangleGenericSignature(true)
	case 's':
		return d.createNodeWithText(KindModule, stdlibName)
	case 't':
		return d.popTuple()
	case 'u':
		return d.demangleGenericType()
	case 'v':
		return d.demangleAccessor(d.demangleEntity(KindVariable))
	case 'w':
		return d.demangleValueWitness()
	case 'x':
		return d.createType(d.getDependentGenericParamType(0, 0))
	case 'y':
		return d.createNode(KindEmptyList)
	case 'z':
		return d.createType(d.createWithChild(KindInOut, d.popTypeAndGetChild()))
	case '_':
		return d.createNode(KindFirstElementMarker)
	case '.':
		d.pushBack()
		rest := d.text[d.pos:]
		d.pos = len(d.text)
		return d.createNodeWithText(KindSuffix, rest)
	}
	d.pushBack()
	return d.demangleIdentifier()
}

// demangleSymbolicReference reads the 4-byte little-endian offset following a
// control byte and asks the resolver for the referenced type.
func (d *Demangler) demangleSymbolicReference(control byte) *Node {
	refIndex := d.pos
	if d.pos+4 > len(d.text) {
		return nil
	}
	var raw [4]byte
	copy(raw[:], d.text[d.pos:d.pos+4])
	offset := int32(binary.LittleEndian.Uint32(raw[:]))
	d.pos += 4
	if d.resolver == nil {
		return d.fail(fmt.Errorf("%w: control %#02x at position %d: no resolver", ErrUnresolvedSymbolicRef, control, refIndex-1))
	}
	n, err := d.resolver.ResolveType(d.f, control, offset, refIndex)
	if err != nil {
		return d.fail(fmt.Errorf("%w: control %#02x at position %d: %v", ErrUnresolvedSymbolicRef, control, refIndex-1, err))
	}
	if n == nil {
		return d.fail(fmt.Errorf("%w: control %#02x at position %d", ErrUnresolvedSymbolicRef, control, refIndex-1))
	}
	d.addSubstitution(n)
	return n
}

func (d *Demangler) demangleMultiSubstitutions() *Node {
	repeatCount := -1
	for {
		c := d.nextChar()
		switch {
		case c == 0:
			return nil
		case isLowerLetter(c):
			n := d.pushMultiSubstitutions(repeatCount, int(c-'a'))
			if n == nil {
				return nil
			}
			d.pushNode(n)
			repeatCount = -1
			continue
		case isUpperLetter(c):
			return d.pushMultiSubstitutions(repeatCount, int(c-'A'))
		case c == '_':
			return d.substitution(repeatCount + 27)
		}
		d.pushBack()
		repeatCount = d.demangleNatural()
		if repeatCount < 0 {
			return nil
		}
	}
}

func (d *Demangler) pushMultiSubstitutions(repeatCount, index int) *Node {
	if repeatCount > maxRepeatCount {
		return nil
	}
	n := d.substitution(index)
	if n == nil {
		if debugEnabled {
			debugf("substitution %d out of range (have %d)\n", index, len(d.substitutions))
		}
		return nil
	}
	for ; repeatCount > 1; repeatCount-- {
		d.pushNode(n)
	}
	return n
}

// Pop helpers.

func (d *Demangler) popModule() *Node {
	if ident := d.popNodeKind(KindIdentifier); ident != nil {
		return d.changeKind(ident, KindModule)
	}
	return d.popNodeKind(KindModule)
}

func (d *Demangler) popContext() *Node {
	if mod := d.popModule(); mod != nil {
		return mod
	}
	if ty := d.popNodeKind(KindType); ty != nil {
		if ty.NumChildren() != 1 {
			return nil
		}
		child := ty.FirstChild()
		if !isContext(child.kind) {
			return nil
		}
		return child
	}
	return d.popNodeIf(isContext)
}

func (d *Demangler) popTypeAndGetChild() *Node {
	ty := d.popNodeKind(KindType)
	if ty == nil || ty.NumChildren() != 1 {
		return nil
	}
	return ty.FirstChild()
}

func (d *Demangler) popTypeAndGetNominal() *Node {
	child := d.popTypeAndGetChild()
	if child != nil && isNominal(child.kind) {
		return child
	}
	return nil
}

func isProtocolType(n *Node) bool {
	return n != nil && n.kind == KindType && n.NumChildren() > 0 && n.FirstChild().kind == KindProtocol
}

func (d *Demangler) popProtocol() *Node {
	if ty := d.popNodeKind(KindType); ty != nil {
		if !isProtocolType(ty) {
			return nil
		}
		return ty
	}
	name := d.popNodeIf(isDeclName)
	ctx := d.popContext()
	return d.createType(d.createWithChildren(KindProtocol, ctx, name))
}

func (d *Demangler) popProtocolConformance() *Node {
	genSig := d.popNodeKind(KindDependentGenericSignature)
	module := d.popModule()
	proto := d.popProtocol()
	ty := d.popNodeKind(KindType)
	var ident *Node
	if ty == nil {
		// Property behavior conformance.
		ident = d.popNodeKind(KindIdentifier)
		ty = d.popNodeKind(KindType)
	}
	if genSig != nil {
		ty = d.createType(d.createWithChildren(KindDependentGenericType, genSig, ty))
	}
	conf := d.createWithChildren(KindProtocolConformance, ty, proto, module)
	d.addChild(conf, ident)
	return conf
}

// Contexts and entities.

func (d *Demangler) demangleAnyGenericType(kind NodeKind) *Node {
	name := d.popNodeIf(isDeclName)
	ctx := d.popContext()
	ty := d.createType(d.createWithChildren(kind, ctx, name))
	d.addSubstitution(ty)
	return ty
}

func (d *Demangler) demangleExtensionContext() *Node {
	genSig := d.popNodeKind(KindDependentGenericSignature)
	module := d.popModule()
	nominal := d.popTypeAndGetNominal()
	ext := d.createWithChildren(KindExtension, module, nominal)
	if genSig != nil {
		ext = d.addChild(ext, genSig)
	}
	return ext
}

func (d *Demangler) demanglePlainFunction() *Node {
	genSig := d.popNodeKind(KindDependentGenericSignature)
	ty := d.popFunctionType(KindFunctionType)
	if genSig != nil {
		ty = d.createType(d.createWithChildren(KindDependentGenericType, genSig, ty))
	}
	name := d.popNodeIf(isDeclName)
	ctx := d.popContext()
	return d.createWithChildren(KindFunction, ctx, name, ty)
}

func (d *Demangler) demangleEntity(kind NodeKind) *Node {
	ty := d.popNodeKind(KindType)
	name := d.popNodeIf(isDeclName)
	ctx := d.popContext()
	return d.createWithChildren(kind, ctx, name, ty)
}

func (d *Demangler) demangleSubscript() *Node {
	ty := d.popNodeKind(KindType)
	ctx := d.popContext()
	return d.createWithChildren(KindSubscript, ctx, ty)
}

func (d *Demangler) demangleAccessor(child *Node) *Node {
	if child == nil {
		return nil
	}
	var kind NodeKind
	switch d.nextChar() {
	case 'm':
		kind = KindMaterializeForSet
	case 's':
		kind = KindSetter
	case 'g':
		kind = KindGetter
	case 'G':
		kind = KindGlobalGetter
	case 'w':
		kind = KindWillSet
	case 'W':
		kind = KindDidSet
	case 'r':
		kind = KindReadAccessor
	case 'M':
		kind = KindModifyAccessor
	case 'a':
		switch d.nextChar() {
		case 'O':
			kind = KindOwningMutableAddressor
		case 'o':
			kind = KindNativeOwningMutableAddressor
		case 'p':
			kind = KindNativePinningMutableAddressor
		case 'u':
			kind = KindUnsafeMutableAddressor
		default:
			return nil
		}
	case 'l':
		switch d.nextChar() {
		case 'O':
			kind = KindOwningAddressor
		case 'o':
			kind = KindNativeOwningAddressor
		case 'p':
			kind = KindNativePinningAddressor
		case 'u':
			kind = KindUnsafeAddressor
		default:
			return nil
		}
	case 'p':
		// The variable or subscript itself.
		return child
	default:
		return nil
	}
	return d.createWithChild(kind, child)
}

type entityArgs int

const (
	argsNone entityArgs = iota
	argsTypeAndMaybePrivateName
	argsTypeAndIndex
	argsIndex
)

func (d *Demangler) demangleFunctionEntity() *Node {
	var args entityArgs
	var kind NodeKind
	switch d.nextChar() {
	case 'D':
		kind = KindDeallocator
	case 'd':
		kind = KindDestructor
	case 'E':
		kind = KindIVarDestroyer
	case 'e':
		kind = KindIVarInitializer
	case 'i':
		kind = KindInitializer
	case 'C':
		args, kind = argsTypeAndMaybePrivateName, KindAllocator
	case 'c':
		args, kind = argsTypeAndMaybePrivateName, KindConstructor
	case 'U':
		args, kind = argsTypeAndIndex, KindExplicitClosure
	case 'u':
		args, kind = argsTypeAndIndex, KindImplicitClosure
	case 'A':
		args, kind = argsIndex, KindDefaultArgumentInitializer
	case 'p':
		return d.demangleEntity(KindGenericTypeParamDecl)
	default:
		return nil
	}

	var nameOrIndex, paramType *Node
	switch args {
	case argsTypeAndMaybePrivateName:
		nameOrIndex = d.popNodeKind(KindPrivateDeclName)
		paramType = d.popNodeKind(KindType)
	case argsTypeAndIndex:
		nameOrIndex = d.demangleIndexAsNode()
		paramType = d.popNodeKind(KindType)
	case argsIndex:
		nameOrIndex = d.demangleIndexAsNode()
	}

	entity := d.createWithChild(kind, d.popContext())
	switch args {
	case argsIndex:
		entity = d.addChild(entity, nameOrIndex)
	case argsTypeAndMaybePrivateName:
		d.addChild(entity, nameOrIndex)
		entity = d.addChild(entity, paramType)
	case argsTypeAndIndex:
		entity = d.addChild(entity, nameOrIndex)
		entity = d.addChild(entity, paramType)
	}
	return entity
}

func (d *Demangler) demangleMetatype() *Node {
	switch d.nextChar() {
	case 'f':
		return d.createWithPoppedType(KindFullTypeMetadata)
	case 'P':
		return d.createWithPoppedType(KindGenericTypeMetadataPattern)
	case 'a':
		return d.createWithPoppedType(KindTypeMetadataAccessFunction)
	case 'L':
		return d.createWithPoppedType(KindTypeMetadataLazyCache)
	case 'm':
		return d.createWithPoppedType(KindMetaclass)
	case 'n':
		return d.createWithPoppedType(KindNominalTypeDescriptor)
	case 'p':
		return d.createWithChild(KindProtocolDescriptor, d.popProtocol())
	case 'B':
		return d.createWithPoppedType(KindReflectionMetadataBuiltinDescriptor)
	case 'F':
		return d.createWithPoppedType(KindReflectionMetadataFieldDescriptor)
	case 'A':
		return d.createWithChild(KindReflectionMetadataAssocTypeDescriptor, d.popProtocolConformance())
	case 'C':
		ty := d.popNodeKind(KindType)
		if ty == nil || ty.NumChildren() == 0 || !isNominal(ty.FirstChild().kind) {
			return nil
		}
		return d.createWithChild(KindReflectionMetadataSuperclassDescriptor, ty.FirstChild())
	}
	return nil
}

// demangleObjCTypeName handles the `_TtC` and `_TtP` names used for classes
// and protocols exposed to the Objective-C runtime.
func (d *Demangler) demangleObjCTypeName() *Node {
	ty := d.createNode(KindType)
	global := d.createWithChild(KindGlobal, d.createWithChild(KindTypeMangling, ty))
	var nominal *Node
	isProto := false
	switch {
	case d.nextIf('C'):
		nominal = d.createNode(KindClass)
		d.f.addChild(ty, nominal)
	case d.nextIf('P'):
		isProto = true
		nominal = d.createNode(KindProtocol)
		typeList := d.createWithChild(KindTypeList, d.createType(nominal))
		d.f.addChild(ty, d.createWithChild(KindProtocolList, typeList))
	default:
		return nil
	}

	if d.nextIf('s') {
		d.f.addChild(nominal, d.createNodeWithText(KindModule, stdlibName))
	} else {
		module := d.demangleIdentifier()
		if module == nil {
			return nil
		}
		d.f.addChild(nominal, d.changeKind(module, KindModule))
	}
	ident := d.demangleIdentifier()
	if ident == nil {
		return nil
	}
	d.f.addChild(nominal, ident)
	if isProto && !d.nextIf('_') {
		return nil
	}
	if d.pos < len(d.text) {
		return nil
	}
	return global
}

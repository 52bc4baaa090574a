package swiftdemangle

// getDependentGenericParamType builds the node for the generic parameter at
// (depth, index). Its text is the conventional name: A, B, ... Z, AB, ...
// followed by the depth when it is not zero.
func (d *Demangler) getDependentGenericParamType(depth, index int) *Node {
	if depth < 0 || index < 0 {
		return nil
	}
	tb := d.f.newTextBuilder()
	appendGenericParamName(&tb, depth, index)
	param := d.createNodeWithText(KindDependentGenericParamType, tb.String())
	d.f.addChild(param, d.createNodeWithIndex(KindIndex, uint64(depth)))
	d.f.addChild(param, d.createNodeWithIndex(KindIndex, uint64(index)))
	return param
}

func appendGenericParamName(tb *textBuilder, depth, index int) {
	for {
		tb.appendByte(byte('A' + index%26))
		index /= 26
		if index == 0 {
			break
		}
	}
	if depth != 0 {
		tb.appendInt(int64(depth))
	}
}

func (d *Demangler) demangleGenericParamIndex() *Node {
	if d.nextIf('d') {
		depth := d.demangleIndex()
		index := d.demangleIndex()
		if depth < 0 || index < 0 {
			return nil
		}
		return d.getDependentGenericParamType(depth+1, index)
	}
	if d.nextIf('z') {
		return d.getDependentGenericParamType(0, 0)
	}
	index := d.demangleIndex()
	if index < 0 {
		return nil
	}
	return d.getDependentGenericParamType(0, index+1)
}

func (d *Demangler) demangleGenericSignature(hasParamCounts bool) *Node {
	sig := d.createNode(KindDependentGenericSignature)
	if hasParamCounts {
		for !d.nextIf('l') {
			count := 0
			if !d.nextIf('z') {
				idx := d.demangleIndex()
				if idx < 0 {
					return nil
				}
				count = idx + 1
			}
			d.f.addChild(sig, d.createNodeWithIndex(KindDependentGenericParamCount, uint64(count)))
		}
	} else {
		d.f.addChild(sig, d.createNodeWithIndex(KindDependentGenericParamCount, 1))
	}
	numCounts := sig.NumChildren()
	for req := d.popNodeIf(isRequirement); req != nil; req = d.popNodeIf(isRequirement) {
		d.f.addChild(sig, req)
	}
	sig.reverseChildren(numCounts)
	return sig
}

type requirementType int

const (
	reqGeneric requirementType = iota
	reqAssoc
	reqCompoundAssoc
	reqSubstitution
)

type constraintKind int

const (
	constraintProtocol constraintKind = iota
	constraintBaseClass
	constraintSameType
	constraintLayout
)

func (d *Demangler) demangleGenericRequirement() *Node {
	var typ requirementType
	var constraint constraintKind
	switch d.nextChar() {
	case 'c':
		constraint, typ = constraintBaseClass, reqAssoc
	case 'C':
		constraint, typ = constraintBaseClass, reqCompoundAssoc
	case 'b':
		constraint, typ = constraintBaseClass, reqGeneric
	case 'B':
		constraint, typ = constraintBaseClass, reqSubstitution
	case 't':
		constraint, typ = constraintSameType, reqAssoc
	case 'T':
		constraint, typ = constraintSameType, reqCompoundAssoc
	case 's':
		constraint, typ = constraintSameType, reqGeneric
	case 'S':
		constraint, typ = constraintSameType, reqSubstitution
	case 'm':
		constraint, typ = constraintLayout, reqAssoc
	case 'M':
		constraint, typ = constraintLayout, reqCompoundAssoc
	case 'l':
		constraint, typ = constraintLayout, reqGeneric
	case 'L':
		constraint, typ = constraintLayout, reqSubstitution
	case 'p':
		constraint, typ = constraintProtocol, reqAssoc
	case 'P':
		constraint, typ = constraintProtocol, reqCompoundAssoc
	case 'Q':
		constraint, typ = constraintProtocol, reqSubstitution
	default:
		constraint, typ = constraintProtocol, reqGeneric
		d.pushBack()
	}

	var constrained *Node
	switch typ {
	case reqGeneric:
		constrained = d.createType(d.demangleGenericParamIndex())
	case reqAssoc:
		constrained = d.demangleAssociatedTypeSimple(d.demangleGenericParamIndex())
		d.addSubstitution(constrained)
	case reqCompoundAssoc:
		constrained = d.demangleAssociatedTypeCompound(d.demangleGenericParamIndex())
		d.addSubstitution(constrained)
	case reqSubstitution:
		constrained = d.popNodeKind(KindType)
	}

	switch constraint {
	case constraintProtocol:
		return d.createWithChildren(KindDependentGenericConformanceRequirement, constrained, d.popProtocol())
	case constraintBaseClass:
		return d.createWithChildren(KindDependentGenericConformanceRequirement, constrained, d.popNodeKind(KindType))
	case constraintSameType:
		return d.createWithChildren(KindDependentGenericSameTypeRequirement, constrained, d.popNodeKind(KindType))
	}
	return d.demangleLayoutRequirement(constrained)
}

func (d *Demangler) demangleLayoutRequirement(constrained *Node) *Node {
	var size, alignment *Node
	var name string
	switch c := d.nextChar(); c {
	case 'U', 'R', 'N', 'C', 'D', 'T':
		name = string(c)
	case 'E', 'M':
		if size = d.demangleIndexAsNode(); size == nil {
			return nil
		}
		if alignment = d.demangleIndexAsNode(); alignment == nil {
			return nil
		}
		name = string(c)
	case 'e', 'm':
		if size = d.demangleIndexAsNode(); size == nil {
			return nil
		}
		name = string(c)
	default:
		return nil
	}
	req := d.createWithChildren(KindDependentGenericLayoutRequirement, constrained,
		d.createNodeWithText(KindIdentifier, name))
	if size != nil {
		d.addChild(req, size)
	}
	if alignment != nil {
		d.addChild(req, alignment)
	}
	return req
}

func (d *Demangler) demangleArchetype() *Node {
	switch d.nextChar() {
	case 'a':
		ident := d.popNodeKind(KindIdentifier)
		archetype := d.popTypeAndGetChild()
		assoc := d.createType(d.createWithChildren(KindAssociatedTypeRef, archetype, ident))
		d.addSubstitution(assoc)
		return assoc
	case 'q':
		idx := d.demangleIndexAsNode()
		ctx := d.popContext()
		declCtx := d.createWithChild(KindDeclContext, ctx)
		return d.createType(d.createWithChildren(KindQualifiedArchetype, idx, declCtx))
	case 'y':
		t := d.demangleAssociatedTypeSimple(d.demangleGenericParamIndex())
		d.addSubstitution(t)
		return t
	case 'z':
		t := d.demangleAssociatedTypeSimple(d.getDependentGenericParamType(0, 0))
		d.addSubstitution(t)
		return t
	case 'Y':
		t := d.demangleAssociatedTypeCompound(d.demangleGenericParamIndex())
		d.addSubstitution(t)
		return t
	case 'Z':
		t := d.demangleAssociatedTypeCompound(d.getDependentGenericParamType(0, 0))
		d.addSubstitution(t)
		return t
	}
	return nil
}

func (d *Demangler) demangleAssociatedTypeSimple(param *Node) *Node {
	base := d.createType(param)
	name := d.popAssocTypeName()
	return d.createType(d.createWithChildren(KindDependentMemberType, base, name))
}

func (d *Demangler) demangleAssociatedTypeCompound(param *Node) *Node {
	var names []*Node
	for {
		firstElem := d.popNodeKind(KindFirstElementMarker) != nil
		name := d.popAssocTypeName()
		if name == nil {
			return nil
		}
		names = append(names, name)
		if firstElem {
			break
		}
	}
	base := param
	for i := len(names) - 1; i >= 0; i-- {
		member := d.createNode(KindDependentMemberType)
		member = d.addChild(member, d.createType(base))
		base = d.addChild(member, names[i])
	}
	return d.createType(base)
}

func (d *Demangler) popAssocTypeName() *Node {
	proto := d.popNodeKind(KindType)
	if proto != nil && !isProtocolType(proto) {
		return nil
	}
	ident := d.popNodeKind(KindIdentifier)
	assoc := d.changeKind(ident, KindDependentAssociatedTypeRef)
	d.addChild(assoc, proto)
	return assoc
}

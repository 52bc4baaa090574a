package swiftdemangle

func (d *Demangler) popFunctionType(kind NodeKind) *Node {
	fn := d.createNode(kind)
	d.addChild(fn, d.popNodeKind(KindThrowsAnnotation))
	fn = d.addChild(fn, d.popFunctionParams(KindArgumentTuple))
	fn = d.addChild(fn, d.popFunctionParams(KindReturnType))
	return d.createType(fn)
}

func (d *Demangler) popFunctionParams(kind NodeKind) *Node {
	var params *Node
	if d.popNodeKind(KindEmptyList) != nil {
		params = d.createType(d.createNode(KindTuple))
	} else {
		params = d.popNodeKind(KindType)
	}
	return d.createWithChild(kind, params)
}

func (d *Demangler) popTuple() *Node {
	root := d.createNode(KindTuple)
	if d.popNodeKind(KindEmptyList) == nil {
		for {
			firstElem := d.popNodeKind(KindFirstElementMarker) != nil
			elem := d.createNode(KindTupleElement)
			d.addChild(elem, d.popNodeKind(KindVariadicMarker))
			if ident := d.popNodeKind(KindIdentifier); ident != nil {
				d.f.addChild(elem, d.f.CreateNodeWithAllocatedText(KindTupleElementName, ident.Text()))
			}
			ty := d.popNodeKind(KindType)
			if ty == nil {
				return nil
			}
			d.f.addChild(elem, ty)
			d.f.addChild(root, elem)
			if firstElem {
				break
			}
		}
		root.reverseChildren(0)
	}
	return d.createType(root)
}

func (d *Demangler) popTypeList() *Node {
	root := d.createNode(KindTypeList)
	if d.popNodeKind(KindEmptyList) == nil {
		for {
			firstElem := d.popNodeKind(KindFirstElementMarker) != nil
			ty := d.popNodeKind(KindType)
			if ty == nil {
				return nil
			}
			d.f.addChild(root, ty)
			if firstElem {
				break
			}
		}
		root.reverseChildren(0)
	}
	return root
}

func (d *Demangler) demangleBoundGenericType() *Node {
	var typeLists []*Node
	for {
		list := d.createNode(KindTypeList)
		typeLists = append(typeLists, list)
		for ty := d.popNodeKind(KindType); ty != nil; ty = d.popNodeKind(KindType) {
			d.f.addChild(list, ty)
		}
		list.reverseChildren(0)
		if d.popNodeKind(KindEmptyList) != nil {
			break
		}
		if d.popNodeKind(KindFirstElementMarker) == nil {
			return nil
		}
	}
	nominal := d.popTypeAndGetNominal()
	bound := d.createType(d.demangleBoundGenericArgs(nominal, typeLists, 0))
	d.addSubstitution(bound)
	return bound
}

// demangleBoundGenericArgs applies typeLists[idx:] to nominal and its parents.
// Arguments of the outermost type come last in typeLists.
func (d *Demangler) demangleBoundGenericArgs(nominal *Node, typeLists []*Node, idx int) *Node {
	if nominal == nil || nominal.NumChildren() < 2 || idx >= len(typeLists) {
		return nil
	}
	if !d.enter() {
		return nil
	}
	defer d.leave()

	args := typeLists[idx]
	idx++
	ctx := nominal.FirstChild()
	if idx < len(typeLists) {
		var parent *Node
		if ctx.kind == KindExtension {
			parent = d.demangleBoundGenericArgs(ctx.Child(1), typeLists, idx)
			parent = d.createWithChildren(KindExtension, ctx.FirstChild(), parent)
			if ctx.NumChildren() == 3 {
				d.addChild(parent, ctx.Child(2))
			}
		} else {
			parent = d.demangleBoundGenericArgs(ctx, typeLists, idx)
		}
		nominal = d.createWithChildren(nominal.kind, parent, nominal.Child(1))
		if nominal == nil {
			return nil
		}
	}
	if args.NumChildren() == 0 {
		return nominal
	}
	var kind NodeKind
	switch nominal.kind {
	case KindClass:
		kind = KindBoundGenericClass
	case KindStructure:
		kind = KindBoundGenericStructure
	case KindEnum:
		kind = KindBoundGenericEnum
	default:
		return nil
	}
	return d.createWithChildren(kind, d.createType(nominal), args)
}

func (d *Demangler) demangleProtocolList() *Node {
	typeList := d.createNode(KindTypeList)
	protoList := d.createWithChild(KindProtocolList, typeList)
	if d.popNodeKind(KindEmptyList) == nil {
		for {
			firstElem := d.popNodeKind(KindFirstElementMarker) != nil
			proto := d.popProtocol()
			if proto == nil {
				return nil
			}
			d.f.addChild(typeList, proto)
			if firstElem {
				break
			}
		}
		typeList.reverseChildren(0)
	}
	return protoList
}

func (d *Demangler) demangleGenericType() *Node {
	genSig := d.popNodeKind(KindDependentGenericSignature)
	ty := d.popNodeKind(KindType)
	return d.createType(d.createWithChildren(KindDependentGenericType, genSig, ty))
}

func (d *Demangler) demangleMetatypeRepresentation() *Node {
	switch d.nextChar() {
	case 't':
		return d.createNodeWithText(KindMetatypeRepresentation, "@thin")
	case 'T':
		return d.createNodeWithText(KindMetatypeRepresentation, "@thick")
	case 'o':
		return d.createNodeWithText(KindMetatypeRepresentation, "@objc_metatype")
	}
	return nil
}

func (d *Demangler) demangleSpecialType() *Node {
	special := d.nextChar()
	switch special {
	case 'f':
		return d.popFunctionType(KindThinFunctionType)
	case 'K':
		return d.popFunctionType(KindAutoClosureType)
	case 'U':
		return d.popFunctionType(KindUncurriedFunctionType)
	case 'B':
		return d.popFunctionType(KindObjCBlock)
	case 'C':
		return d.popFunctionType(KindCFunctionPointer)
	case 'o':
		return d.createType(d.createWithChild(KindUnowned, d.popNodeKind(KindType)))
	case 'u':
		return d.createType(d.createWithChild(KindUnmanaged, d.popNodeKind(KindType)))
	case 'w':
		return d.createType(d.createWithChild(KindWeak, d.popNodeKind(KindType)))
	case 'b':
		return d.createType(d.createWithChild(KindSILBoxType, d.popNodeKind(KindType)))
	case 'D':
		return d.createType(d.createWithChild(KindDynamicSelf, d.popNodeKind(KindType)))
	case 'M':
		repr := d.demangleMetatypeRepresentation()
		ty := d.popNodeKind(KindType)
		return d.createType(d.createWithChildren(KindMetatype, repr, ty))
	case 'm':
		repr := d.demangleMetatypeRepresentation()
		ty := d.popNodeKind(KindType)
		return d.createType(d.createWithChildren(KindExistentialMetatype, repr, ty))
	case 'p':
		return d.createType(d.createWithChild(KindExistentialMetatype, d.popNodeKind(KindType)))
	case 'c':
		superclass := d.popNodeKind(KindType)
		protocols := d.demangleProtocolList()
		return d.createType(d.createWithChildren(KindProtocolListWithClass, protocols, superclass))
	case 'l':
		return d.createType(d.createWithChild(KindProtocolListWithAnyObject, d.demangleProtocolList()))
	case 'X', 'x':
		return d.demangleSILBoxTypeWithLayout(special == 'X')
	case 'e':
		return d.createType(d.createNode(KindErrorType))
	}
	return nil
}

func (d *Demangler) demangleSILBoxTypeWithLayout(generic bool) *Node {
	var signature, genericArgs *Node
	if generic {
		if signature = d.popNodeKind(KindDependentGenericSignature); signature == nil {
			return nil
		}
		if genericArgs = d.popTypeList(); genericArgs == nil {
			return nil
		}
	}
	fieldTypes := d.popTypeList()
	if fieldTypes == nil {
		return nil
	}
	layout := d.createNode(KindSILBoxLayout)
	for _, fieldType := range fieldTypes.children {
		if fieldType.NumChildren() == 0 {
			return nil
		}
		kind := KindSILBoxImmutableField
		// Mutable fields are mangled as inout types.
		if inner := fieldType.FirstChild(); inner.kind == KindInOut {
			if inner.NumChildren() == 0 {
				return nil
			}
			kind = KindSILBoxMutableField
			fieldType = d.createType(inner.FirstChild())
		}
		d.f.addChild(layout, d.createWithChild(kind, fieldType))
	}
	box := d.createWithChild(KindSILBoxTypeWithLayout, layout)
	if signature != nil {
		d.f.addChild(box, signature)
		d.f.addChild(box, genericArgs)
	}
	return d.createType(box)
}

func (d *Demangler) demangleImplFunctionType() *Node {
	fn := d.createNode(KindImplFunctionType)
	genSig := d.popNodeKind(KindDependentGenericSignature)
	if genSig != nil && d.nextIf('P') {
		genSig = d.changeKind(genSig, KindDependentPseudogenericSignature)
	}
	if d.nextIf('e') {
		d.f.addChild(fn, d.createNode(KindImplEscaping))
	}

	var callee string
	switch d.nextChar() {
	case 'y':
		callee = "@callee_unowned"
	case 'g':
		callee = "@callee_guaranteed"
	case 'x':
		callee = "@callee_owned"
	case 't':
		callee = "@convention(thin)"
	default:
		return nil
	}
	d.f.addChild(fn, d.createNodeWithText(KindImplConvention, callee))

	var attr string
	switch d.nextChar() {
	case 'B':
		attr = "@convention(block)"
	case 'C':
		attr = "@convention(c)"
	case 'M':
		attr = "@convention(method)"
	case 'O':
		attr = "@convention(objc_method)"
	case 'K':
		attr = "@convention(closure)"
	case 'W':
		attr = "@convention(witness_method)"
	default:
		d.pushBack()
	}
	if attr != "" {
		d.f.addChild(fn, d.createNodeWithText(KindImplFunctionAttribute, attr))
	}
	d.addChild(fn, genSig)

	numTypes := 0
	for param := d.demangleImplParamConvention(); param != nil; param = d.demangleImplParamConvention() {
		d.f.addChild(fn, param)
		numTypes++
	}
	for result := d.demangleImplResultConvention(KindImplResult); result != nil; result = d.demangleImplResultConvention(KindImplResult) {
		d.f.addChild(fn, result)
		numTypes++
	}
	if d.nextIf('z') {
		errResult := d.demangleImplResultConvention(KindImplErrorResult)
		if errResult == nil {
			return nil
		}
		d.f.addChild(fn, errResult)
		numTypes++
	}
	if !d.nextIf('_') {
		return nil
	}
	for i := 0; i < numTypes; i++ {
		ty := d.popNodeKind(KindType)
		if ty == nil {
			return nil
		}
		d.f.addChild(fn.Child(fn.NumChildren()-i-1), ty)
	}
	return d.createType(fn)
}

func (d *Demangler) demangleImplParamConvention() *Node {
	var attr string
	switch d.nextChar() {
	case 'i':
		attr = "@in"
	case 'c':
		attr = "@in_constant"
	case 'l':
		attr = "@inout"
	case 'b':
		attr = "@inout_aliasable"
	case 'n':
		attr = "@in_guaranteed"
	case 'x':
		attr = "@owned"
	case 'g':
		attr = "@guaranteed"
	case 'e':
		attr = "@deallocating"
	case 'y':
		attr = "@unowned"
	default:
		d.pushBack()
		return nil
	}
	return d.createWithChild(KindImplParameter, d.createNodeWithText(KindImplConvention, attr))
}

func (d *Demangler) demangleImplResultConvention(kind NodeKind) *Node {
	var attr string
	switch d.nextChar() {
	case 'r':
		attr = "@out"
	case 'o':
		attr = "@owned"
	case 'd':
		attr = "@unowned"
	case 'u':
		attr = "@unowned_inner_pointer"
	case 'a':
		attr = "@autoreleased"
	default:
		d.pushBack()
		return nil
	}
	return d.createWithChild(kind, d.createNodeWithText(KindImplConvention, attr))
}

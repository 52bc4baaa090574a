package swiftdemangle

// FunctionSigSpecializationParamKind is the index payload of a
// FunctionSignatureSpecializationParamKind node. The low values are exclusive
// kinds; the high values are flags that may be combined.
type FunctionSigSpecializationParamKind uint64

const (
	ParamConstantPropFunction FunctionSigSpecializationParamKind = 0
	ParamConstantPropGlobal   FunctionSigSpecializationParamKind = 1
	ParamConstantPropInteger  FunctionSigSpecializationParamKind = 2
	ParamConstantPropFloat    FunctionSigSpecializationParamKind = 3
	ParamConstantPropString   FunctionSigSpecializationParamKind = 4
	ParamClosureProp          FunctionSigSpecializationParamKind = 5
	ParamBoxToValue           FunctionSigSpecializationParamKind = 6
	ParamBoxToStack           FunctionSigSpecializationParamKind = 7

	ParamDead              FunctionSigSpecializationParamKind = 1 << 6
	ParamOwnedToGuaranteed FunctionSigSpecializationParamKind = 1 << 7
	ParamSROA              FunctionSigSpecializationParamKind = 1 << 8
)

// returnParamIndex marks the specialization entry that describes the result.
const returnParamIndex = uint64(^uint32(0))

func (d *Demangler) demangleThunkOrSpecialization() *Node {
	c := d.nextChar()
	switch c {
	case 'c':
		return d.createWithChild(KindCurryThunk, d.popNodeIf(isEntity))
	case 'o':
		return d.createNode(KindObjCAttribute)
	case 'O':
		return d.createNode(KindNonObjCAttribute)
	case 'D':
		return d.createNode(KindDynamicAttribute)
	case 'd':
		return d.createNode(KindDirectMethodReferenceAttribute)
	case 'a':
		return d.createNode(KindPartialApplyObjCForwarder)
	case 'A':
		return d.createNode(KindPartialApplyForwarder)
	case 'm':
		return d.createNode(KindMergedFunction)
	case 'V':
		base := d.popNodeIf(isEntity)
		derived := d.popNodeIf(isEntity)
		return d.createWithChildren(KindVTableThunk, derived, base)
	case 'W':
		entity := d.popNodeIf(isEntity)
		conf := d.popProtocolConformance()
		return d.createWithChildren(KindProtocolWitness, conf, entity)
	case 'R', 'r':
		kind := KindReabstractionThunk
		if c == 'R' {
			kind = KindReabstractionThunkHelper
		}
		thunk := d.createNode(kind)
		if genSig := d.popNodeKind(KindDependentGenericSignature); genSig != nil {
			d.f.addChild(thunk, genSig)
		}
		to := d.popNodeKind(KindType)
		thunk = d.addChild(thunk, d.popNodeKind(KindType))
		return d.addChild(thunk, to)
	case 'g':
		return d.demangleGenericSpecialization(KindGenericSpecialization)
	case 'G':
		return d.demangleGenericSpecialization(KindGenericSpecializationNotReAbstracted)
	case 'p':
		spec := d.demangleSpecAttributes(KindGenericPartialSpecialization, false)
		param := d.createWithChild(KindGenericSpecializationParam, d.popNodeKind(KindType))
		return d.addChild(spec, param)
	case 'P':
		spec := d.demangleSpecAttributes(KindGenericPartialSpecializationNotReAbstracted, false)
		param := d.createWithChild(KindGenericSpecializationParam, d.popNodeKind(KindType))
		return d.addChild(spec, param)
	case 'f':
		return d.demangleFunctionSpecialization()
	case 'K', 'k':
		kind := KindKeyPathSetterThunkHelper
		if c == 'K' {
			kind = KindKeyPathGetterThunkHelper
		}
		ty := d.popNode()
		sigOrDecl := d.popNode()
		if sigOrDecl != nil && sigOrDecl.kind == KindDependentGenericSignature {
			decl := d.popNode()
			return d.createWithChildren(kind, decl, sigOrDecl, ty)
		}
		return d.createWithChildren(kind, sigOrDecl, ty)
	case 'H', 'h':
		kind := KindKeyPathHashThunkHelper
		if c == 'H' {
			kind = KindKeyPathEqualsThunkHelper
		}
		return d.demangleKeyPathEqualityThunk(kind)
	}
	return nil
}

func (d *Demangler) demangleKeyPathEqualityThunk(kind NodeKind) *Node {
	var genSig *Node
	var types []*Node
	first := d.popNode()
	switch {
	case first == nil:
		return nil
	case first.kind == KindDependentGenericSignature:
		genSig = first
	case first.kind == KindType:
		types = append(types, first)
	default:
		return nil
	}
	for n := d.popNode(); n != nil; n = d.popNode() {
		if n.kind != KindType {
			return nil
		}
		types = append(types, n)
	}
	result := d.createNode(kind)
	for i := len(types) - 1; i >= 0; i-- {
		d.f.addChild(result, types[i])
	}
	if genSig != nil {
		d.f.addChild(result, genSig)
	}
	return result
}

// demangleSpecAttributes reads `[q]<pass>`. With uniqueID set, an optional
// natural number after the pass becomes the spec node's index.
func (d *Demangler) demangleSpecAttributes(kind NodeKind, uniqueID bool) *Node {
	isFragile := d.nextIf('q')
	passID := int(d.nextChar()) - '0'
	if passID < 0 || passID > 9 {
		return nil
	}
	id := -1
	if uniqueID {
		id = d.demangleNatural()
	}
	var spec *Node
	if id >= 0 {
		spec = d.createNodeWithIndex(kind, uint64(id))
	} else {
		spec = d.createNode(kind)
	}
	if isFragile {
		d.f.addChild(spec, d.createNode(KindSpecializationIsFragile))
	}
	d.f.addChild(spec, d.createNodeWithIndex(KindSpecializationPassID, uint64(passID)))
	return spec
}

func (d *Demangler) demangleGenericSpecialization(kind NodeKind) *Node {
	spec := d.demangleSpecAttributes(kind, false)
	if spec == nil {
		return nil
	}
	list := d.popTypeList()
	if list == nil {
		return nil
	}
	for _, ty := range list.children {
		d.f.addChild(spec, d.createWithChild(KindGenericSpecializationParam, ty))
	}
	return spec
}

func (d *Demangler) demangleFunctionSpecialization() *Node {
	spec := d.demangleSpecAttributes(KindFunctionSignatureSpecialization, true)
	paramIdx := uint64(0)
	for spec != nil && !d.nextIf('_') {
		spec = d.addChild(spec, d.demangleFuncSpecParam(paramIdx))
		paramIdx++
	}
	if !d.nextIf('n') {
		spec = d.addChild(spec, d.demangleFuncSpecParam(returnParamIndex))
	}
	if spec == nil {
		return nil
	}

	// Constant and closure payloads were pushed as separate nodes; attach them
	// to their parameters, last parameter first.
	for i := spec.NumChildren() - 1; i >= 0; i-- {
		param := spec.Child(i)
		if param.kind != KindFunctionSignatureSpecializationParam || param.NumChildren() == 0 {
			continue
		}
		kindNode := param.FirstChild()
		paramKind := FunctionSigSpecializationParamKind(kindNode.Index())
		switch paramKind {
		case ParamConstantPropFunction, ParamConstantPropGlobal, ParamConstantPropString, ParamClosureProp:
			fixed := param.NumChildren()
			for ty := d.popNodeKind(KindType); ty != nil; ty = d.popNodeKind(KindType) {
				if paramKind != ParamClosureProp {
					return nil
				}
				d.f.addChild(param, ty)
			}
			name := d.popNodeKind(KindIdentifier)
			if name == nil {
				return nil
			}
			text := name.Text()
			if paramKind == ParamConstantPropString && len(text) > 0 && text[0] == '_' {
				// A '_' escapes a leading digit or underscore.
				text = text[1:]
			}
			d.f.addChild(param, d.f.CreateNodeWithAllocatedText(KindFunctionSignatureSpecializationParamPayload, text))
			param.reverseChildren(fixed)
		}
	}
	return spec
}

func (d *Demangler) funcSpecParamKind(kind FunctionSigSpecializationParamKind) *Node {
	return d.createNodeWithIndex(KindFunctionSignatureSpecializationParamKind, uint64(kind))
}

func (d *Demangler) demangleFuncSpecParam(paramIdx uint64) *Node {
	param := d.createNodeWithIndex(KindFunctionSignatureSpecializationParam, paramIdx)
	switch d.nextChar() {
	case 'n':
		return param
	case 'c':
		// The closure name and captured types are attached later.
		return d.addChild(param, d.funcSpecParamKind(ParamClosureProp))
	case 'p':
		switch d.nextChar() {
		case 'f':
			return d.addChild(param, d.funcSpecParamKind(ParamConstantPropFunction))
		case 'g':
			return d.addChild(param, d.funcSpecParamKind(ParamConstantPropGlobal))
		case 'i':
			return d.addFuncSpecParamNumber(param, ParamConstantPropInteger)
		case 'd':
			return d.addFuncSpecParamNumber(param, ParamConstantPropFloat)
		case 's':
			var encoding string
			switch d.nextChar() {
			case 'b':
				encoding = "u8"
			case 'w':
				encoding = "u16"
			case 'c':
				encoding = "objc"
			default:
				return nil
			}
			d.addChild(param, d.funcSpecParamKind(ParamConstantPropString))
			return d.addChild(param, d.createNodeWithText(KindFunctionSignatureSpecializationParamPayload, encoding))
		}
		return nil
	case 'd':
		value := ParamDead
		if d.nextIf('G') {
			value |= ParamOwnedToGuaranteed
		}
		if d.nextIf('X') {
			value |= ParamSROA
		}
		return d.addChild(param, d.funcSpecParamKind(value))
	case 'g':
		value := ParamOwnedToGuaranteed
		if d.nextIf('X') {
			value |= ParamSROA
		}
		return d.addChild(param, d.funcSpecParamKind(value))
	case 'x':
		return d.addChild(param, d.funcSpecParamKind(ParamSROA))
	case 'i':
		return d.addChild(param, d.funcSpecParamKind(ParamBoxToValue))
	case 's':
		return d.addChild(param, d.funcSpecParamKind(ParamBoxToStack))
	}
	return nil
}

func (d *Demangler) addFuncSpecParamNumber(param *Node, kind FunctionSigSpecializationParamKind) *Node {
	d.f.addChild(param, d.funcSpecParamKind(kind))
	start := d.pos
	for isDigit(d.peekChar()) {
		d.pos++
	}
	if d.pos == start {
		return nil
	}
	return d.addChild(param, d.createNodeWithText(KindFunctionSignatureSpecializationParamPayload, d.text[start:d.pos]))
}

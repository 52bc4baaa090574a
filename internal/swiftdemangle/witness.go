package swiftdemangle

// ValueWitnessKind is the index payload of a ValueWitness node.
type ValueWitnessKind uint64

const (
	AllocateBuffer ValueWitnessKind = iota
	AssignWithCopy
	AssignWithTake
	DeallocateBuffer
	Destroy
	DestroyBuffer
	DestroyArray
	InitializeBufferWithCopyOfBuffer
	InitializeBufferWithCopy
	InitializeWithCopy
	InitializeBufferWithTake
	InitializeWithTake
	ProjectBuffer
	InitializeBufferWithTakeOfBuffer
	InitializeArrayWithCopy
	InitializeArrayWithTakeFrontToBack
	InitializeArrayWithTakeBackToFront
	StoreExtraInhabitant
	GetExtraInhabitantIndex
	GetEnumTag
	DestructiveProjectEnumData
	DestructiveInjectEnumTag
)

var valueWitnessCodes = [...]string{
	AllocateBuffer:                     "al",
	AssignWithCopy:                     "ca",
	AssignWithTake:                     "ta",
	DeallocateBuffer:                   "de",
	Destroy:                            "xx",
	DestroyBuffer:                      "XX",
	DestroyArray:                       "Xx",
	InitializeBufferWithCopyOfBuffer:   "CP",
	InitializeBufferWithCopy:           "Cp",
	InitializeWithCopy:                 "cp",
	InitializeBufferWithTake:           "Tk",
	InitializeWithTake:                 "tk",
	ProjectBuffer:                      "pr",
	InitializeBufferWithTakeOfBuffer:   "TK",
	InitializeArrayWithCopy:            "Cc",
	InitializeArrayWithTakeFrontToBack: "Tt",
	InitializeArrayWithTakeBackToFront: "tT",
	StoreExtraInhabitant:               "xs",
	GetExtraInhabitantIndex:            "xg",
	GetEnumTag:                         "ug",
	DestructiveProjectEnumData:         "up",
	DestructiveInjectEnumTag:           "ui",
}

var valueWitnessNames = [...]string{
	AllocateBuffer:                     "allocateBuffer",
	AssignWithCopy:                     "assignWithCopy",
	AssignWithTake:                     "assignWithTake",
	DeallocateBuffer:                   "deallocateBuffer",
	Destroy:                            "destroy",
	DestroyBuffer:                      "destroyBuffer",
	DestroyArray:                       "destroyArray",
	InitializeBufferWithCopyOfBuffer:   "initializeBufferWithCopyOfBuffer",
	InitializeBufferWithCopy:           "initializeBufferWithCopy",
	InitializeWithCopy:                 "initializeWithCopy",
	InitializeBufferWithTake:           "initializeBufferWithTake",
	InitializeWithTake:                 "initializeWithTake",
	ProjectBuffer:                      "projectBuffer",
	InitializeBufferWithTakeOfBuffer:   "initializeBufferWithTakeOfBuffer",
	InitializeArrayWithCopy:            "initializeArrayWithCopy",
	InitializeArrayWithTakeFrontToBack: "initializeArrayWithTakeFrontToBack",
	InitializeArrayWithTakeBackToFront: "initializeArrayWithTakeBackToFront",
	StoreExtraInhabitant:               "storeExtraInhabitant",
	GetExtraInhabitantIndex:            "getExtraInhabitantIndex",
	GetEnumTag:                         "getEnumTag",
	DestructiveProjectEnumData:         "destructiveProjectEnumData",
	DestructiveInjectEnumTag:           "destructiveInjectEnumTag",
}

func (k ValueWitnessKind) String() string {
	if int(k) < len(valueWitnessNames) {
		return valueWitnessNames[k]
	}
	return "unknown"
}

func decodeValueWitnessKind(code string) (ValueWitnessKind, bool) {
	for i, c := range valueWitnessCodes {
		if c == code {
			return ValueWitnessKind(i), true
		}
	}
	return 0, false
}

// Directness is the index payload of a Directness node.
type Directness uint64

const (
	Direct Directness = iota
	Indirect
)

func (d Directness) String() string {
	if d == Indirect {
		return "indirect"
	}
	return "direct"
}

func (d *Demangler) demangleValueWitness() *Node {
	if d.pos+2 > len(d.text) {
		return nil
	}
	code := d.text[d.pos : d.pos+2]
	d.pos += 2
	kind, ok := decodeValueWitnessKind(code)
	if !ok {
		return nil
	}
	vw := d.createNodeWithIndex(KindValueWitness, uint64(kind))
	return d.addChild(vw, d.popNodeKind(KindType))
}

func (d *Demangler) demangleWitness() *Node {
	switch d.nextChar() {
	case 'V':
		return d.createWithChild(KindValueWitnessTable, d.popNodeKind(KindType))
	case 'v':
		var dir Directness
		switch d.nextChar() {
		case 'd':
			dir = Direct
		case 'i':
			dir = Indirect
		default:
			return nil
		}
		return d.createWithChildren(KindFieldOffset,
			d.createNodeWithIndex(KindDirectness, uint64(dir)), d.popNodeIf(isEntity))
	case 'P':
		return d.createWithChild(KindProtocolWitnessTable, d.popProtocolConformance())
	case 'G':
		return d.createWithChild(KindGenericProtocolWitnessTable, d.popProtocolConformance())
	case 'I':
		return d.createWithChild(KindGenericProtocolWitnessTableInstantiationFunction, d.popProtocolConformance())
	case 'l':
		conf := d.popProtocolConformance()
		ty := d.popNodeKind(KindType)
		return d.createWithChildren(KindLazyProtocolWitnessTableAccessor, ty, conf)
	case 'L':
		conf := d.popProtocolConformance()
		ty := d.popNodeKind(KindType)
		return d.createWithChildren(KindLazyProtocolWitnessTableCacheVariable, ty, conf)
	case 'a':
		return d.createWithChild(KindProtocolWitnessTableAccessor, d.popProtocolConformance())
	case 't':
		name := d.popNodeIf(isDeclName)
		conf := d.popProtocolConformance()
		return d.createWithChildren(KindAssociatedTypeMetadataAccessor, conf, name)
	case 'T':
		protoTy := d.popNodeKind(KindType)
		name := d.popNodeIf(isDeclName)
		conf := d.popProtocolConformance()
		return d.createWithChildren(KindAssociatedTypeWitnessTableAccessor, conf, name, protoTy)
	case 'y':
		return d.createWithChild(KindOutlinedCopy, d.popNodeKind(KindType))
	case 'e':
		return d.createWithChild(KindOutlinedConsume, d.popNodeKind(KindType))
	case 'r':
		return d.createWithChild(KindOutlinedRetain, d.popNodeKind(KindType))
	case 's':
		return d.createWithChild(KindOutlinedRelease, d.popNodeKind(KindType))
	}
	return nil
}

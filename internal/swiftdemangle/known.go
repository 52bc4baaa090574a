package swiftdemangle

const (
	stdlibName          = "Swift"
	objcModuleName      = "__ObjC"
	clangImporterModule = "__C"
)

type knownType struct {
	kind NodeKind
	name string
}

// standardTypes maps the letter following 'S' to a standard library type.
var standardTypes = [128]knownType{
	'A': {KindStructure, "AutoreleasingUnsafeMutablePointer"},
	'a': {KindStructure, "Array"},
	'b': {KindStructure, "Bool"},
	'c': {KindStructure, "UnicodeScalar"},
	'D': {KindStructure, "Dictionary"},
	'd': {KindStructure, "Double"},
	'f': {KindStructure, "Float"},
	'h': {KindStructure, "Set"},
	'I': {KindStructure, "DefaultIndices"},
	'i': {KindStructure, "Int"},
	'J': {KindStructure, "Character"},
	'N': {KindStructure, "ClosedRange"},
	'n': {KindStructure, "Range"},
	'O': {KindStructure, "ObjectIdentifier"},
	'P': {KindStructure, "UnsafePointer"},
	'p': {KindStructure, "UnsafeMutablePointer"},
	'R': {KindStructure, "UnsafeBufferPointer"},
	'r': {KindStructure, "UnsafeMutableBufferPointer"},
	'S': {KindStructure, "String"},
	's': {KindStructure, "Substring"},
	'u': {KindStructure, "UInt"},
	'V': {KindStructure, "UnsafeRawPointer"},
	'v': {KindStructure, "UnsafeMutableRawPointer"},
	'W': {KindStructure, "UnsafeRawBufferPointer"},
	'w': {KindStructure, "UnsafeMutableRawBufferPointer"},

	'q': {KindEnum, "Optional"},
	'Q': {KindEnum, "ImplicitlyUnwrappedOptional"},

	'B': {KindProtocol, "BinaryFloatingPoint"},
	'E': {KindProtocol, "Encodable"},
	'e': {KindProtocol, "Decodable"},
	'F': {KindProtocol, "FloatingPoint"},
	'G': {KindProtocol, "RandomNumberGenerator"},
	'H': {KindProtocol, "Hashable"},
	'j': {KindProtocol, "Numeric"},
	'K': {KindProtocol, "BidirectionalCollection"},
	'k': {KindProtocol, "RandomAccessCollection"},
	'L': {KindProtocol, "Comparable"},
	'l': {KindProtocol, "Collection"},
	'M': {KindProtocol, "MutableCollection"},
	'm': {KindProtocol, "RangeReplaceableCollection"},
	'T': {KindProtocol, "Sequence"},
	't': {KindProtocol, "IteratorProtocol"},
	'U': {KindProtocol, "UnsignedInteger"},
	'X': {KindProtocol, "RangeExpression"},
	'x': {KindProtocol, "Strideable"},
	'Y': {KindProtocol, "RawRepresentable"},
	'y': {KindProtocol, "StringProtocol"},
	'Z': {KindProtocol, "SignedInteger"},
	'z': {KindProtocol, "BinaryInteger"},
}

func lookupStandardType(c byte) (knownType, bool) {
	if c >= 128 {
		return knownType{}, false
	}
	kt := standardTypes[c]
	return kt, kt.name != ""
}

// createSwiftType builds Type(kind(Module "Swift", Identifier name)).
func (d *Demangler) createSwiftType(kind NodeKind, name string) *Node {
	return d.createType(d.createWithChildren(kind,
		d.createNodeWithText(KindModule, stdlibName),
		d.createNodeWithText(KindIdentifier, name)))
}

func (d *Demangler) demangleStandardSubstitution() *Node {
	switch d.nextChar() {
	case 'o':
		return d.createNodeWithText(KindModule, objcModuleName)
	case 'C':
		return d.createNodeWithText(KindModule, clangImporterModule)
	case 'g':
		optional := d.createType(d.createWithChildren(KindBoundGenericEnum,
			d.createSwiftType(KindEnum, "Optional"),
			d.createWithChild(KindTypeList, d.popNodeKind(KindType))))
		d.addSubstitution(optional)
		return optional
	}
	d.pushBack()
	repeatCount := d.demangleNatural()
	if repeatCount > maxRepeatCount {
		return nil
	}
	kt, ok := lookupStandardType(d.nextChar())
	if !ok {
		return nil
	}
	n := d.createSwiftType(kt.kind, kt.name)
	for ; repeatCount > 1; repeatCount-- {
		d.pushNode(n)
	}
	return n
}

func (d *Demangler) demangleBuiltinType() *Node {
	var ty *Node
	switch d.nextChar() {
	case 'b':
		ty = d.createNodeWithText(KindBuiltinTypeName, "Builtin.BridgeObject")
	case 'B':
		ty = d.createNodeWithText(KindBuiltinTypeName, "Builtin.UnsafeValueBuffer")
	case 'f':
		ty = d.sizedBuiltin("Builtin.Float")
	case 'i':
		ty = d.sizedBuiltin("Builtin.Int")
	case 'v':
		elts := d.demangleIndex() - 1
		if elts <= 0 {
			return nil
		}
		elt := d.popTypeAndGetChild()
		if elt == nil || elt.kind != KindBuiltinTypeName || len(elt.text) < len("Builtin.") ||
			elt.text[:len("Builtin.")] != "Builtin." {
			return nil
		}
		tb := d.f.newTextBuilder()
		tb.appendString("Builtin.Vec")
		tb.appendInt(int64(elts))
		tb.appendByte('x')
		tb.appendString(elt.text[len("Builtin."):])
		ty = d.createNodeWithText(KindBuiltinTypeName, tb.String())
	case 'O':
		ty = d.createNodeWithText(KindBuiltinTypeName, "Builtin.UnknownObject")
	case 'o':
		ty = d.createNodeWithText(KindBuiltinTypeName, "Builtin.NativeObject")
	case 'p':
		ty = d.createNodeWithText(KindBuiltinTypeName, "Builtin.RawPointer")
	case 'w':
		ty = d.createNodeWithText(KindBuiltinTypeName, "Builtin.Word")
	}
	return d.createType(ty)
}

func (d *Demangler) sizedBuiltin(prefix string) *Node {
	size := d.demangleIndex() - 1
	if size <= 0 {
		return nil
	}
	tb := d.f.newTextBuilder()
	tb.appendString(prefix)
	tb.appendInt(int64(size))
	return d.createNodeWithText(KindBuiltinTypeName, tb.String())
}

package swiftdemangle

// NodeKind identifies the semantic role of a node in the Swift demangling AST.
type NodeKind string

const (
	KindAllocator                                        NodeKind = "Allocator"
	KindArchetypeRef                                     NodeKind = "ArchetypeRef"
	KindArgumentTuple                                    NodeKind = "ArgumentTuple"
	KindAssociatedTypeMetadataAccessor                   NodeKind = "AssociatedTypeMetadataAccessor"
	KindAssociatedTypeRef                                NodeKind = "AssociatedTypeRef"
	KindAssociatedTypeWitnessTableAccessor               NodeKind = "AssociatedTypeWitnessTableAccessor"
	KindAutoClosureType                                  NodeKind = "AutoClosureType"
	KindBoundGenericClass                                NodeKind = "BoundGenericClass"
	KindBoundGenericEnum                                 NodeKind = "BoundGenericEnum"
	KindBoundGenericStructure                            NodeKind = "BoundGenericStructure"
	KindBuiltinTypeName                                  NodeKind = "BuiltinTypeName"
	KindCFunctionPointer                                 NodeKind = "CFunctionPointer"
	KindClass                                            NodeKind = "Class"
	KindConstructor                                      NodeKind = "Constructor"
	KindCurryThunk                                       NodeKind = "CurryThunk"
	KindDeallocator                                      NodeKind = "Deallocator"
	KindDeclContext                                      NodeKind = "DeclContext"
	KindDefaultArgumentInitializer                       NodeKind = "DefaultArgumentInitializer"
	KindDependentAssociatedTypeRef                       NodeKind = "DependentAssociatedTypeRef"
	KindDependentGenericConformanceRequirement           NodeKind = "DependentGenericConformanceRequirement"
	KindDependentGenericLayoutRequirement                NodeKind = "DependentGenericLayoutRequirement"
	KindDependentGenericParamCount                       NodeKind = "DependentGenericParamCount"
	KindDependentGenericParamType                        NodeKind = "DependentGenericParamType"
	KindDependentGenericSameTypeRequirement              NodeKind = "DependentGenericSameTypeRequirement"
	KindDependentGenericSignature                        NodeKind = "DependentGenericSignature"
	KindDependentGenericType                             NodeKind = "DependentGenericType"
	KindDependentMemberType                              NodeKind = "DependentMemberType"
	KindDependentPseudogenericSignature                  NodeKind = "DependentPseudogenericSignature"
	KindDestructor                                       NodeKind = "Destructor"
	KindDidSet                                           NodeKind = "DidSet"
	KindDirectMethodReferenceAttribute                   NodeKind = "DirectMethodReferenceAttribute"
	KindDirectness                                       NodeKind = "Directness"
	KindDynamicAttribute                                 NodeKind = "DynamicAttribute"
	KindDynamicSelf                                      NodeKind = "DynamicSelf"
	KindEmptyList                                        NodeKind = "EmptyList"
	KindEnum                                             NodeKind = "Enum"
	KindErrorType                                        NodeKind = "ErrorType"
	KindExistentialMetatype                              NodeKind = "ExistentialMetatype"
	KindExplicitClosure                                  NodeKind = "ExplicitClosure"
	KindExtension                                        NodeKind = "Extension"
	KindFieldOffset                                      NodeKind = "FieldOffset"
	KindFirstElementMarker                               NodeKind = "FirstElementMarker"
	KindFullTypeMetadata                                 NodeKind = "FullTypeMetadata"
	KindFunction                                         NodeKind = "Function"
	KindFunctionSignatureSpecialization                  NodeKind = "FunctionSignatureSpecialization"
	KindFunctionSignatureSpecializationParam             NodeKind = "FunctionSignatureSpecializationParam"
	KindFunctionSignatureSpecializationParamKind         NodeKind = "FunctionSignatureSpecializationParamKind"
	KindFunctionSignatureSpecializationParamPayload      NodeKind = "FunctionSignatureSpecializationParamPayload"
	KindFunctionType                                     NodeKind = "FunctionType"
	KindGenericPartialSpecialization                     NodeKind = "GenericPartialSpecialization"
	KindGenericPartialSpecializationNotReAbstracted      NodeKind = "GenericPartialSpecializationNotReAbstracted"
	KindGenericProtocolWitnessTable                      NodeKind = "GenericProtocolWitnessTable"
	KindGenericProtocolWitnessTableInstantiationFunction NodeKind = "GenericProtocolWitnessTableInstantiationFunction"
	KindGenericSpecialization                            NodeKind = "GenericSpecialization"
	KindGenericSpecializationNotReAbstracted             NodeKind = "GenericSpecializationNotReAbstracted"
	KindGenericSpecializationParam                       NodeKind = "GenericSpecializationParam"
	KindGenericTypeMetadataPattern                       NodeKind = "GenericTypeMetadataPattern"
	KindGenericTypeParamDecl                             NodeKind = "GenericTypeParamDecl"
	KindGetter                                           NodeKind = "Getter"
	KindGlobal                                           NodeKind = "Global"
	KindGlobalGetter                                     NodeKind = "GlobalGetter"
	KindIdentifier                                       NodeKind = "Identifier"
	KindImplConvention                                   NodeKind = "ImplConvention"
	KindImplErrorResult                                  NodeKind = "ImplErrorResult"
	KindImplEscaping                                     NodeKind = "ImplEscaping"
	KindImplFunctionAttribute                            NodeKind = "ImplFunctionAttribute"
	KindImplFunctionType                                 NodeKind = "ImplFunctionType"
	KindImplParameter                                    NodeKind = "ImplParameter"
	KindImplResult                                       NodeKind = "ImplResult"
	KindImplicitClosure                                  NodeKind = "ImplicitClosure"
	KindIndex                                            NodeKind = "Index"
	KindInfixOperator                                    NodeKind = "InfixOperator"
	KindInitializer                                      NodeKind = "Initializer"
	KindInOut                                            NodeKind = "InOut"
	KindIVarDestroyer                                    NodeKind = "IVarDestroyer"
	KindIVarInitializer                                  NodeKind = "IVarInitializer"
	KindKeyPathEqualsThunkHelper                         NodeKind = "KeyPathEqualsThunkHelper"
	KindKeyPathGetterThunkHelper                         NodeKind = "KeyPathGetterThunkHelper"
	KindKeyPathHashThunkHelper                           NodeKind = "KeyPathHashThunkHelper"
	KindKeyPathSetterThunkHelper                         NodeKind = "KeyPathSetterThunkHelper"
	KindLazyProtocolWitnessTableAccessor                 NodeKind = "LazyProtocolWitnessTableAccessor"
	KindLazyProtocolWitnessTableCacheVariable            NodeKind = "LazyProtocolWitnessTableCacheVariable"
	KindLocalDeclName                                    NodeKind = "LocalDeclName"
	KindMaterializeForSet                                NodeKind = "MaterializeForSet"
	KindMergedFunction                                   NodeKind = "MergedFunction"
	KindMetaclass                                        NodeKind = "Metaclass"
	KindMetatype                                         NodeKind = "Metatype"
	KindMetatypeRepresentation                           NodeKind = "MetatypeRepresentation"
	KindModifyAccessor                                   NodeKind = "ModifyAccessor"
	KindModule                                           NodeKind = "Module"
	KindNativeOwningAddressor                            NodeKind = "NativeOwningAddressor"
	KindNativeOwningMutableAddressor                     NodeKind = "NativeOwningMutableAddressor"
	KindNativePinningAddressor                           NodeKind = "NativePinningAddressor"
	KindNativePinningMutableAddressor                    NodeKind = "NativePinningMutableAddressor"
	KindNominalTypeDescriptor                            NodeKind = "NominalTypeDescriptor"
	KindNonObjCAttribute                                 NodeKind = "NonObjCAttribute"
	KindNumber                                           NodeKind = "Number"
	KindObjCAttribute                                    NodeKind = "ObjCAttribute"
	KindObjCBlock                                        NodeKind = "ObjCBlock"
	KindOutlinedConsume                                  NodeKind = "OutlinedConsume"
	KindOutlinedCopy                                     NodeKind = "OutlinedCopy"
	KindOutlinedRelease                                  NodeKind = "OutlinedRelease"
	KindOutlinedRetain                                   NodeKind = "OutlinedRetain"
	KindOwningAddressor                                  NodeKind = "OwningAddressor"
	KindOwningMutableAddressor                           NodeKind = "OwningMutableAddressor"
	KindPartialApplyForwarder                            NodeKind = "PartialApplyForwarder"
	KindPartialApplyObjCForwarder                        NodeKind = "PartialApplyObjCForwarder"
	KindPostfixOperator                                  NodeKind = "PostfixOperator"
	KindPrefixOperator                                   NodeKind = "PrefixOperator"
	KindPrivateDeclName                                  NodeKind = "PrivateDeclName"
	KindProtocol                                         NodeKind = "Protocol"
	KindProtocolConformance                              NodeKind = "ProtocolConformance"
	KindProtocolDescriptor                               NodeKind = "ProtocolDescriptor"
	KindProtocolList                                     NodeKind = "ProtocolList"
	KindProtocolListWithAnyObject                        NodeKind = "ProtocolListWithAnyObject"
	KindProtocolListWithClass                            NodeKind = "ProtocolListWithClass"
	KindProtocolWitness                                  NodeKind = "ProtocolWitness"
	KindProtocolWitnessTable                             NodeKind = "ProtocolWitnessTable"
	KindProtocolWitnessTableAccessor                     NodeKind = "ProtocolWitnessTableAccessor"
	KindQualifiedArchetype                               NodeKind = "QualifiedArchetype"
	KindReabstractionThunk                               NodeKind = "ReabstractionThunk"
	KindReabstractionThunkHelper                         NodeKind = "ReabstractionThunkHelper"
	KindReadAccessor                                     NodeKind = "ReadAccessor"
	KindReflectionMetadataAssocTypeDescriptor            NodeKind = "ReflectionMetadataAssocTypeDescriptor"
	KindReflectionMetadataBuiltinDescriptor              NodeKind = "ReflectionMetadataBuiltinDescriptor"
	KindReflectionMetadataFieldDescriptor                NodeKind = "ReflectionMetadataFieldDescriptor"
	KindReflectionMetadataSuperclassDescriptor           NodeKind = "ReflectionMetadataSuperclassDescriptor"
	KindReturnType                                       NodeKind = "ReturnType"
	KindSILBoxImmutableField                             NodeKind = "SILBoxImmutableField"
	KindSILBoxLayout                                     NodeKind = "SILBoxLayout"
	KindSILBoxMutableField                               NodeKind = "SILBoxMutableField"
	KindSILBoxType                                       NodeKind = "SILBoxType"
	KindSILBoxTypeWithLayout                             NodeKind = "SILBoxTypeWithLayout"
	KindSetter                                           NodeKind = "Setter"
	KindShared                                           NodeKind = "Shared"
	KindSpecializationIsFragile                          NodeKind = "SpecializationIsFragile"
	KindSpecializationPassID                             NodeKind = "SpecializationPassID"
	KindStatic                                           NodeKind = "Static"
	KindStructure                                        NodeKind = "Structure"
	KindSubscript                                        NodeKind = "Subscript"
	KindSuffix                                           NodeKind = "Suffix"
	KindThinFunctionType                                 NodeKind = "ThinFunctionType"
	KindThrowsAnnotation                                 NodeKind = "ThrowsAnnotation"
	KindTuple                                            NodeKind = "Tuple"
	KindTupleElement                                     NodeKind = "TupleElement"
	KindTupleElementName                                 NodeKind = "TupleElementName"
	KindType                                             NodeKind = "Type"
	KindTypeAlias                                        NodeKind = "TypeAlias"
	KindTypeList                                         NodeKind = "TypeList"
	KindTypeMangling                                     NodeKind = "TypeMangling"
	KindTypeMetadata                                     NodeKind = "TypeMetadata"
	KindTypeMetadataAccessFunction                       NodeKind = "TypeMetadataAccessFunction"
	KindTypeMetadataLazyCache                            NodeKind = "TypeMetadataLazyCache"
	KindUncurriedFunctionType                            NodeKind = "UncurriedFunctionType"
	KindUnmanaged                                        NodeKind = "Unmanaged"
	KindUnowned                                          NodeKind = "Unowned"
	KindUnsafeAddressor                                  NodeKind = "UnsafeAddressor"
	KindUnsafeMutableAddressor                           NodeKind = "UnsafeMutableAddressor"
	KindValueWitness                                     NodeKind = "ValueWitness"
	KindValueWitnessTable                                NodeKind = "ValueWitnessTable"
	KindVariable                                         NodeKind = "Variable"
	KindVariadicMarker                                   NodeKind = "VariadicMarker"
	KindVTableAttribute                                  NodeKind = "VTableAttribute"
	KindVTableThunk                                      NodeKind = "VTableThunk"
	KindWeak                                             NodeKind = "Weak"
	KindWillSet                                          NodeKind = "WillSet"
)

// contextKinds are the kinds that may appear as the context of a declaration.
var contextKinds = map[NodeKind]bool{
	KindAllocator:                     true,
	KindClass:                         true,
	KindConstructor:                   true,
	KindDeallocator:                   true,
	KindDefaultArgumentInitializer:    true,
	KindDestructor:                    true,
	KindDidSet:                        true,
	KindEnum:                          true,
	KindExplicitClosure:               true,
	KindExtension:                     true,
	KindFunction:                      true,
	KindGetter:                        true,
	KindGlobalGetter:                  true,
	KindIVarDestroyer:                 true,
	KindIVarInitializer:               true,
	KindImplicitClosure:               true,
	KindInitializer:                   true,
	KindMaterializeForSet:             true,
	KindModifyAccessor:                true,
	KindModule:                        true,
	KindNativeOwningAddressor:         true,
	KindNativeOwningMutableAddressor:  true,
	KindNativePinningAddressor:        true,
	KindNativePinningMutableAddressor: true,
	KindOwningAddressor:               true,
	KindOwningMutableAddressor:        true,
	KindProtocol:                      true,
	KindReadAccessor:                  true,
	KindSetter:                        true,
	KindStatic:                        true,
	KindStructure:                     true,
	KindSubscript:                     true,
	KindTypeAlias:                     true,
	KindUnsafeAddressor:               true,
	KindUnsafeMutableAddressor:        true,
	KindVariable:                      true,
	KindWillSet:                       true,
}

func isContext(k NodeKind) bool {
	return contextKinds[k]
}

// isEntity also accepts Type, which is not strictly an entity.
func isEntity(k NodeKind) bool {
	return k == KindType || isContext(k)
}

func isDeclName(k NodeKind) bool {
	switch k {
	case KindIdentifier, KindLocalDeclName, KindPrivateDeclName,
		KindPrefixOperator, KindPostfixOperator, KindInfixOperator:
		return true
	}
	return false
}

func isNominal(k NodeKind) bool {
	switch k {
	case KindStructure, KindClass, KindEnum, KindProtocol:
		return true
	}
	return false
}

func isRequirement(k NodeKind) bool {
	switch k {
	case KindDependentGenericSameTypeRequirement,
		KindDependentGenericLayoutRequirement,
		KindDependentGenericConformanceRequirement:
		return true
	}
	return false
}

// isFunctionAttr reports kinds that attach to the global symbol rather than
// to a particular subtree.
func isFunctionAttr(k NodeKind) bool {
	switch k {
	case KindFunctionSignatureSpecialization,
		KindGenericSpecialization,
		KindGenericSpecializationNotReAbstracted,
		KindGenericPartialSpecialization,
		KindGenericPartialSpecializationNotReAbstracted,
		KindObjCAttribute,
		KindNonObjCAttribute,
		KindDynamicAttribute,
		KindDirectMethodReferenceAttribute,
		KindVTableAttribute,
		KindPartialApplyForwarder,
		KindPartialApplyObjCForwarder,
		KindMergedFunction:
		return true
	}
	return false
}

package classfile

// typeVisitor is the Visitor between the structural Reader and the
// immutable ParsedType record: it normalizes internal (slash-form) names to
// canonical (dot-form) ones and elides the java.lang.Object super-type
// marker, matching the "optional super-name is absent iff Object" invariant
// in the data model.
type typeVisitor struct {
	built   bool
	iface   bool
	name    string
	super   string
	ifaces  []string
	methods []ParsedMethod
}

func (v *typeVisitor) VisitClass(_ uint16, accessFlags uint16, internalName, superInternalName string, interfaceInternalNames []string) {
	v.built = true
	v.iface = accessFlags&AccInterface != 0
	v.name = ToCanonical(internalName)
	super := ToCanonical(superInternalName)
	if super == objectName {
		super = ""
	}
	v.super = super
	ifaces := make([]string, len(interfaceInternalNames))
	for i, n := range interfaceInternalNames {
		ifaces[i] = ToCanonical(n)
	}
	v.ifaces = ifaces
}

func (v *typeVisitor) VisitMethod(accessFlags uint16, name string, paramDescs []string, returnDesc string) {
	v.methods = append(v.methods, ParsedMethod{
		Name:        name,
		ParamDescs:  append([]string(nil), paramDescs...),
		ReturnDesc:  returnDesc,
		AccessFlags: accessFlags,
	})
}

func (v *typeVisitor) build() ParsedType {
	return ParsedType{
		IsInterface:    v.iface,
		Name:           v.name,
		SuperName:      v.super,
		InterfaceNames: v.ifaces,
		Methods:        v.methods,
	}
}

// Parse parses a class file byte buffer into an immutable ParsedType. It
// wraps Accept with the Visitor that constructs the Parsed Type record
// described in spec §4.2.
func Parse(data []byte) (ParsedType, error) {
	v := &typeVisitor{}
	if err := Accept(data, v); err != nil {
		return ParsedType{}, err
	}
	if !v.built {
		return ParsedType{}, ErrMalformedClass
	}
	return v.build(), nil
}

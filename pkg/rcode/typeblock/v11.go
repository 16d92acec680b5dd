package typeblock

import (
	"github.com/riverside-software/rcode/pkg/rcode/breader"
	"github.com/riverside-software/rcode/pkg/rcode/charset"
	"github.com/riverside-software/rcode/pkg/rcode/elements"
)

// decodeV11 implements the 1100<=v<1200 layout: member kinds in
// declaration order methods, properties, variables, events, tables, no
// per-method source-line field, no leading-record digest.
func decodeV11(r *breader.Reader, is64Bit bool, cs charset.Charset) (*elements.ITypeInfo, error) {
	c := &cursor{r: r}

	lr, err := decodeLeadingRecord(c, is64Bit, false)
	if err != nil {
		return nil, err
	}

	typeName, err := resolveString(r, cs, lr.typeNameOffset)
	if err != nil {
		return nil, err
	}
	parentName, err := resolveString(r, cs, lr.parentNameOffset)
	if err != nil {
		return nil, err
	}
	packageName, err := resolveString(r, cs, lr.packageNameOffset)
	if err != nil {
		return nil, err
	}
	interfaces, err := decodeInterfaces(c, r, cs, lr.interfaceCount)
	if err != nil {
		return nil, err
	}

	methods := make([]elements.MethodElement, 0, lr.methodCount)
	for i := uint16(0); i < lr.methodCount; i++ {
		m, err := decodeMethod(c, r, cs, false)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	properties := make([]elements.PropertyElement, 0, lr.propertyCount)
	for i := uint16(0); i < lr.propertyCount; i++ {
		p, err := decodeProperty(c, r, cs)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}

	variables := make([]elements.VariableElement, 0, lr.variableCount)
	for i := uint16(0); i < lr.variableCount; i++ {
		v, err := decodeVariable(c, r, cs)
		if err != nil {
			return nil, err
		}
		variables = append(variables, v)
	}

	events := make([]elements.EventElement, 0, lr.eventCount)
	for i := uint16(0); i < lr.eventCount; i++ {
		e, err := decodeEvent(c, r, cs)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	tables := make([]elements.TableElement, 0, lr.tableCount)
	for i := uint16(0); i < lr.tableCount; i++ {
		t, err := decodeTable(c, r, cs)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return &elements.ITypeInfo{
		TypeName:       typeName,
		ParentTypeName: parentName,
		PackageName:    packageName,
		Interfaces:     interfaces,
		Flags:          elements.TypeFlags(lr.flags),
		Methods:        methods,
		Properties:     properties,
		Variables:      variables,
		Events:         events,
		Tables:         tables,
	}, nil
}

package elements

// ParameterElement is one parameter of a method or event delegate
// signature.
type ParameterElement struct {
	Name   string        `json:"name"`
	Type   DataType      `json:"type"`
	Mode   ParameterMode `json:"mode"`
	Extent int16         `json:"extent"`
}

// MethodElement is a single method declared on the class.
type MethodElement struct {
	Name        string             `json:"name"`
	AccessFlags AccessFlags        `json:"accessFlags"`
	ReturnType  DataType           `json:"returnType"`
	Parameters  []ParameterElement `json:"parameters,omitempty"`
	Position    int                `json:"position"`
}

// PropertyAccessor is a property's getter or setter, when present.
type PropertyAccessor struct {
	AccessFlags AccessFlags `json:"accessFlags"`
}

// PropertyElement is a single property declared on the class.
type PropertyElement struct {
	Name        string            `json:"name"`
	AccessFlags AccessFlags       `json:"accessFlags"`
	Type        DataType          `json:"type"`
	Extent      int16             `json:"extent"`
	Getter      *PropertyAccessor `json:"getter,omitempty"`
	Setter      *PropertyAccessor `json:"setter,omitempty"`
	Position    int               `json:"position"`
}

// VariableElement is a single instance or static variable declared on the
// class.
type VariableElement struct {
	Name        string      `json:"name"`
	AccessFlags AccessFlags `json:"accessFlags"`
	Type        DataType    `json:"type"`
	Extent      int16       `json:"extent"`
	Position    int         `json:"position"`
}

// EventElement is a single event declared on the class, with a delegate
// signature shaped like a method's parameter list.
type EventElement struct {
	Name        string             `json:"name"`
	AccessFlags AccessFlags        `json:"accessFlags"`
	Parameters  []ParameterElement `json:"parameters,omitempty"`
	Position    int                `json:"position"`
}

// FieldElement is a single field of a buffer/temp-table.
type FieldElement struct {
	Name         string   `json:"name"`
	Type         DataType `json:"type"`
	Extent       int16    `json:"extent"`
	Label        string   `json:"label,omitempty"`
	InitialValue string   `json:"initialValue,omitempty"`
}

// IndexComponent references one field of the owning table by its
// declaration position, with an ascending/descending direction.
type IndexComponent struct {
	FieldPosition int  `json:"fieldPosition"`
	Ascending     bool `json:"ascending"`
}

// IndexFlags is a bitset of index modifiers.
type IndexFlags uint16

const (
	IndexUnique IndexFlags = 1 << iota
	IndexPrimary
	IndexWordIndex
)

// HasFlag reports whether flag is set.
func (f IndexFlags) HasFlag(flag IndexFlags) bool {
	return f&flag != 0
}

// IndexElement is a single index of a buffer/temp-table.
type IndexElement struct {
	Name       string           `json:"name"`
	Flags      IndexFlags       `json:"flags"`
	Components []IndexComponent `json:"components,omitempty"`
}

// TableElement is a buffer or temp-table declared on the class, with its
// ordered fields and indexes.
type TableElement struct {
	Name        string         `json:"name"`
	AccessFlags AccessFlags    `json:"accessFlags"`
	BufferName  string         `json:"bufferName"`
	Fields      []FieldElement `json:"fields,omitempty"`
	Indexes     []IndexElement `json:"indexes,omitempty"`
	Position    int            `json:"position"`
}

// ITypeInfo is the fully decoded shape of a class artifact's type block:
// class hierarchy plus the five ordered member collections. It is
// constructed once by the type-block decoder and is immutable thereafter,
// safe to share for read across goroutines.
type ITypeInfo struct {
	TypeName       string    `json:"typeName"`
	ParentTypeName string    `json:"parentTypeName,omitempty"`
	PackageName    string    `json:"packageName,omitempty"`
	Interfaces     []string  `json:"interfaces,omitempty"`
	Flags          TypeFlags `json:"flags"`

	Methods    []MethodElement   `json:"methods,omitempty"`
	Properties []PropertyElement `json:"properties,omitempty"`
	Variables  []VariableElement `json:"variables,omitempty"`
	Events     []EventElement    `json:"events,omitempty"`
	Tables     []TableElement    `json:"tables,omitempty"`
}

// Name returns the fully qualified class name.
func (t *ITypeInfo) Name() string { return t.TypeName }

// ParentName returns the fully qualified parent class name, or "" for a
// class with no explicit parent.
func (t *ITypeInfo) ParentName() string { return t.ParentTypeName }

// HasFlag reports whether flag is set on the class.
func (t *ITypeInfo) HasFlag(flag TypeFlags) bool { return t.Flags.HasFlag(flag) }

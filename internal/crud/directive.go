package crud

import "fmt"

// OperationID names a domain operation in a DTO's operation table.
type OperationID string

type directiveKind uint8

const (
	kindFieldMapping directiveKind = iota
	kindOperation
)

// Directive selects how UpdateAndSave applies a DTO to its entity.
// The zero value is UseFieldMapping.
type Directive struct {
	kind directiveKind
	op   OperationID
}

// UseFieldMapping copies DTO fields onto the entity without calling domain
// operations.
var UseFieldMapping = Directive{kind: kindFieldMapping}

// CallOperation invokes the operation registered under id.
func CallOperation(id OperationID) Directive {
	return Directive{kind: kindOperation, op: id}
}

// Operation returns the operation id and true for CallOperation directives.
func (d Directive) Operation() (OperationID, bool) {
	if d.kind == kindOperation {
		return d.op, true
	}
	return "", false
}

func (d Directive) String() string {
	if d.kind == kindOperation {
		return fmt.Sprintf("operation(%s)", d.op)
	}
	return "field-mapping"
}

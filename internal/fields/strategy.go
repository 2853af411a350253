package fields

import "context"

// Strategy is one complete method for producing a FieldRecord from document
// text. Implementations must be pure with respect to the text: the same text
// always yields the same record. A Strategy never fails; unextractable
// fields degrade to null.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, text, sourceFile string) FieldRecord
}

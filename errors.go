package flickr

import "fmt"

// AttributeNotFoundError reports a field absent from an object even after one
// hydration attempt, or requested on a variant with no hydration path.
type AttributeNotFoundError struct {
	Variant   string
	Attribute string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("'%s' object has no attribute '%s'", e.Variant, e.Attribute)
}

// MissingIDError reports a bound call on an object constructed without an id.
// An object without an id cannot address itself in requests, so this is a
// structural precondition violation rather than something hydration can fix.
type MissingIDError struct {
	Variant string
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("'%s' object has no id and cannot address itself in requests", e.Variant)
}

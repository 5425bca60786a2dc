// Package backend contains the interface and implementations used to
// store and retrieve objects and references from the odb.
package backend

import (
	"github.com/colinmarc/gitgo/ginternals"
	"github.com/colinmarc/gitgo/ginternals/object"
)

// Backend represents something that can store and retrieve objects
// and references.
type Backend interface {
	// Init initializes a repository on disk.
	Init() error

	// Reference returns a stored reference from its name.
	Reference(name string) (*ginternals.Reference, error)
	// WriteReference writes the given reference, overwriting it if it
	// already exists.
	WriteReference(ref *ginternals.Reference) error
	// WriteReferenceSafe writes the given reference. ErrRefExists is
	// returned if the reference already exists.
	WriteReferenceSafe(ref *ginternals.Reference) error

	// Object returns the object with the given oid.
	Object(oid ginternals.Oid) (*object.Object, error)
	// HasObject returns whether an object exists in the odb.
	HasObject(oid ginternals.Oid) (bool, error)
	// WriteObject adds an object to the odb.
	WriteObject(o *object.Object) (ginternals.Oid, error)
	// WritePack imports every object contained in a received packfile.
	WritePack(data []byte) error
}

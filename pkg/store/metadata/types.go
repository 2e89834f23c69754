package metadata

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileType is the closed tag describing what a file record represents.
//
// Every consumer must handle all three variants explicitly; there is no
// free-form type string anywhere in the system.
type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid reports whether t is one of the known file types.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	default:
		return false
	}
}

// HasContent reports whether records of this type carry a blob payload.
// Folders never do.
func (t FileType) HasContent() bool {
	return t == FileTypeFile || t == FileTypeImage
}

// ParentRef is a tagged parent reference: either the hierarchy root or
// the identifier of an existing folder. The zero value is the root.
//
// Modelling this as a tagged value (instead of overloading a sentinel
// id) removes any ambiguity between "top level" and a legitimate
// ObjectID.
type ParentRef struct {
	id  primitive.ObjectID
	set bool
}

// RootParent returns the reference meaning "no parent / top level".
func RootParent() ParentRef {
	return ParentRef{}
}

// ParentOf returns a reference to the folder with the given id.
func ParentOf(id primitive.ObjectID) ParentRef {
	return ParentRef{id: id, set: true}
}

// IsRoot reports whether the reference denotes the hierarchy root.
func (p ParentRef) IsRoot() bool {
	return !p.set
}

// ID returns the referenced folder id. Only meaningful when IsRoot is
// false.
func (p ParentRef) ID() primitive.ObjectID {
	return p.id
}

// String renders the reference in its wire form: "0" for the root,
// the hex ObjectID otherwise.
func (p ParentRef) String() string {
	if p.IsRoot() {
		return "0"
	}
	return p.id.Hex()
}

// User is an account record. PasswordHash holds a one-way digest and
// must never be serialized out of the store layer.
type User struct {
	ID           primitive.ObjectID
	Email        string
	PasswordHash string
}

// File is a metadata record describing one node of the hierarchy.
//
// Ownership is immutable and, together with IsPublic, is the sole
// basis for authorization. IsPublic is the only field that ever
// changes after creation; records are never deleted.
type File struct {
	ID       primitive.ObjectID
	OwnerID  primitive.ObjectID
	Name     string
	Type     FileType
	IsPublic bool
	Parent   ParentRef

	// Location is the blob store location of the payload.
	// Always empty for folders.
	Location string
}

// PageSize is the fixed number of records returned per listing page.
const PageSize = 20

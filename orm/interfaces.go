package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x"
)

// Object is a keyed value held by a bucket. The bucket prefixes the key
// before it reaches the store.
type Object interface {
	Keyed
	Cloneable
	// Validate is called before every write.
	x.Validater
	Value() custody.Persistent
}

// Keyed is an object that knows the key it is stored under.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty copy of an object to decode into.
type Cloneable interface {
	Clone() Object
}

// CloneableData is the value of a SimpleObj. Copy must return a deep copy,
// buckets hand out copies so that callers never share state.
type CloneableData interface {
	x.Validater
	custody.Persistent
	Copy() CloneableData
}

package schema

import (
	"reflect"
	"sync"
)

// registry caches derived Metadata keyed by entity type. Entries are
// guarded by a sync.Once so concurrent first use of the same type runs
// derivation exactly once; after that the entry is read-only.
var registry sync.Map // reflect.Type -> *entry

type entry struct {
	once sync.Once
	meta *Metadata
	err  error
}

// Lookup returns the Metadata for an entity type, deriving it on first
// use. Pointer types resolve to their element type, so *User and User
// share one entry. A DefinitionError is sticky: every Lookup of a broken
// type reports the same failure.
func Lookup(t reflect.Type) (*Metadata, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v, _ := registry.LoadOrStore(t, &entry{})
	e := v.(*entry)
	e.once.Do(func() {
		e.meta, e.err = derive(t)
	})
	return e.meta, e.err
}

// Of returns the Metadata for the entity type T.
func Of[T any]() (*Metadata, error) {
	return Lookup(reflect.TypeOf((*T)(nil)).Elem())
}

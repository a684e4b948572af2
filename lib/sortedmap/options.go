package sortedmap

import (
	"reflect"

	"github.com/ValentinKolb/sortedkv/lib/tree"
	"github.com/ValentinKolb/sortedkv/lib/tree/engines/btree"
	"github.com/ValentinKolb/sortedkv/lib/tree/engines/gbtree"
	"github.com/ValentinKolb/sortedkv/lib/tree/engines/rbtree"
)

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Option configures a Map at construction time.
// Options are not generic so that WithImplementation can be passed without
// type arguments; WithTree and WithEqual infer the value type from their
// argument and are checked against the map's value type in New.
type Option func(*options)

type options struct {
	impl  tree.Implementation
	tree  any // tree.Tree[V]
	equal any // func(a, b V) bool
}

// WithImplementation selects the backing engine by identifier.
// It is ignored when WithTree is given as well.
func WithImplementation(impl tree.Implementation) Option {
	return func(o *options) {
		o.impl = impl
	}
}

// WithTree injects an engine instance. The tree must be empty.
func WithTree[V any](t tree.Tree[V]) Option {
	return func(o *options) {
		o.tree = t
	}
}

// WithEqual overrides the value equality used by Contains, RemoveEntry and
// the value view.
func WithEqual[V any](equal func(a, b V) bool) Option {
	return func(o *options) {
		o.equal = equal
	}
}

// resolve applies opts and builds the engine and equality function for V
func resolve[V any](opts []Option) (tree.Tree[V], func(a, b V) bool, error) {
	o := options{impl: tree.DefaultImplementation}
	for _, opt := range opts {
		opt(&o)
	}

	var t tree.Tree[V]
	switch injected := o.tree.(type) {
	case nil:
		var err error
		if t, err = NewTree[V](o.impl); err != nil {
			return nil, nil, err
		}
	case tree.Tree[V]:
		if injected.Len() != 0 {
			return nil, nil, newErrorf(ErrCodeInvalidArgument, "injected tree must be empty")
		}
		t = injected
	default:
		return nil, nil, newErrorf(ErrCodeInvalidArgument, "injected tree %T does not hold values of type %s", o.tree, typeName[V]())
	}

	equal := DefaultEqual[V]
	switch eq := o.equal.(type) {
	case nil:
	case func(a, b V) bool:
		if eq != nil {
			equal = eq
		}
	default:
		return nil, nil, newErrorf(ErrCodeInvalidArgument, "equality %T does not compare values of type %s", o.equal, typeName[V]())
	}

	return t, equal, nil
}

// NewTree creates an empty engine for the given implementation
func NewTree[V any](impl tree.Implementation) (tree.Tree[V], error) {
	switch impl {
	case tree.ImplRBTree, "":
		return rbtree.NewRBTree[V](), nil
	case tree.ImplBTree:
		return btree.NewBTree[V](), nil
	case tree.ImplGBTree:
		return gbtree.NewGBTree[V](), nil
	default:
		return nil, newErrorf(ErrCodeInvalidArgument, "unknown tree implementation %q", impl)
	}
}

// --------------------------------------------------------------------------
// Value Equality
// --------------------------------------------------------------------------

// DefaultEqual is the value equality used when no WithEqual option is given.
// Values of different dynamic types are never equal. Values that can be
// compared with == without panicking are, everything else (slices, maps,
// funcs, structs whose interface fields hold such values) goes through
// reflect.DeepEqual.
func DefaultEqual[V any](a, b V) bool {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	if reflect.TypeOf(va) != reflect.TypeOf(vb) {
		return false
	}
	// Value.Comparable inspects the dynamic contents of interface fields,
	// Type.Comparable only the static type
	if reflect.ValueOf(va).Comparable() && reflect.ValueOf(vb).Comparable() {
		return va == vb
	}
	return reflect.DeepEqual(va, vb)
}

func typeName[V any]() string {
	return reflect.TypeFor[V]().String()
}

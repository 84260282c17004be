// Package store holds the items served under /data. Implementations own their own
// synchronization; callers never lock.
package store

import (
	"context"
	"maps"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("store: item not found")

// Item is a JSON object. Stored items always carry their id under the "id" key.
type Item map[string]any

// ID returns the item's id, or "" when it has none.
func (it Item) ID() string {
	id, _ := it["id"].(string)
	return id
}

// withID copies it and sets its id.
func (it Item) withID(id string) Item {
	out := maps.Clone(it)
	if out == nil {
		out = Item{}
	}
	out["id"] = id

	return out
}

// Store is the storage abstraction the handlers depend on.
type Store interface {
	All(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Insert(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, id string, item Item) (Item, error)
}

// IDFunc generates ids for new items.
type IDFunc func() string

// SequentialIDs returns "1", "2", ... It is not safe for concurrent use on its own; stores
// call it under their lock.
func SequentialIDs() IDFunc {
	var n uint64
	return func() string {
		n++
		return strconv.FormatUint(n, 10)
	}
}

// UUIDs returns random version 4 UUIDs.
func UUIDs() IDFunc {
	return uuid.NewString
}

// NewIDFunc selects an id scheme by name: "sequential" or "uuid".
func NewIDFunc(scheme string) (IDFunc, error) {
	switch scheme {
	case "sequential", "":
		return SequentialIDs(), nil
	case "uuid":
		return UUIDs(), nil
	default:
		return nil, errors.Newf("unsupported id scheme: %q (supported: sequential, uuid)", scheme)
	}
}

package flow

import (
	"fmt"
	"strings"
)

// A query path may end with "?<mod>" to select how the data is matched.
const (
	// KeyQueryMod looks up the data as an exact key.
	KeyQueryMod = ""
	// PrefixQueryMod returns all entries under the data as key prefix.
	PrefixQueryMod = "prefix"
)

// Model is a raw key value entry as returned by queries.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers the queries of a single path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the paths of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches queries by exact path.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register serves path with h. Paths start with "/" and carry no modifier.
// Registering a path twice is a programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	switch {
	case !strings.HasPrefix(path, "/"), strings.ContainsRune(path, '?'):
		panic(fmt.Sprintf("query path %q must be absolute without modifier", path))
	case r.routes[path] != nil:
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns the handler of path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

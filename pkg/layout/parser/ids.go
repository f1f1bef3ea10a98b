package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"webviz-hq/layoutd/pkg/layout/ast"
)

// IDStrategy selects how object ids are assigned on each parse.
type IDStrategy string

const (
	// IDStrategyStable derives ids from the object's structural path
	// (ancestor type/name chain plus a duplicate ordinal), so an object keeps
	// its id across edits that do not move or rename it.
	IDStrategyStable IDStrategy = "stable"

	// IDStrategyRandom assigns a fresh random id to every object on every parse.
	IDStrategyRandom IDStrategy = "random"
)

// idNamespace scopes the name-based UUIDs generated for stable ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://webviz-hq/layoutd/object"))

// ParseIDStrategy converts a configuration string into an IDStrategy.
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch strings.ToLower(s) {
	case "", string(IDStrategyStable):
		return IDStrategyStable, nil
	case string(IDStrategyRandom):
		return IDStrategyRandom, nil
	default:
		return "", fmt.Errorf("unknown id strategy %q (expected %q or %q)", s, IDStrategyStable, IDStrategyRandom)
	}
}

// idAllocator hands out ids for one parse.
type idAllocator struct {
	strategy IDStrategy
	seen     map[string]int
}

func newIDAllocator(strategy IDStrategy) *idAllocator {
	return &idAllocator{
		strategy: strategy,
		seen:     make(map[string]int),
	}
}

// next returns the id and structural path of a child of parentPath.
// Siblings with the same type and name are told apart by their ordinal.
// Names are quoted so that a name containing path separators cannot collide
// with a deeper path.
func (a *idAllocator) next(parentPath string, t ast.ObjectType, name string) (id string, path string) {
	base := parentPath + "/" + strings.ToLower(string(t)) + ":" + strconv.Quote(name)
	n := a.seen[base]
	a.seen[base] = n + 1
	path = fmt.Sprintf("%s#%d", base, n)

	if a.strategy == IDStrategyRandom {
		return uuid.NewString(), path
	}
	return uuid.NewSHA1(idNamespace, []byte(path)).String(), path
}

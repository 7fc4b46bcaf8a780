package jsonpath

import "github.com/valyala/fastjson"

// subqueryCacheEntry buffers a root-anchored subquery's emissions the
// first time it runs during one evaluation, keyed by the compile-time id
// the parser assigned the subquery (spec §3 Dynamic resources, §9:
// "equality semantics on JSON values are NOT used as cache keys — only
// parser-assigned ids").
type subqueryCacheEntry struct {
	emissions []emission
	kind      nodeKind
	inFlight  bool // re-entrancy guard, see DESIGN.md Open Question #3
}

// resources is the per-evaluation dynamic-resources arena (spec §3, §5,
// §9). Its lifetime exactly matches one Evaluate call; nothing it owns
// may be referenced afterward.
type resources struct {
	arena      fastjson.Arena
	subqueries map[uint32]*subqueryCacheEntry
	depth      int // nesting depth of recursive-descent walks, capped at maxRecursionDepth
}

const maxRecursionDepth = 10000

func newResources() *resources {
	return &resources{subqueries: make(map[uint32]*subqueryCacheEntry)}
}

// cacheLookup returns the entry for a subquery id, or nil if this is the
// first time it's been reached during the current evaluation. The entry
// is still marked inFlight while that subquery's own evaluation runs.
func (r *resources) cacheLookup(id uint32) *subqueryCacheEntry {
	return r.subqueries[id]
}

// cacheBegin installs an in-flight placeholder before a root-anchored
// subquery starts evaluating its tail, so a re-entrant reference to the
// same id during its own evaluation panics instead of recursing forever
// (spec §9: "undefined by the source; treat as an invariant violation").
func (r *resources) cacheBegin(id uint32) *subqueryCacheEntry {
	if existing, ok := r.subqueries[id]; ok && existing.inFlight {
		panic("jsonpath: re-entrant root-anchor subquery (invariant violation)")
	}
	entry := &subqueryCacheEntry{inFlight: true}
	r.subqueries[id] = entry
	return entry
}

func (entry *subqueryCacheEntry) finish(emissions []emission, kind nodeKind) {
	entry.emissions = emissions
	entry.kind = kind
	entry.inFlight = false
}

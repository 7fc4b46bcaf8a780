package jsonpath

import "strconv"

// pathKind discriminates the four flavors of path node described in spec §3.
type pathKind uint8

const (
	pathRoot pathKind = iota
	pathCurrent
	pathKey
	pathIndex
)

// pathNode is a node in a singly-linked parent→leaf path chain. Nodes are
// immutable once created: extending a path allocates a new leaf node whose
// parent points at the existing chain, never mutating it in place.
type pathNode struct {
	parent *pathNode
	kind   pathKind
	key    string
	index  int
}

// rootPathNode and currentPathNode are the two sentinel path nodes with
// stable addresses for the lifetime of one evaluation (spec §3 Dynamic
// resources). They have no parent: they terminate the chain.
var (
	rootPathNode    = &pathNode{kind: pathRoot}
	currentPathNode = &pathNode{kind: pathCurrent}
)

// withKey returns a new path node extending p with an object-member step.
func (p *pathNode) withKey(key string) *pathNode {
	return &pathNode{parent: p, kind: pathKey, key: key}
}

// withIndex returns a new path node extending p with an array-index step.
func (p *pathNode) withIndex(index int) *pathNode {
	return &pathNode{parent: p, kind: pathIndex, index: index}
}

// components returns the chain from root to leaf (root-relative order),
// excluding the root/current sentinel itself.
func (p *pathNode) components() []*pathNode {
	var chain []*pathNode
	for n := p; n != nil && n.kind != pathRoot && n.kind != pathCurrent; n = n.parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// normalized renders the canonical bracket-notation path: $['a'][2].
func (p *pathNode) normalized() string {
	var b []byte
	b = append(b, '$')
	for _, n := range p.components() {
		b = append(b, '[')
		switch n.kind {
		case pathKey:
			b = append(b, '\'')
			b = append(b, escapeSingleQuoted(n.key)...)
			b = append(b, '\'')
		case pathIndex:
			b = strconv.AppendInt(b, int64(n.index), 10)
		}
		b = append(b, ']')
	}
	return string(b)
}

func escapeSingleQuoted(s string) string {
	needsEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}
	out := make([]byte, 0, len(s)+4)
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// pathLess reports whether a's normalized path sorts lexicographically
// before b's, used by the sort option (spec §3 invariant 4).
func pathLess(a, b *pathNode) bool {
	return a.normalized() < b.normalized()
}

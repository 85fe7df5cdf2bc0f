package store

import (
	"strings"
	"sync"

	"github.com/pflow-dev/pflow/pkg/types"
)

const reservedPrefix = "__"

// Store is the namespaced shared store for one workflow run. Zero value is
// not usable; construct with New.
type Store struct {
	mu             sync.RWMutex
	namespaces     map[string]map[string]any // nodeID -> key -> value
	reserved       map[string]any            // "__"-prefixed keys, never namespaced
	inputs         map[string]any            // declared workflow inputs, root-level
	reservedOwners map[string]string         // reserved key -> node id that first wrote it via Write
	collisions     []types.CollisionRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		namespaces:     make(map[string]map[string]any),
		reserved:       make(map[string]any),
		inputs:         make(map[string]any),
		reservedOwners: make(map[string]string),
	}
}

// SeedInputs installs the resolved workflow inputs at the store root. Called
// once by the Workflow Executor before the edge follower starts.
func (s *Store) SeedInputs(inputs map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range inputs {
		s.inputs[k] = v
	}
}

// IsReserved reports whether a key is a reserved top-level key.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, reservedPrefix)
}

// SetReserved writes a reserved key (e.g. __execution__, __pflow_depth__).
// It is an error to call this with a key not starting with "__".
func (s *Store) SetReserved(key string, value any) error {
	if !IsReserved(key) {
		return ErrNotReserved
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved[key] = value
	return nil
}

// GetReserved reads a reserved key.
func (s *Store) GetReserved(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.reserved[key]
	return v, ok
}

// AppendTrace appends one entry to the reserved __execution__ slice. The
// trace is append-only.
func (s *Store) AppendTrace(record any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, _ := s.reserved["__execution__"].([]any)
	s.reserved["__execution__"] = append(existing, record)
}

// Write stores a value written by node nodeID under key. Reserved keys
// (starting with "__") are written to the root-level reserved map instead
// of being namespaced, matching the contract that reserved keys are never
// namespaced even if a wrapper writes them "on behalf of" a node. Because
// that map has no per-node partitioning, a second distinct node writing a
// reserved key already owned by another node is recorded as a collision
// rather than silently overwriting it.
func (s *Store) Write(nodeID, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if IsReserved(key) {
		if owner, ok := s.reservedOwners[key]; !ok {
			s.reservedOwners[key] = nodeID
		} else if owner != nodeID {
			s.collisions = append(s.collisions, types.CollisionRecord{
				Key:       key,
				FirstNode: owner,
				NodeID:    nodeID,
			})
		}
		s.reserved[key] = value
		return
	}
	ns, ok := s.namespaces[nodeID]
	if !ok {
		ns = make(map[string]any)
		s.namespaces[nodeID] = ns
	}
	ns[key] = value
}

// Collisions returns every recorded same-reserved-key write collision
// between two distinct nodes, in the order they occurred.
func (s *Store) Collisions() []types.CollisionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CollisionRecord, len(s.collisions))
	copy(out, s.collisions)
	return out
}

// WriteAll writes every entry of outputs under nodeID's namespace.
func (s *Store) WriteAll(nodeID string, outputs map[string]any) {
	for k, v := range outputs {
		s.Write(nodeID, k, v)
	}
}

// View returns the full nested mapping used as the Template Resolver's
// context: reserved keys and declared inputs at the root, and each node's
// namespace nested at root[nodeID]. The result is a structural copy; the
// caller may not mutate it to affect the store.
func (s *Store) View() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := make(map[string]any, len(s.reserved)+len(s.inputs)+len(s.namespaces))
	for k, v := range s.inputs {
		view[k] = v
	}
	for k, v := range s.reserved {
		view[k] = v
	}
	for nodeID, ns := range s.namespaces {
		nested := make(map[string]any, len(ns))
		for k, v := range ns {
			nested[k] = v
		}
		view[nodeID] = nested
	}
	return view
}

// Keys returns every root-level key visible in View(): declared inputs,
// reserved keys, and node ids that have written at least one value.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.inputs)+len(s.reserved)+len(s.namespaces))
	for k := range s.inputs {
		keys = append(keys, k)
	}
	for k := range s.reserved {
		keys = append(keys, k)
	}
	for k := range s.namespaces {
		keys = append(keys, k)
	}
	return keys
}

// Items is an alias for View, offered for dict-compatible iteration
// (nodes pass the store to code that expects an ordinary mapping).
func (s *Store) Items() map[string]any {
	return s.View()
}

// Scoped is the namespaced read/write view handed to a single node's
// prep/exec/post phases. A node reads and writes flat keys; Scoped resolves
// reads against "its own namespace first, then reserved, then declared
// inputs".
type Scoped struct {
	store  *Store
	nodeID string
}

// Scope returns a Scoped view bound to nodeID.
func (s *Store) Scope(nodeID string) Scoped {
	return Scoped{store: s, nodeID: nodeID}
}

// Get resolves a flat key against this node's namespace, then reserved
// keys, then declared inputs, in that order.
func (v Scoped) Get(key string) (any, bool) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ns, ok := s.namespaces[v.nodeID]; ok {
		if val, ok := ns[key]; ok {
			return val, true
		}
	}
	if val, ok := s.reserved[key]; ok {
		return val, true
	}
	if val, ok := s.inputs[key]; ok {
		return val, true
	}
	return nil, false
}

// Set writes key under this node's namespace (or to the reserved map, if
// key is reserved).
func (v Scoped) Set(key string, value any) {
	v.store.Write(v.nodeID, key, value)
}

// NodeID returns the node id this view is scoped to.
func (v Scoped) NodeID() string {
	return v.nodeID
}

package registry

import (
	"errors"
	"sort"
	"sync"

	"github.com/DoyleJ11/connect-four-server/internal/engine"
)

// ErrNotConnected is returned by Conn.Send once the peer is gone. Callers
// treat it exactly like a close notification.
var ErrNotConnected = errors.New("connection not open")

// Conn is one live client connection. Send must not block.
type Conn interface {
	ID() string
	Send(payload []byte) error
}

var DefaultNames = []string{
	"Bulbasaur", "Charizard", "Blaziken", "Umbreon", "Mewtwo", "Pikachu", "Wartortle",
}

var DefaultColors = []string{
	"GREEN", "ORANGE", "RED", "GRAY", "PURPLE", "YELLOW", "BLUE",
}

// Pointer is the last cursor position a client reported. Row and Col are -1
// while the cursor is outside the grid.
type Pointer struct {
	X   int
	Y   int
	Row int
	Col int
}

func (p Pointer) OverGrid() bool {
	return p.Row >= 0 && p.Col >= 0
}

type Identity struct {
	ConnID  string
	Name    string
	Color   string
	Role    engine.Role
	Pointer Pointer

	seq uint64
}

// Registry maps live connections to their identities. It has its own lock and
// never touches match state.
type Registry struct {
	mu     sync.RWMutex
	names  []string
	colors []string
	next   uint64
	byConn map[Conn]*Identity
	byID   map[string]Conn
}

func New(names, colors []string) *Registry {
	if len(names) == 0 {
		names = DefaultNames
	}
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Registry{
		names:  names,
		colors: colors,
		byConn: make(map[Conn]*Identity),
		byID:   make(map[string]Conn),
	}
}

// Add registers c. Names are handed out cyclically by registration order, so
// a name can repeat once the pool wraps. The first free side is assigned as
// the role; a third concurrent connection gets none.
func (r *Registry) Add(c Conn) Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byConn[c]; ok {
		return *id
	}

	idx := int(r.next % uint64(len(r.names)))
	id := &Identity{
		ConnID:  c.ID(),
		Name:    r.names[idx],
		Color:   r.colors[idx%len(r.colors)],
		Role:    r.freeRole(),
		Pointer: Pointer{Row: -1, Col: -1},
		seq:     r.next,
	}
	r.next++

	r.byConn[c] = id
	r.byID[id.ConnID] = c
	return *id
}

func (r *Registry) freeRole() engine.Role {
	taken := make(map[engine.Role]bool, len(engine.Roles))
	for _, id := range r.byConn {
		taken[id.Role] = true
	}
	for _, role := range engine.Roles {
		if !taken[role] {
			return role
		}
	}
	return engine.RoleNone
}

// Remove drops c and returns the identity it held. The second call for the
// same connection reports false, which keeps cleanup idempotent when a close
// notification races a failed send.
func (r *Registry) Remove(c Conn) (Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byConn[c]
	if !ok {
		return Identity{}, false
	}
	delete(r.byConn, c)
	delete(r.byID, id.ConnID)
	return *id, true
}

func (r *Registry) Lookup(c Conn) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byConn[c]
	if !ok {
		return Identity{}, false
	}
	return *id, true
}

func (r *Registry) ConnByID(connID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[connID]
	return c, ok
}

// UpdatePointer stores the latest cursor position for c; the role is kept.
func (r *Registry) UpdatePointer(c Conn, p Pointer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byConn[c]
	if !ok {
		return false
	}
	id.Pointer = p
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// Snapshot returns a point-in-time copy safe to iterate while sending.
func (r *Registry) Snapshot() map[Conn]Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[Conn]Identity, len(r.byConn))
	for c, id := range r.byConn {
		out[c] = *id
	}
	return out
}

// Identities returns copies of every identity in registration order.
func (r *Registry) Identities() []Identity {
	r.mu.RLock()
	out := make([]Identity, 0, len(r.byConn))
	for _, id := range r.byConn {
		out = append(out, *id)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

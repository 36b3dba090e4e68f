package style

// StyleId is an opaque, content-addressed handle into a StyleRegistry. The
// zero value always identifies Default.
type StyleId int

// DefaultStyleId is the id of the workbook's implicit default style.
const DefaultStyleId StyleId = 0

// StyleRegistry interns CellStyle values: registering the same style twice
// returns the same id, mirroring the teacher's StyleTable (a compact XF
// index shared by every cell that uses it) but keyed by full structural
// content rather than by BIFF12 record order.
//
// StyleRegistry is immutable: Register returns a new registry value rather
// than mutating the receiver, so a sheet holding an older registry snapshot
// is unaffected by styles registered after it was captured.
type StyleRegistry struct {
	styles []CellStyle
	index  map[CellStyle]StyleId
}

// NewRegistry returns an empty registry seeded with Default at id 0.
func NewRegistry() StyleRegistry {
	r := StyleRegistry{
		styles: []CellStyle{Default},
		index:  map[CellStyle]StyleId{Default: DefaultStyleId},
	}
	return r
}

// Register interns s, returning the (possibly unchanged) registry and the
// id under which s is now available. If an equal style was already
// registered, the existing id is returned and the registry is not copied.
func (r StyleRegistry) Register(s CellStyle) (StyleRegistry, StyleId) {
	if id, ok := r.index[s]; ok {
		return r, id
	}
	newStyles := make([]CellStyle, len(r.styles), len(r.styles)+1)
	copy(newStyles, r.styles)
	newStyles = append(newStyles, s)

	newIndex := make(map[CellStyle]StyleId, len(r.index)+1)
	for k, v := range r.index {
		newIndex[k] = v
	}
	id := StyleId(len(r.styles))
	newIndex[s] = id

	return StyleRegistry{styles: newStyles, index: newIndex}, id
}

// Get resolves id to its CellStyle. The second return is false for an id
// that was never registered (or was registered in a different registry
// lineage and exceeds this one's length).
func (r StyleRegistry) Get(id StyleId) (CellStyle, bool) {
	if int(id) < 0 || int(id) >= len(r.styles) {
		return CellStyle{}, false
	}
	return r.styles[id], true
}

// Len returns the number of distinct styles interned so far, including
// Default.
func (r StyleRegistry) Len() int { return len(r.styles) }

// All returns every registered style in registration order (id == index).
// The returned slice must not be mutated by the caller.
func (r StyleRegistry) All() []CellStyle { return r.styles }

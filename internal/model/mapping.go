package model

// BaseNameMapping maps canonical base names to the distinct raw base values
// that normalize to them. Names and members keep first-seen order.
type BaseNameMapping struct {
	names   []string
	members map[string][]string
}

// NewBaseNameMapping returns an empty mapping.
func NewBaseNameMapping() *BaseNameMapping {
	return &BaseNameMapping{members: map[string][]string{}}
}

// Add appends raw to the member list of name unless it is already present.
func (m *BaseNameMapping) Add(name, raw string) {
	list, ok := m.members[name]
	if !ok {
		m.names = append(m.names, name)
	}
	for _, existing := range list {
		if existing == raw {
			return
		}
	}
	m.members[name] = append(list, raw)
}

// Names returns the canonical names in first-seen order.
func (m *BaseNameMapping) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Members returns the raw values grouped under name.
func (m *BaseNameMapping) Members(name string) []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.members[name]...)
}

// Has reports whether name is a key of the mapping.
func (m *BaseNameMapping) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.members[name]
	return ok
}

// Len returns the number of canonical names.
func (m *BaseNameMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// MemberSet returns the union of raw members of the given names.
func (m *BaseNameMapping) MemberSet(names ...string) map[string]struct{} {
	set := map[string]struct{}{}
	if m == nil {
		return set
	}
	for _, name := range names {
		for _, raw := range m.members[name] {
			set[raw] = struct{}{}
		}
	}
	return set
}

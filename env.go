package spectra

// Env is a lexical scope frame. Lookups walk the parent chain; defines
// stay in the local frame.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a scope with the given parent (nil for a root scope).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Child creates a fresh scope nested inside e.
func (e *Env) Child() *Env { return NewEnv(e) }

// Define binds name in this frame. It reports false if the name is
// already bound here; shadowing an outer binding is allowed.
func (e *Env) Define(name string, v Value) bool {
	if _, exists := e.table[name]; exists {
		return false
	}
	e.table[name] = v
	return true
}

// Get resolves name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign rebinds the nearest existing binding of name. It never creates
// a binding; it reports false if name is unbound.
func (e *Env) Assign(name string, v Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.table[name]; ok {
			s.table[name] = v
			return true
		}
	}
	return false
}

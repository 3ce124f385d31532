package interp

// GlobalFrameName is the scope name of the module-level frame.
const GlobalFrameName = "global"

// Frame is one live activation of a function or the module body. Its
// identity is a monotonically issued token scoped to the frame's
// lifetime, never a memory address.
type Frame struct {
	token   uint64
	name    string
	env     *Environment
	globals *Environment

	// globalNames holds the names this frame declared with `global`.
	globalNames map[string]bool
}

// Token returns the frame's lifetime-unique identity.
func (f *Frame) Token() uint64 { return f.token }

// Scope returns the frame's function name, or "global" for the module
// frame.
func (f *Frame) Scope() string { return f.name }

// IsModule reports whether this is the module-level frame.
func (f *Frame) IsModule() bool { return f.name == GlobalFrameName }

// LocalNames returns the names bound directly in this frame, sorted.
func (f *Frame) LocalNames() []string { return f.env.Names() }

// Lookup resolves a name visible to this frame (locals first, then the
// outer chain down to builtins).
func (f *Frame) Lookup(name string) (Object, bool) { return f.env.Get(name) }

// IsLocal reports whether the name is a true local of this frame: bound
// here and not declared global.
func (f *Frame) IsLocal(name string) bool {
	return f.env.Has(name) && !f.globalNames[name]
}

// GlobalNames returns the module-level bindings visible to this frame,
// sorted.
func (f *Frame) GlobalNames() []string { return f.globals.Names() }

// GlobalLookup resolves a module-level binding.
func (f *Frame) GlobalLookup(name string) (Object, bool) {
	return f.globals.GetLocal(name)
}

func (f *Frame) declareGlobal(name string) {
	f.globalNames[name] = true
}

func (f *Frame) isDeclaredGlobal(name string) bool {
	return f.globalNames[name]
}

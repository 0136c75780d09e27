package binding

import (
	"strings"
	"sync"

	"github.com/coreos/go-semver/semver"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/echo-surface/errors"
)

// FuncDef defines a host function the binding exports.
type FuncDef struct {
	Name        string
	Handler     api.GoModuleFunc
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// Namespace holds the functions registered under one versioned interface
// path like "echo:fixture/surface@1.0.0".
type Namespace struct {
	base    string
	version *semver.Version
	funcs   map[string]*FuncDef
}

// DefineFunc adds a function definition to the namespace.
func (ns *Namespace) DefineFunc(name string, fn api.GoModuleFunc, params, results []api.ValueType) {
	ns.funcs[name] = &FuncDef{
		Name:        name,
		Handler:     fn,
		ParamTypes:  params,
		ResultTypes: results,
	}
}

// Funcs returns the function definitions in the namespace.
func (ns *Namespace) Funcs() []*FuncDef {
	defs := make([]*FuncDef, 0, len(ns.funcs))
	for _, f := range ns.funcs {
		defs = append(defs, f)
	}
	return defs
}

// Registry resolves versioned namespace paths to host functions.
// Thread-safe.
type Registry struct {
	namespaces map[string][]*Namespace
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		namespaces: make(map[string][]*Namespace),
	}
}

// Namespace returns or creates a namespace for the given versioned path.
// Paths without a version get an implicit 0.0.0.
func (r *Registry) Namespace(path string) (*Namespace, error) {
	base, ver, err := parseNamespacePath(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ns := range r.namespaces[base] {
		if ns.version.Equal(*ver) {
			return ns, nil
		}
	}

	ns := &Namespace{
		base:    base,
		version: ver,
		funcs:   make(map[string]*FuncDef),
	}
	r.namespaces[base] = append(r.namespaces[base], ns)
	return ns, nil
}

// Resolve looks up a function by full path, e.g.
// "echo:fixture/surface@1.0.0#echo-string". Version matching is
// semver-compatible: a request for X.Y.Z is satisfied by a registered
// X.Y'.Z' with the same major version and Y'.Z' >= Y.Z. The newest
// compatible namespace wins.
func (r *Registry) Resolve(path string) (*FuncDef, error) {
	nsPath, funcName, found := strings.Cut(path, "#")
	if !found {
		return nil, errors.InvalidInput(errors.PhaseBind, "function path missing '#' separator: "+path)
	}

	base, want, err := parseNamespacePath(nsPath)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Namespace
	for _, ns := range r.namespaces[base] {
		if !compatible(ns.version, want) {
			continue
		}
		if best == nil || best.version.LessThan(*ns.version) {
			best = ns
		}
	}
	if best == nil {
		return nil, errors.NotFound(errors.PhaseBind, "namespace", nsPath)
	}

	f, ok := best.funcs[funcName]
	if !ok {
		return nil, errors.NotFound(errors.PhaseBind, "function", funcName)
	}
	return f, nil
}

// compatible reports whether a registered version satisfies a requested one:
// same major, and not older than the request.
func compatible(have, want *semver.Version) bool {
	if have.Major != want.Major {
		return false
	}
	return !have.LessThan(*want)
}

func parseNamespacePath(path string) (base string, ver *semver.Version, err error) {
	base, verStr, found := strings.Cut(path, "@")
	if base == "" {
		return "", nil, errors.InvalidInput(errors.PhaseBind, "namespace cannot be empty")
	}
	if !found || verStr == "" {
		return base, &semver.Version{}, nil
	}
	ver, perr := semver.NewVersion(verStr)
	if perr != nil {
		return "", nil, errors.Wrap(errors.PhaseBind, errors.KindInvalidInput, perr, "parse namespace version "+verStr)
	}
	return base, ver, nil
}

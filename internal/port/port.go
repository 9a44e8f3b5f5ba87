// Package port implements the flat scalar-signal registry each voice owns:
// named input/output ports, the connections between them, and the offline
// component-adjacency view the scheduler consumes.
package port

import (
	"fmt"

	"github.com/cleartone/patchsynth/internal/rtflag"
)

// Direction distinguishes input from output ports.
type Direction int

const (
	Unknown Direction = iota
	Input
	Output
)

// Handle is an opaque reference to a port inside one Registry. It is a
// plain index, not tied to the registry's lifetime; using a handle from one
// Registry against another is undefined.
type Handle struct {
	id  int
	dir Direction
}

// Valid reports whether h refers to a real port (was returned by Register*
// or a successful Find/promotion), as opposed to the zero Handle.
func (h Handle) Valid() bool { return h.dir != Unknown }

// Direction reports the handle's direction.
func (h Handle) Direction() Direction { return h.dir }

// PromoteToOutput narrows an unknown handle returned by Find to an output
// handle. It fails if the underlying port is actually an input.
func (h Handle) PromoteToOutput() (Handle, error) {
	if h.dir != Output {
		return Handle{}, ErrNotOutputPort
	}
	return h, nil
}

// PromoteToInput narrows an unknown handle returned by Find to an input
// handle. It fails if the underlying port is actually an output.
func (h Handle) PromoteToInput() (Handle, error) {
	if h.dir != Input {
		return Handle{}, ErrNotInputPort
	}
	return h, nil
}

// Name identifies a port by the (component, port) pair used in offline
// lookups. Never touched at audio rate.
type Name struct {
	Component string
	Port      string
}

func (n Name) String() string { return fmt.Sprintf("%s.%s", n.Component, n.Port) }

// Errors returned by registry operations. All are sentinel-comparable except
// NoSuchPortError, which carries the offending name.
var (
	ErrPortsNotUnique       = fmt.Errorf("port: (component, port) name already registered")
	ErrNotOutputPort        = fmt.Errorf("port: handle is not an output port")
	ErrNotInputPort         = fmt.Errorf("port: handle is not an input port")
	ErrRealtimeRegistration = fmt.Errorf("port: cannot register ports from the realtime audio thread")
)

// NoSuchPortError reports a connect_by_name lookup miss, naming the port.
type NoSuchPortError struct{ Name Name }

func (e *NoSuchPortError) Error() string {
	return fmt.Sprintf("port: no such port %q", e.Name)
}

type portMeta struct {
	component string
	name      string
	dir       Direction
}

// Registry is a per-voice table of ports, connections between them, and the
// component metadata needed to resolve names and compute adjacency.
//
// Structural mutation (Register*, Connect, Disconnect) is only safe during
// voice construction. GetValue and SetValue are the only operations the
// realtime generate path may call: they allocate nothing, hash nothing, and
// never resolve a name.
type Registry struct {
	values      []float32
	meta        []portMeta
	connections []connection
	byComponent map[string]map[string]int // component -> port name -> index into meta/values
	components  []string                  // component names in first-registration order
}

type connection struct {
	output int
	input  int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byComponent: make(map[string]map[string]int),
	}
}

func (r *Registry) nameTaken(component, name string) bool {
	ports, ok := r.byComponent[component]
	if !ok {
		return false
	}
	_, ok = ports[name]
	return ok
}

func (r *Registry) register(component, name string, dir Direction) (Handle, error) {
	if rtflag.IsRealtime() {
		return Handle{}, ErrRealtimeRegistration
	}
	if r.nameTaken(component, name) {
		return Handle{}, ErrPortsNotUnique
	}
	id := len(r.values)
	r.values = append(r.values, 0)
	r.meta = append(r.meta, portMeta{component: component, name: name, dir: dir})

	ports, ok := r.byComponent[component]
	if !ok {
		ports = make(map[string]int)
		r.byComponent[component] = ports
		r.components = append(r.components, component)
	}
	ports[name] = id

	return Handle{id: id, dir: dir}, nil
}

// RegisterInput allocates a new input port for the named component. It
// fails if a port of either direction already holds that (component, port)
// name.
func (r *Registry) RegisterInput(n Name) (Handle, error) {
	return r.register(n.Component, n.Port, Input)
}

// RegisterOutput allocates a new output port for the named component. Same
// uniqueness rule as RegisterInput.
func (r *Registry) RegisterOutput(n Name) (Handle, error) {
	return r.register(n.Component, n.Port, Output)
}

// Connect wires an output port to an input port. Always succeeds once both
// handles are valid; duplicate connections are benign.
func (r *Registry) Connect(output, input Handle) {
	r.connections = append(r.connections, connection{output: output.id, input: input.id})
}

// Disconnect removes every connection between output and input.
func (r *Registry) Disconnect(output, input Handle) {
	kept := r.connections[:0]
	for _, c := range r.connections {
		if c.output == output.id && c.input == input.id {
			continue
		}
		kept = append(kept, c)
	}
	r.connections = kept
}

// Find resolves a name to its handle, if registered.
func (r *Registry) Find(n Name) (Handle, bool) {
	ports, ok := r.byComponent[n.Component]
	if !ok {
		return Handle{}, false
	}
	id, ok := ports[n.Port]
	if !ok {
		return Handle{}, false
	}
	return Handle{id: id, dir: r.meta[id].dir}, true
}

// ConnectByName looks both names up, promotes them to output/input, and
// connects them.
func (r *Registry) ConnectByName(output, input Name) error {
	o, ok := r.Find(output)
	if !ok {
		return &NoSuchPortError{Name: output}
	}
	o, err := o.PromoteToOutput()
	if err != nil {
		return err
	}
	i, ok := r.Find(input)
	if !ok {
		return &NoSuchPortError{Name: input}
	}
	i, err = i.PromoteToInput()
	if err != nil {
		return err
	}
	r.Connect(o, i)
	return nil
}

// GetValue returns the current value stored at h. Never fails on a handle
// produced by this registry.
func (r *Registry) GetValue(h Handle) float32 {
	return r.values[h.id]
}

// SetValue stores val at the output handle, then eagerly propagates it to
// every connected input. No allocation, no hashing, no name resolution.
func (r *Registry) SetValue(h Handle, val float32) {
	r.values[h.id] = val
	for _, c := range r.connections {
		if c.output == h.id {
			r.values[c.input] = val
		}
	}
}

// Adjacency is the offline component-level view the scheduler consumes:
// Names maps matrix index to component name, and Matrix[i][j] is true iff
// some output of component i is connected to some input of component j.
type Adjacency struct {
	Names  map[int]string
	Matrix [][]bool
}

// ComponentAdjacency computes the component-level adjacency matrix from the
// current connection set. N is the number of distinct component names seen
// during registration.
func (r *Registry) ComponentAdjacency() Adjacency {
	index := make(map[string]int, len(r.components))
	names := make(map[int]string, len(r.components))
	for idx, component := range r.components {
		index[component] = idx
		names[idx] = component
	}

	n := len(index)
	matrix := make([][]bool, n)
	for i := range matrix {
		matrix[i] = make([]bool, n)
	}

	for _, c := range r.connections {
		from := index[r.meta[c.output].component]
		to := index[r.meta[c.input].component]
		matrix[from][to] = true
	}

	return Adjacency{Names: names, Matrix: matrix}
}

package structson

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/gork-labs/tagson/pkg/jsonv"
	"github.com/gork-labs/tagson/pkg/tagson"
)

// Registry maps Go types to derived codecs so the Marshal/Unmarshal entry
// points can resolve a codec from a value alone. It is intentionally not
// global: multiple registries can live in one process. The zero value is not
// usable; use NewRegistry.
//
// The registry is safe for concurrent use by multiple goroutines.
type Registry struct {
	mu     sync.RWMutex
	codecs map[reflect.Type]tagson.ValueCodec
	order  []reflect.Type
}

// NewRegistry creates a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[reflect.Type]tagson.ValueCodec)}
}

// Add registers a codec under rt. Registering the same type twice is a
// wiring mistake and panics.
func (r *Registry) Add(rt reflect.Type, c tagson.ValueCodec) {
	if rt == nil || c == nil {
		panic("structson: nil registration")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codecs[rt]; ok {
		panic(fmt.Sprintf("structson: codec for %s already registered", rt))
	}
	r.codecs[rt] = c
	r.order = append(r.order, rt)
	slog.Debug("codec registered", "type", rt.String())
}

// Lookup returns the codec registered for exactly rt. When rt has no exact
// entry and is non-interface, registered interface types are scanned in
// registration order and the first one rt implements wins.
func (r *Registry) Lookup(rt reflect.Type) (tagson.ValueCodec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.codecs[rt]; ok {
		return c, true
	}
	if rt == nil || rt.Kind() == reflect.Interface {
		return nil, false
	}
	for _, candidate := range r.order {
		if candidate.Kind() == reflect.Interface && rt.Implements(candidate) {
			return r.codecs[candidate], true
		}
	}
	return nil, false
}

// Marshal encodes v through its registered codec and serializes the result.
func (r *Registry) Marshal(v any) ([]byte, error) {
	c, ok := r.Lookup(reflect.TypeOf(v))
	if !ok {
		return nil, fmt.Errorf("structson: no codec registered for %T", v)
	}
	val, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	return jsonv.Marshal(val)
}

// Unmarshal parses data and decodes it through the codec registered for
// out's element type. out must be a non-nil pointer.
func (r *Registry) Unmarshal(data []byte, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("structson: unmarshal target must be a non-nil pointer, got %T", out)
	}
	want := rv.Type().Elem()
	c, ok := r.Lookup(want)
	if !ok {
		return fmt.Errorf("structson: no codec registered for %s", want)
	}
	parsed, err := jsonv.Unmarshal(data)
	if err != nil {
		return err
	}
	decoded, err := c.Decode(parsed)
	if err != nil {
		return err
	}
	dv := reflect.ValueOf(decoded)
	if !dv.IsValid() {
		rv.Elem().Set(reflect.Zero(want))
		return nil
	}
	if !dv.Type().AssignableTo(want) {
		return fmt.Errorf("structson: codec for %s produced %T", want, decoded)
	}
	rv.Elem().Set(dv)
	return nil
}

var defaultRegistry = NewRegistry()

// Register adds a derived codec for T to the package registry. Registering
// the same type twice panics.
func Register[T any](c tagson.Codec[T]) {
	defaultRegistry.Add(typeOf[T](), tagson.Erase(c))
}

// Lookup consults the package registry.
func Lookup(rt reflect.Type) (tagson.ValueCodec, bool) {
	return defaultRegistry.Lookup(rt)
}

// Marshal encodes v through the package registry.
func Marshal(v any) ([]byte, error) {
	return defaultRegistry.Marshal(v)
}

// Unmarshal decodes data into out through the package registry.
func Unmarshal(data []byte, out any) error {
	return defaultRegistry.Unmarshal(data, out)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

package module

import "reflect"

// PortsOf digs an implementation of T out of a module's Ports() bundle.
// A bundle can be the port itself or a struct whose exported fields
// carry ports; ok is false when neither holds a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T

	bundle := m.Ports()
	if bundle == nil {
		return zero, false
	}
	if direct, ok := bundle.(T); ok {
		return direct, true
	}

	rv := reflect.ValueOf(bundle)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if port, ok := f.Interface().(T); ok {
			return port, true
		}
	}
	return zero, false
}

// MustPortsOf panics when the port is absent; boot wiring wants a loud
// failure, not a nil port
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module: requested port not found on module " + m.Name())
	}
	return v
}

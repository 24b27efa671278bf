package registry

import (
	"fmt"
)

// namedRegistry holds key maps registered under an entity name (like "Order"),
// typically loaded from a manifest during initialization, before any Go type
// has adopted them.
var namedRegistry = make(map[string]KeyMap)

// RegisterNamedKeyMap registers a key map under an entity name.
// If a key map is already registered under the name, it panics to prevent accidental overrides.
func RegisterNamedKeyMap(name string, km KeyMap) {
	if _, exists := namedRegistry[name]; exists {
		panic(fmt.Sprintf("key map registry: name %q already registered", name))
	}
	namedRegistry[name] = km
}

// NamedKeyMap returns the key map registered under the given entity name.
// If none is registered, it returns an error.
func NamedKeyMap(name string) (KeyMap, error) {
	km, ok := namedRegistry[name]
	if !ok {
		return KeyMap{}, fmt.Errorf("key map registry: no key map registered under %q", name)
	}
	return km, nil
}

// AdoptNamedKeyMap binds the key map registered under name to the Go type T,
// making it available through GetKeyMap[T].
func AdoptNamedKeyMap[T any](name string) error {
	km, err := NamedKeyMap(name)
	if err != nil {
		return err
	}
	RegisterKeyMap[T](km)
	return nil
}

package providers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/scribe-labs/scribe/core"
)

// ProviderFactory builds a provider around an API key. Factories for
// keyless endpoints may ignore the argument.
type ProviderFactory func(apiKey string) core.Provider

var reg = struct {
	sync.RWMutex
	factories map[string]ProviderFactory
}{factories: make(map[string]ProviderFactory)}

// Register installs a factory under the given name, replacing any earlier
// registration. Provider packages call this from init:
//
//	func init() {
//	    providers.Register("openai", func(apiKey string) core.Provider {
//	        return New(apiKey)
//	    })
//	}
func Register(name string, factory ProviderFactory) {
	reg.Lock()
	reg.factories[name] = factory
	reg.Unlock()
}

// Get returns the factory registered under name, or nil.
func Get(name string) ProviderFactory {
	reg.RLock()
	defer reg.RUnlock()
	return reg.factories[name]
}

// IsRegistered reports whether a factory exists for name.
func IsRegistered(name string) bool {
	return Get(name) != nil
}

// Create builds a provider by registered name. The error for an unknown
// name lists what is available.
func Create(name, apiKey string) (core.Provider, error) {
	factory := Get(name)
	if factory == nil {
		return nil, fmt.Errorf("unknown provider: %s (available: %v)", name, List())
	}
	return factory(apiKey), nil
}

// List returns the registered provider names in sorted order.
func List() []string {
	reg.RLock()
	names := make([]string, 0, len(reg.factories))
	for name := range reg.factories {
		names = append(names, name)
	}
	reg.RUnlock()

	sort.Strings(names)
	return names
}

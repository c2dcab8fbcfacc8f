package providers

import (
	"log"
	"sync"

	"ryujin/errs"
)

var (
	registryMu sync.RWMutex
	builtins   []Provider
	overrides  []Provider
)

// Register adds a built-in provider. Site packages call it from init, so the
// full catalog exists after importing the sites package.
func Register(p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	builtins = append(builtins, p)
}

// RegisterOverride adds an externally loaded provider. Overrides shadow any
// built-in provider that shares one of their domains.
func RegisterOverride(p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	overrides = append(overrides, p)
	log.Printf("[Registry] Registered external provider %s (%v)", p.Info().Name, p.Info().Domains)
}

// Reset clears the registry. Tests only.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	builtins = nil
	overrides = nil
}

// Active returns the effective provider list: every override, plus every
// built-in whose domains are not claimed by an override.
func Active() []Provider {
	registryMu.RLock()
	defer registryMu.RUnlock()

	claimed := make(map[string]bool)
	for _, p := range overrides {
		for _, domain := range p.Info().Domains {
			claimed[domain] = true
		}
	}

	active := make([]Provider, 0, len(overrides)+len(builtins))
	active = append(active, overrides...)

	for _, p := range builtins {
		shadowed := false
		for _, domain := range p.Info().Domains {
			if claimed[domain] {
				shadowed = true
				break
			}
		}
		if !shadowed {
			active = append(active, p)
		}
	}
	return active
}

// Find returns the active provider with the given name.
func Find(name string) (Provider, error) {
	for _, p := range Active() {
		if p.Info().Name == name {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

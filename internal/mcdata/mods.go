package mcdata

import "sync"

// builtinMods seeds the registry with namespaces common in shared
// schematics. Everything else falls back to the raw namespace until an
// archive scan or config override teaches us a better name.
var builtinMods = map[string]string{
	"create":               "Create",
	"railways":             "Create: Steam 'n' Rails",
	"copycats":             "Create: Copycats+",
	"ae2":                  "Applied Energistics 2",
	"botania":              "Botania",
	"mekanism":             "Mekanism",
	"thermal":              "Thermal Series",
	"immersiveengineering": "Immersive Engineering",
	"quark":                "Quark",
	"supplementaries":      "Supplementaries",
	"farmersdelight":       "Farmer's Delight",
	"chipped":              "Chipped",
	"framedblocks":         "FramedBlocks",
	"decorative_blocks":    "Decorative Blocks",
}

// ModRegistry resolves mod namespaces to display names. Reads and runtime
// extensions may race from different goroutines, so access is locked.
type ModRegistry struct {
	mu    sync.RWMutex
	names map[string]string
}

// Mods returns a registry seeded with the built-in names.
func Mods() *ModRegistry {
	names := make(map[string]string, len(builtinMods))
	for ns, display := range builtinMods {
		names[ns] = display
	}
	return &ModRegistry{names: names}
}

// Add registers or replaces the display name for a namespace. Empty
// arguments are ignored.
func (r *ModRegistry) Add(namespace, display string) {
	if namespace == "" || display == "" {
		return
	}
	r.mu.Lock()
	r.names[namespace] = display
	r.mu.Unlock()
}

// DisplayName resolves a namespace, falling back to the namespace itself so
// the resolver is total.
func (r *ModRegistry) DisplayName(namespace string) string {
	r.mu.RLock()
	display, ok := r.names[namespace]
	r.mu.RUnlock()
	if !ok {
		return namespace
	}
	return display
}

// Len reports the number of known namespaces.
func (r *ModRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Package prefs implements the layered preference storage used by plugins:
// a per-installation JSON file, a per-machine dynamic JSON file, and a
// namespaced blob inside a library's own preference table. All three expose
// the same Store contract and are selected at construction time.
package prefs

import (
	"fmt"
	"sort"
)

// Store is the preference facade. Writes commit durably on every Set and
// Delete unless made inside a Batch scope, which buffers them and flushes
// once on exit. Refresh re-synchronizes with the backing store, which can
// change for reasons outside this code's control (another process writing
// the file, the active library switching).
type Store interface {
	// Get returns the stored value for key, falling back to the defaults
	// layer. The second result is false only when neither has the key.
	Get(key string) (any, bool)
	Set(key string, value any) error
	Delete(key string) error
	// Keys returns the union of stored and default keys, sorted.
	Keys() []string
	Refresh() error
	// Batch runs fn with commits deferred, then flushes once.
	Batch(fn func(Store) error) error
}

// KeyError reports a preference key the stores refuse to accept.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("preference key %q: %s", e.Key, e.Reason)
}

func checkKey(key string) error {
	if key == "" {
		return &KeyError{Key: key, Reason: "must be a non-empty string"}
	}
	return nil
}

// lookup resolves key against data with the defaults layer underneath.
// A dict-valued default is merged under a dict-valued stored value, so
// plugins can add new sub-keys to structured defaults without migrations.
func lookup(data, defaults map[string]any, key string) (any, bool) {
	def, hasDef := defaults[key]
	val, ok := data[key]
	if !ok {
		return def, hasDef
	}
	defMap, defIsMap := def.(map[string]any)
	valMap, valIsMap := val.(map[string]any)
	if hasDef && defIsMap && valIsMap {
		merged := make(map[string]any, len(defMap)+len(valMap))
		for k, v := range defMap {
			merged[k] = v
		}
		for k, v := range valMap {
			merged[k] = v
		}
		return merged, true
	}
	return val, true
}

func unionKeys(data, defaults map[string]any) []string {
	seen := make(map[string]bool, len(data)+len(defaults))
	for k := range data {
		seen[k] = true
	}
	for k := range defaults {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

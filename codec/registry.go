package codec

import (
	"sort"
	"sync"
)

// Registry maps codec names and transfer syntax UIDs to codecs
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Codec
	byUID  map[string]Codec
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Codec),
		byUID:  make(map[string]Codec),
	}
}

var defaultRegistry = NewRegistry()

// Register registers a codec with the default registry
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a codec from the default registry by name or UID
func Get(nameOrUID string) (Codec, error) {
	return defaultRegistry.Get(nameOrUID)
}

// List returns the codecs of the default registry ordered by name
func List() []Codec {
	return defaultRegistry.List()
}

// Register registers a codec under both its name and UID, replacing any
// codec previously registered under either key
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[codec.Name()] = codec
	r.byUID[codec.UID()] = codec
}

// Get retrieves a codec by UID, then by name
func (r *Registry) Get(nameOrUID string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.byUID[nameOrUID]; ok {
		return c, nil
	}
	if c, ok := r.byName[nameOrUID]; ok {
		return c, nil
	}
	return nil, ErrCodecNotFound
}

// List returns all registered codecs ordered by name
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codecs := make([]Codec, 0, len(r.byName))
	for _, c := range r.byName {
		codecs = append(codecs, c)
	}
	sort.Slice(codecs, func(i, j int) bool { return codecs[i].Name() < codecs[j].Name() })
	return codecs
}

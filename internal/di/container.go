// Package di is a small service container with typed tokens. Factories are
// resolved lazily and the result is cached, so every service is a singleton
// for the lifetime of the container.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry resolves services by key.
type ServiceRegistry interface {
	Get(key string) any
}

// Container registers instances and factories.
type Container interface {
	ServiceRegistry
	Register(key string, value any)
	RegisterFactory(key string, factory func(ServiceRegistry) any)
	Has(key string) bool
}

type entry struct {
	once    sync.Once
	factory func(ServiceRegistry) any
	value   any
}

type container struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewContainer returns an empty container.
func NewContainer() Container {
	return &container{entries: make(map[string]*entry)}
}

func (c *container) Register(key string, value any) {
	e := &entry{value: value}
	e.once.Do(func() {})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
}

// RegisterFactory registers a factory. Factories must not depend on each
// other in a cycle.
func (c *container) RegisterFactory(key string, factory func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{factory: factory}
}

func (c *container) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Get panics on unknown keys: a missing registration is a wiring bug that
// must surface at startup.
func (c *container) Get(key string) any {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("di: service %q is not registered", key))
	}

	e.once.Do(func() {
		e.value = e.factory(c)
	})
	return e.value
}

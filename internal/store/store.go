// Package store implements the read-only persistence collaborator
// SPEC_FULL §6 describes: fetch-by-id lookups for tasks, fog nodes, and
// devices. The scheduling core never writes through it; it exists so
// the HTTP surface can resolve a request against previously registered
// fleet state instead of requiring every call to embed the whole fleet.
package store

import (
	"fmt"
	"sync"

	"fog-compute/internal/model"
)

// Store is the collaborator contract the core depends on.
type Store interface {
	Task(id string) (model.Task, bool)
	FogNode(id string) (model.FogNode, bool)
	Device(id string) (model.TerminalDevice, bool)
	AllFogNodes() []model.FogNode
	AllDevices() []model.TerminalDevice
}

// Memory is an in-process Store backed by maps, guarded by a RWMutex
// since registration (from the HTTP surface) and lookups (from
// scheduling calls) can happen concurrently.
type Memory struct {
	mu       sync.RWMutex
	tasks    map[string]model.Task
	fogNodes map[string]model.FogNode
	devices  map[string]model.TerminalDevice
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tasks:    map[string]model.Task{},
		fogNodes: map[string]model.FogNode{},
		devices:  map[string]model.TerminalDevice{},
	}
}

// RegisterFogNode upserts a fog node's advertised state. Not part of
// the read-only Store contract the core consumes; it is how the
// surrounding service populates the store in the first place.
func (m *Memory) RegisterFogNode(n model.FogNode) error {
	if n.ID == "" {
		return fmt.Errorf("fog node id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fogNodes[n.ID] = n
	return nil
}

// RegisterDevice upserts a terminal device's advertised state.
func (m *Memory) RegisterDevice(d model.TerminalDevice) error {
	if d.ID == "" {
		return fmt.Errorf("device id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[d.ID] = d
	return nil
}

// RegisterTask upserts a task.
func (m *Memory) RegisterTask(t model.Task) error {
	if t.ID == "" {
		return fmt.Errorf("task id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *Memory) Task(id string) (model.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	return t, ok
}

func (m *Memory) FogNode(id string) (model.FogNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.fogNodes[id]
	return n, ok
}

func (m *Memory) Device(id string) (model.TerminalDevice, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[id]
	return d, ok
}

func (m *Memory) AllFogNodes() []model.FogNode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.FogNode, 0, len(m.fogNodes))
	for _, n := range m.fogNodes {
		out = append(out, n)
	}
	return out
}

func (m *Memory) AllDevices() []model.TerminalDevice {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.TerminalDevice, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, d)
	}
	return out
}

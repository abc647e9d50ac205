package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/reclutador/staffing-api/internal/model"
)

// Memory is an in-process Storage for tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailOn makes Save fail for any path containing the substring.
	FailOn string
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, path string, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOn != "" && strings.Contains(path, m.FailOn) {
		return "", model.NewError("storage", model.ErrUpload)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[path] = buf

	return "memory://" + path, nil
}

func (m *Memory) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, path)
	return nil
}

// Paths returns the stored object paths, for assertions.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, 0, len(m.objects))
	for path := range m.objects {
		paths = append(paths, path)
	}
	return paths
}

func (m *Memory) Object(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[path]
	return data, ok
}

package store

import "fmt"

var _ Store = new(Memory)

// Memory is an in-memory Store, used where no repository is available.
type Memory struct {
	entries map[string]string
	// Err, when set, is returned from every operation.
	Err error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func memoryKey(scope Scope, key, field string) string {
	return fmt.Sprintf("%s.%s.%s", scope, key, field)
}

// Get returns the value of a field and whether it was present.
func (m *Memory) Get(scope Scope, key, field string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}

	value, ok := m.entries[memoryKey(scope, key, field)]
	return value, ok, nil
}

// Set creates or replaces the value of a field.
func (m *Memory) Set(scope Scope, key, field, value string) error {
	if m.Err != nil {
		return m.Err
	}

	m.entries[memoryKey(scope, key, field)] = value
	return nil
}

// Delete removes a field, reporting whether it existed.
func (m *Memory) Delete(scope Scope, key, field string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}

	k := memoryKey(scope, key, field)
	if _, ok := m.entries[k]; !ok {
		return false, nil
	}

	delete(m.entries, k)
	return true, nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	return len(m.entries)
}

// file: internal/database/mock_store.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package database

// MockStore is a simple mock implementation for testing services.
// Unset funcs behave like an empty store.
type MockStore struct {
	GetFunc    func(key string) (string, bool, error)
	SetFunc    func(key, value string) error
	DeleteFunc func(key string) error
	ListFunc   func(prefix string) ([]Entry, error)
	CloseFunc  func() error
}

func (m *MockStore) Get(key string) (string, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(key)
	}
	return "", false, nil
}

func (m *MockStore) Set(key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(key, value)
	}
	return nil
}

func (m *MockStore) Delete(key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(key)
	}
	return nil
}

func (m *MockStore) List(prefix string) ([]Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(prefix)
	}
	return nil, nil
}

func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

package mocks

import (
	"log"
	"net/http"
)

type MockHelper struct{}

func (m *MockHelper) NewEmailData() map[string]any {
	return map[string]any{
		"BaseURL": "http://localhost",
	}
}

// BackgroundTask runs fn synchronously so tests can assert on its effects
// without sleeping.
func (m *MockHelper) BackgroundTask(r *http.Request, fn func() error) {
	err := fn()
	if err != nil {
		log.Printf("Background task error: %v", err)
	}
}

package llm

import (
	"context"
	"fmt"
)

// MockLLM echoes a canned agronomy reply, useful for local runs and tests.
type MockLLM struct {
	// Err, when set, makes every Complete call fail. Lets tests exercise
	// the degraded-completion path.
	Err error
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Complete(_ context.Context, prompt string, _ float32) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return fmt.Sprintf(
		"Based on your land profile, a short rotation of wheat and pulses looks sensible. (mock reply, prompt was %d chars)",
		len(prompt),
	), nil
}

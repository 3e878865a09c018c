package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Sink is a mock implementation of dispatch.Sink
type Sink struct {
	mock.Mock
}

func (m *Sink) Dispatch(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

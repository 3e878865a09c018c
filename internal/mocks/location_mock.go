package mocks

import (
	"context"

	"github.com/benmeehan/hydrant-survey/pkg/location"
	"github.com/stretchr/testify/mock"
)

// LocationProvider is a mock implementation of location.Provider
type LocationProvider struct {
	mock.Mock
}

func (m *LocationProvider) GetLocation(ctx context.Context) (location.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).(location.Location), args.Error(1)
}

func (m *LocationProvider) Close() error {
	args := m.Called()
	return args.Error(0)
}

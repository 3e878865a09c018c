package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// BlobStore is a mock implementation of blobstore.BlobStore
type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *BlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

package mocks

import (
	"context"

	"edms/internal/directory"
	"github.com/stretchr/testify/mock"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) DepartmentByEmail(ctx context.Context, email string) (*directory.Department, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Department), args.Error(1)
}

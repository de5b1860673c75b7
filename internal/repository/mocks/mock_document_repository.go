package mocks

import (
	"context"

	"edms/internal/model"
	"edms/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Insert(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, f repository.ListFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) UpdateMetadata(ctx context.Context, id string, upd repository.MetadataUpdate, g repository.Guard) (int64, error) {
	args := m.Called(ctx, id, upd, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) UpdateAttachments(ctx context.Context, id string, atts []model.Attachment, g repository.Guard) (int64, error) {
	args := m.Called(ctx, id, atts, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) SoftDelete(ctx context.Context, id string, g repository.Guard) (int64, error) {
	args := m.Called(ctx, id, g)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Purge(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

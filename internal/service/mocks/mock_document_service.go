package mocks

import (
	"context"

	"edms/internal/model"
	"edms/internal/policy"
	"edms/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, cmd service.CreateDocumentCommand, files []service.FileUpload) (*model.Document, error) {
	args := m.Called(ctx, cmd, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, req policy.Requester, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, req, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) ListAll(ctx context.Context, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string, req policy.Requester) (*model.Document, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) UpdateMetadata(ctx context.Context, id string, cmd service.UpdateDocumentCommand, actor service.Actor) error {
	args := m.Called(ctx, id, cmd, actor)
	return args.Error(0)
}

func (m *MockDocumentService) UpdateAttachments(ctx context.Context, id string, keep []model.Attachment, files []service.FileUpload, actor service.Actor) (*model.Document, error) {
	args := m.Called(ctx, id, keep, files, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) SoftDelete(ctx context.Context, id string, actor service.Actor) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

func (m *MockDocumentService) Purge(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

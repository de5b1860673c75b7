package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edms/internal/directory"
	directoryMocks "edms/internal/directory/mocks"
	"edms/internal/http/middleware"
	"edms/internal/model"
	"edms/internal/policy"
	"edms/internal/service"
	serviceMocks "edms/internal/service/mocks"
)

// identified simulates a request that already passed the gateway.
func identified(email string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.VerifiedEmailLocalKey, email)
		return c.Next()
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range fileNames {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, "content of "+name)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	mockDir := new(directoryMocks.MockDirectory)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc, mockDir))

	t.Run("anonymous request lists with empty requester", func(t *testing.T) {
		expected := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), Title: "handbook"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, policy.Requester{}, 50, 0).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("self-declared email enriched with department", func(t *testing.T) {
		mockDir.On("DepartmentByEmail", mock.Anything, "jdoe@example.com").
			Return(&directory.Department{Email: "jdoe@example.com", Name: "finance"}, nil).Once()
		mockSvc.On("List", mock.Anything, policy.Requester{Email: "jdoe@example.com", Department: "finance"}, 10, 5).
			Return(&service.DocumentListResult{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?limit=10&offset=5&email=jdoe%40example.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
		mockDir.AssertExpectations(t)
	})

	t.Run("directory failure degrades to email-only requester", func(t *testing.T) {
		mockDir.On("DepartmentByEmail", mock.Anything, "jdoe@example.com").
			Return(nil, directory.ErrEmployeeNotFound).Once()
		mockSvc.On("List", mock.Anything, policy.Requester{Email: "jdoe@example.com"}, 50, 0).
			Return(&service.DocumentListResult{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?email=jdoe%40example.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit stops the handler", func(t *testing.T) {
		freshSvc := new(serviceMocks.MockDocumentService)
		freshApp := fiber.New()
		freshApp.Get("/documents", ListDocuments(freshSvc, nil))

		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := freshApp.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
		freshSvc.AssertNotCalled(t, "List")
	})

	t.Run("invalid offset stops the handler", func(t *testing.T) {
		freshSvc := new(serviceMocks.MockDocumentService)
		freshApp := fiber.New()
		freshApp.Get("/documents", ListDocuments(freshSvc, nil))

		req := httptest.NewRequest(http.MethodGet, "/documents?offset=-x", nil)
		resp, _ := freshApp.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_OFFSET", decodeError(t, resp).Error.Code)
		freshSvc.AssertNotCalled(t, "List")
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, policy.Requester{}, 50, 0).
			Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUploadDocument(t *testing.T) {
	newApp := func(svc service.DocumentService, email string) *fiber.App {
		app := fiber.New()
		app.Post("/documents", identified(email), UploadDocument(svc))
		return app
	}

	fields := map[string]string{
		"title":        "q3 report",
		"department":   "finance",
		"access_level": "team",
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc, "owner@example.com")

		expected := &model.Document{ID: uuid.New().String(), Title: "q3 report"}
		mockSvc.On("Upload", mock.Anything,
			mock.MatchedBy(func(cmd service.CreateDocumentCommand) bool {
				return cmd.Title == "q3 report" &&
					cmd.Department == "finance" &&
					cmd.OwnerEmail == "owner@example.com" &&
					cmd.AccessLevel == model.AccessTeam &&
					!cmd.CreatedAt.IsZero()
			}),
			mock.MatchedBy(func(files []service.FileUpload) bool {
				return len(files) == 2 && files[0].Name == "a.pdf" && files[1].Name == "b.txt"
			}),
		).Return(expected, nil).Once()

		body, ct := multipartBody(t, fields, "a.pdf", "b.txt")
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("access level defaults to private", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc, "owner@example.com")

		mockSvc.On("Upload", mock.Anything,
			mock.MatchedBy(func(cmd service.CreateDocumentCommand) bool {
				return cmd.AccessLevel == model.AccessPrivate
			}),
			mock.Anything,
		).Return(&model.Document{}, nil).Once()

		body, ct := multipartBody(t, map[string]string{"title": "t", "department": "d"}, "a.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("portal field aliases accepted", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc, "owner@example.com")

		mockSvc.On("Upload", mock.Anything,
			mock.MatchedBy(func(cmd service.CreateDocumentCommand) bool {
				return cmd.AccessLevel == model.AccessPublic &&
					cmd.CreatedAt.Equal(time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC))
			}),
			mock.Anything,
		).Return(&model.Document{}, nil).Once()

		legacy := map[string]string{
			"title":      "t",
			"department": "d",
			"shareTo":    "public",
			"createdAt":  "2025-11-18",
		}
		body, ct := multipartBody(t, legacy, "a.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no verified identity", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Post("/documents", UploadDocument(mockSvc))

		body, ct := multipartBody(t, fields, "a.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "Upload")
	})

	t.Run("no files", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc, "owner@example.com")

		body, ct := multipartBody(t, fields)
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("missing title rejected before storage", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc, "owner@example.com")

		body, ct := multipartBody(t, map[string]string{"department": "d"}, "a.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
		mockSvc.AssertNotCalled(t, "Upload")
	})

	t.Run("unparseable created_at", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc, "owner@example.com")

		withDate := map[string]string{"title": "t", "department": "d", "created_at": "yesterday"}
		body, ct := multipartBody(t, withDate, "a.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_CREATED_AT", decodeError(t, resp).Error.Code)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc, nil))

	t.Run("found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id, policy.Requester{}).
			Return(&model.Document{ID: id, Title: "handbook"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id, policy.Requester{}).
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id stops the handler", func(t *testing.T) {
		freshSvc := new(serviceMocks.MockDocumentService)
		freshApp := fiber.New()
		freshApp.Get("/documents/:id", GetDocument(freshSvc, nil))

		req := httptest.NewRequest(http.MethodGet, "/documents/not-a-uuid", nil)
		resp, _ := freshApp.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
		freshSvc.AssertNotCalled(t, "Get")
	})
}

func TestUpdateDocument(t *testing.T) {
	newApp := func(svc service.DocumentService) *fiber.App {
		app := fiber.New()
		app.Put("/documents/:id", identified("owner@example.com"), UpdateDocument(svc))
		return app
	}
	payload := `{"title":"new title","department":"finance","access_level":"public"}`

	t.Run("owner update", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		level := model.AccessPublic
		mockSvc.On("UpdateMetadata", mock.Anything, id,
			service.UpdateDocumentCommand{Title: "new title", Department: "finance", AccessLevel: &level},
			service.Actor{Email: "owner@example.com"},
		).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id, bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("UpdateMetadata", mock.Anything, id, mock.Anything, mock.Anything).
			Return(service.ErrForbidden).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id, bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)

		req := httptest.NewRequest(http.MethodPut, "/documents/"+uuid.New().String(), bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "UpdateMetadata")
	})

	t.Run("admin variant bypasses ownership", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Put("/admin/documents/:id", AdminUpdateDocument(mockSvc))
		id := uuid.New().String()

		mockSvc.On("UpdateMetadata", mock.Anything, id, mock.Anything, service.Actor{Admin: true}).
			Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/admin/documents/"+id, bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateAttachments(t *testing.T) {
	newApp := func(svc service.DocumentService) *fiber.App {
		app := fiber.New()
		app.Post("/documents/:id/files", identified("owner@example.com"), UpdateAttachments(svc))
		return app
	}

	t.Run("keep list plus new files", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		keep := []model.Attachment{{Name: "old.pdf", URL: "http://store/old.pdf"}}
		mockSvc.On("UpdateAttachments", mock.Anything, id, keep,
			mock.MatchedBy(func(files []service.FileUpload) bool {
				return len(files) == 1 && files[0].Name == "new.pdf"
			}),
			service.Actor{Email: "owner@example.com"},
		).Return(&model.Document{ID: id}, nil).Once()

		body, ct := multipartBody(t, map[string]string{
			"existingNames": `["old.pdf"]`,
			"existingUrls":  `["http://store/old.pdf"]`,
		}, "new.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/files", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("request without a multipart form is rejected", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/files", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_FORM", decodeError(t, resp).Error.Code)
		mockSvc.AssertNotCalled(t, "UpdateAttachments")
	})

	t.Run("malformed keep list degrades to empty", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := newApp(mockSvc)
		id := uuid.New().String()

		mockSvc.On("UpdateAttachments", mock.Anything, id, []model.Attachment(nil),
			mock.Anything, service.Actor{Email: "owner@example.com"},
		).Return(&model.Document{ID: id}, nil).Once()

		body, ct := multipartBody(t, map[string]string{
			"existingNames": `not json`,
			"existingUrls":  `["http://store/old.pdf"]`,
		}, "new.pdf")
		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/files", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	t.Run("owner soft delete", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Delete("/documents/:id", identified("owner@example.com"), DeleteDocument(mockSvc))
		id := uuid.New().String()

		mockSvc.On("SoftDelete", mock.Anything, id, service.Actor{Email: "owner@example.com"}).
			Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("already deleted reads as not found", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockDocumentService)
		app := fiber.New()
		app.Delete("/documents/:id", identified("owner@example.com"), DeleteDocument(mockSvc))
		id := uuid.New().String()

		mockSvc.On("SoftDelete", mock.Anything, id, mock.Anything).
			Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAdminListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/admin/documents", AdminListDocuments(mockSvc))

	mockSvc.On("ListAll", mock.Anything, 50, 0).
		Return(&service.DocumentListResult{Total: 3}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/admin/documents", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestPurgeDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Post("/admin/documents/:id/purge", PurgeDocument(mockSvc))

	t.Run("purges trashed document", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Purge", mock.Anything, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/admin/documents/"+id+"/purge", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("active document rejected", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Purge", mock.Anything, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/admin/documents/"+id+"/purge", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestOpenAPISpecServedFromBinary(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	RegisterRoutes(app, db, new(serviceMocks.MockDocumentService), nil, "")

	// The spec is embedded, so it must be served no matter what the
	// process working directory is.
	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "openapi:")

	reqDocs := httptest.NewRequest(http.MethodGet, "/docs", nil)
	respDocs, _ := app.Test(reqDocs)
	assert.Equal(t, http.StatusOK, respDocs.StatusCode)
}

func TestDepartmentLookup(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mockDir := new(directoryMocks.MockDirectory)
		app := fiber.New()
		app.Get("/hr/department", DepartmentLookup(mockDir))

		mockDir.On("DepartmentByEmail", mock.Anything, "jdoe@example.com").
			Return(&directory.Department{Email: "jdoe@example.com", Name: "finance"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/hr/department?email=jdoe%40example.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var dep directory.Department
		json.NewDecoder(resp.Body).Decode(&dep)
		assert.Equal(t, "finance", dep.Name)
		mockDir.AssertExpectations(t)
	})

	t.Run("unknown employee", func(t *testing.T) {
		mockDir := new(directoryMocks.MockDirectory)
		app := fiber.New()
		app.Get("/hr/department", DepartmentLookup(mockDir))

		mockDir.On("DepartmentByEmail", mock.Anything, "ghost@example.com").
			Return(nil, directory.ErrEmployeeNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/hr/department?email=ghost%40example.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing email", func(t *testing.T) {
		app := fiber.New()
		app.Get("/hr/department", DepartmentLookup(new(directoryMocks.MockDirectory)))

		req := httptest.NewRequest(http.MethodGet, "/hr/department", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("no directory configured", func(t *testing.T) {
		app := fiber.New()
		app.Get("/hr/department", DepartmentLookup(nil))

		req := httptest.NewRequest(http.MethodGet, "/hr/department?email=a%40b.c", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

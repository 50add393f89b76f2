package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"securedoc/internal/auth"
	"securedoc/internal/http/middleware"
	"securedoc/internal/model"
	"securedoc/internal/service"
	serviceMocks "securedoc/internal/service/mocks"
	"securedoc/internal/viewer"
)

type mockPresenter struct {
	mock.Mock
}

func (m *mockPresenter) Present(ctx context.Context, v *service.Validation) (*viewer.View, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*viewer.View), args.Error(1)
}

type stubAuth struct {
	op  model.Operator
	err error
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (model.Operator, error) {
	if token == "" {
		return model.Operator{}, auth.ErrUnauthenticated
	}
	return s.op, s.err
}

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func readBody(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func sampleValidation() *service.Validation {
	return &service.Validation{
		GrantID:         "g1",
		AuthorizedEmail: "x@y.com",
		Document:        model.Document{ID: "D1", Title: "Playbook", StorageKey: "op-1/d1.pdf"},
	}
}

func sampleView() *viewer.View {
	return &viewer.View{
		Title:     "Playbook",
		Email:     "x@y.com",
		PublicURL: "https://proj.example.co/storage/v1/object/public/secure-books/op-1/d1.pdf",
		EmbedURL:  "https://docs.google.com/viewer?url=https%3A%2F%2Fproj.example.co&embedded=true",
		Watermark: "Confidential · x@y.com",
	}
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
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestShowGate(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		token      string
		err        error
		wantStatus int
		wantText   string
	}{
		{name: "valid token shows the form", path: "/secure-document/T1", token: "T1", wantStatus: http.StatusOK, wantText: `name="email"`},
		{name: "missing token", path: "/secure-document", token: "", err: service.ErrTokenMissing, wantStatus: http.StatusBadRequest, wantText: "Missing link"},
		{name: "unknown token", path: "/secure-document/T3", token: "T3", err: service.ErrTokenNotFound, wantStatus: http.StatusNotFound, wantText: "Invalid link"},
		{name: "deactivated", path: "/secure-document/T5", token: "T5", err: service.ErrAccessDeactivated, wantStatus: http.StatusForbidden, wantText: "Access deactivated"},
		{name: "expired", path: "/secure-document/T2", token: "T2", err: service.ErrAccessExpired, wantStatus: http.StatusGone, wantText: "Access expired"},
		{name: "document deleted", path: "/secure-document/T4", token: "T4", err: service.ErrDocumentUnavailable, wantStatus: http.StatusNotFound, wantText: "no longer available"},
		{name: "store failure", path: "/secure-document/T6", token: "T6", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantText: "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := new(serviceMocks.MockAccessService)
			if tt.err != nil {
				access.On("Validate", mock.Anything, tt.token).Return(nil, tt.err).Once()
			} else {
				access.On("Validate", mock.Anything, tt.token).Return(sampleValidation(), nil).Once()
			}
			app := fiber.New()
			app.Get("/secure-document/:token?", ShowGate(access))

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
			body := readBody(t, resp.Body)
			assert.Contains(t, body, tt.wantText)
			assert.NotContains(t, body, "Playbook", "nothing about the document before the gate")
			assert.NotContains(t, body, "db down")
			access.AssertExpectations(t)
		})
	}
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubmitGate(t *testing.T) {
	newApp := func(access service.AccessService, p Presenter) *fiber.App {
		app := fiber.New()
		app.Post("/secure-document/:token?", SubmitGate(access, p))
		return app
	}

	t.Run("matching email renders the viewer", func(t *testing.T) {
		access := new(serviceMocks.MockAccessService)
		access.On("Verify", mock.Anything, "T1", "X@Y.com").Return(sampleValidation(), nil).Once()
		p := new(mockPresenter)
		p.On("Present", mock.Anything, mock.Anything).Return(sampleView(), nil).Once()

		resp, _ := newApp(access, p).Test(postForm("/secure-document/T1", url.Values{"email": {" X@Y.com "}}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body := readBody(t, resp.Body)
		assert.Contains(t, body, `<iframe id="doc-frame"`)
		assert.Contains(t, body, "embedded=true")
		assert.Contains(t, body, "Protected document, view only")
		assert.Contains(t, body, "x@y.com")
		assert.Contains(t, body, "pagehide")
		assert.Contains(t, body, "MutationObserver")
		assert.Contains(t, body, "contextmenu")
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		p.AssertExpectations(t)
	})

	t.Run("mismatched email re-shows the gate", func(t *testing.T) {
		access := new(serviceMocks.MockAccessService)
		access.On("Verify", mock.Anything, "T1", "a@b.co").Return(nil, service.ErrEmailMismatch).Once()
		p := new(mockPresenter)

		resp, _ := newApp(access, p).Test(postForm("/secure-document/T1", url.Values{"email": {"a@b.co"}}))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		body := readBody(t, resp.Body)
		assert.Contains(t, body, `name="email"`)
		assert.Contains(t, body, "does not match")
		assert.NotContains(t, body, "iframe")
		p.AssertNotCalled(t, "Present", mock.Anything, mock.Anything)
		// The gate decision is one service call, so one outcome is recorded.
		access.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
		access.AssertExpectations(t)
	})

	t.Run("expired token never reaches the gate", func(t *testing.T) {
		access := new(serviceMocks.MockAccessService)
		access.On("Verify", mock.Anything, "T2", "x@y.com").Return(nil, service.ErrAccessExpired).Once()
		p := new(mockPresenter)

		resp, _ := newApp(access, p).Test(postForm("/secure-document/T2", url.Values{"email": {"x@y.com"}}))

		assert.Equal(t, http.StatusGone, resp.StatusCode)
		p.AssertNotCalled(t, "Present", mock.Anything, mock.Anything)
	})

	t.Run("viewer load failure", func(t *testing.T) {
		access := new(serviceMocks.MockAccessService)
		access.On("Verify", mock.Anything, "T1", "x@y.com").Return(sampleValidation(), nil).Once()
		p := new(mockPresenter)
		p.On("Present", mock.Anything, mock.Anything).
			Return(nil, errors.Join(service.ErrViewerLoadFailure, errors.New("document answered 404"))).Once()

		resp, _ := newApp(access, p).Test(postForm("/secure-document/T1", url.Values{"email": {"x@y.com"}}))

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		body := readBody(t, resp.Body)
		assert.Contains(t, body, "Failed to load document")
		assert.Contains(t, body, "Reload the page")
		assert.NotContains(t, body, "answered 404")
	})
}

func TestAccessStatus(t *testing.T) {
	access := new(serviceMocks.MockAccessService)
	access.On("Validate", mock.Anything, "T1").Return(sampleValidation(), nil).Once()
	access.On("Validate", mock.Anything, "T2").Return(nil, service.ErrAccessExpired).Once()
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/api/access/:token", AccessStatus(access))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/access/T1", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp.Body)
	assert.Contains(t, body, "email_required")
	assert.NotContains(t, body, "Playbook")

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/api/access/T2", nil))
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	res := decodeError(t, resp.Body)
	assert.Equal(t, "ACCESS_EXPIRED", res.Error.Code)
	assert.NotEmpty(t, res.RequestID)
}

func TestVerifyAccess(t *testing.T) {
	access := new(serviceMocks.MockAccessService)
	p := new(mockPresenter)
	app := fiber.New()
	app.Post("/api/access/:token/verify", VerifyAccess(access, p))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/access/T1/verify", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		access.On("Verify", mock.Anything, "T1", "x@y.com").Return(sampleValidation(), nil).Once()
		p.On("Present", mock.Anything, mock.Anything).Return(sampleView(), nil).Once()

		resp := post(`{"email":"x@y.com"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var view viewer.View
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, "Playbook", view.Title)
		assert.Contains(t, view.EmbedURL, "embedded=true")
	})

	t.Run("email mismatch", func(t *testing.T) {
		access.On("Verify", mock.Anything, "T1", "a@b.co").Return(nil, service.ErrEmailMismatch).Once()

		resp := post(`{"email":"a@b.co"}`)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "EMAIL_MISMATCH", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := post(`{`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	access.AssertExpectations(t)
	p.AssertExpectations(t)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), Title: "Playbook"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func multipartUpload(t *testing.T, title, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if title != "" {
		require.NoError(t, writer.WriteField("title", title))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		part.Write(content)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	operator := model.Operator{Subject: "op-1", Email: "ops@example.com"}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.OperatorLocalKey, operator)
		return c.Next()
	})
	app.Post("/documents", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartUpload(t, "Playbook", "playbook.pdf", []byte("%PDF-1.4 test"))

		expectedDoc := &model.Document{ID: uuid.New().String(), Title: "Playbook"}
		mockSvc.On("Upload", mock.Anything, operator, mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Title == "Playbook" && in.OriginalFilename == "playbook.pdf" && in.Size == 13
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	errCases := []struct {
		name     string
		err      error
		status   int
		code     string
		redacted string
	}{
		{"not a pdf", service.ErrUnsupportedType, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", ""},
		{"too large", service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", ""},
		{"missing title", service.ErrTitleRequired, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"saga failure", errors.Join(service.ErrUploadFailure, errors.New("db save failed: pq timeout")), http.StatusInternalServerError, "UPLOAD_FAILURE", "pq timeout"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := multipartUpload(t, "Playbook", "x.pdf", []byte("data"))
			mockSvc.On("Upload", mock.Anything, operator, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/documents", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, tc.status, resp.StatusCode)
			raw := readBody(t, resp.Body)
			assert.Contains(t, raw, tc.code)
			if tc.redacted != "" {
				assert.NotContains(t, raw, tc.redacted)
			}
		})
	}
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(&model.Document{ID: id, Title: "Playbook"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, errors.New("db error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Patch("/documents/:id", UpdateDocument(mockSvc))
	id := uuid.New().String()

	mockSvc.On("UpdateTitle", mock.Anything, id, "Renamed").Return(&model.Document{ID: id, Title: "Renamed"}, nil).Once()
	req := httptest.NewRequest(http.MethodPatch, "/documents/"+id, strings.NewReader(`{"title":"Renamed"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mockSvc.On("UpdateTitle", mock.Anything, id, "").Return(nil, service.ErrTitleRequired).Once()
	req = httptest.NewRequest(http.MethodPatch, "/documents/"+id, strings.NewReader(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ = app.Test(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp.Body).Error.Code)

	mockSvc.AssertExpectations(t)
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(errors.New("delete error")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGrantHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockGrantService)
	app := fiber.New()
	app.Post("/grants", CreateGrant(mockSvc))
	app.Get("/grants", ListGrants(mockSvc))
	app.Patch("/grants/:id", UpdateGrant(mockSvc))
	app.Post("/grants/:id/toggle", ToggleGrant(mockSvc))
	app.Delete("/grants/:id", DeleteGrant(mockSvc))
	id := uuid.New().String()

	jsonReq := func(method, path, body string) *http.Request {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("create", func(t *testing.T) {
		in := service.CreateGrantInput{Email: "x@y.com", DocumentID: "D1", ExpiresAt: "2026-12-31"}
		mockSvc.On("Create", mock.Anything, in).Return(&model.AccessGrant{ID: id, Token: "tok", Email: "x@y.com", IsActive: true}, nil).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/grants", `{"email":"x@y.com","document_id":"D1","expires_at":"2026-12-31"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var g model.AccessGrant
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
		assert.Equal(t, "tok", g.Token)
	})

	t.Run("create with past expiry", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrExpiryInPast).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/grants", `{"email":"x@y.com","document_id":"D1","expires_at":"2020-01-01"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 50, 0).Return(&service.GrantListResult{Items: []model.AccessGrant{{ID: id}}, Total: 1}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/grants", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		email := "z@y.com"
		mockSvc.On("Update", mock.Anything, id, service.UpdateGrantInput{Email: &email}).Return(&model.AccessGrant{ID: id, Email: email}, nil).Once()

		resp, _ := app.Test(jsonReq(http.MethodPatch, "/grants/"+id, `{"email":"z@y.com"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("toggle unknown", func(t *testing.T) {
		mockSvc.On("ToggleActive", mock.Anything, id).Return(nil, service.ErrGrantNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/grants/"+id+"/toggle", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete without confirmation", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, id, "").Return(service.ErrConfirmationRequired).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/grants/"+id, nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFIRMATION_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("delete confirmed", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, id, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/grants/"+id+"?confirm="+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/grants/T1/toggle", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestCatalogHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockCatalogService)
	app := fiber.New()
	app.Get("/services", ListServices(mockSvc))
	app.Get("/products", ListProducts(mockSvc))

	mockSvc.On("Services", mock.Anything).Return([]model.Service{{ID: "s-1", Title: "Strategy"}}, nil).Once()
	mockSvc.On("Products", mock.Anything).Return(nil, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/services", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp.Body), "Strategy")

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[]}`, readBody(t, resp.Body))

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(nil),
	})

	RegisterRoutes(app, Deps{
		Access:    new(serviceMocks.MockAccessService),
		Grants:    new(serviceMocks.MockGrantService),
		Documents: new(serviceMocks.MockDocumentService),
		Catalog:   new(serviceMocks.MockCatalogService),
		Presenter: new(mockPresenter),
		Auth:      stubAuth{err: auth.ErrForbidden},
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("admin without token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/admin/grants", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("admin without operator role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/documents", nil)
		req.Header.Set("Authorization", "Bearer visitor-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body).Error.Code)
	})
}

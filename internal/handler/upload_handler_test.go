package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUploadService struct {
	mock.Mock
}

func (m *mockUploadService) Upload(ctx context.Context, userID uuid.UUID, files []*multipart.FileHeader) ([]string, error) {
	args := m.Called(ctx, userID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestUpload_CollectsBothFields(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range []struct{ field, name string }{
		{"files", "a.png"}, {"files", "b.png"}, {"file", "c.png"},
	} {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte("data"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	uploads := new(mockUploadService)
	uploads.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(files []*multipart.FileHeader) bool {
		if len(files) != 3 {
			return false
		}
		return files[0].Filename == "a.png" && files[1].Filename == "b.png" && files[2].Filename == "c.png"
	})).Return([]string{"u1", "u2", "u3"}, nil)

	require.NoError(t, NewUploadHandler(uploads).Upload(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"urls":["u1","u2","u3"]}`, rec.Body.String())
	uploads.AssertExpectations(t)

	form := c.Request().MultipartForm
	require.NotNil(t, form)
	assert.Len(t, form.File["files"], 2)
	assert.Len(t, form.File["file"], 1)
}

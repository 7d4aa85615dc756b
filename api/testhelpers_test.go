package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"accounthub/user-api/model"
	"accounthub/user-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memBlobStore is the in-memory stand-in for the S3 store used by
// handler tests
type memBlobStore struct {
	mu    sync.Mutex
	blobs map[string]memBlob
}

type memBlob struct {
	data        []byte
	contentType string
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string]memBlob{}}
}

func (m *memBlobStore) Upload(_ context.Context, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	name := storage.MakeFilename()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[name] = memBlob{data: data, contentType: contentType}
	return name, nil
}

func (m *memBlobStore) Open(_ context.Context, filename string) (*storage.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blobs[filename]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &storage.Blob{
		Body:        io.NopCloser(bytes.NewReader(b.data)),
		ContentType: b.contentType,
		Length:      int64(len(b.data)),
	}, nil
}

func (m *memBlobStore) Delete(_ context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[filename]; !ok {
		return storage.ErrNotFound
	}

	delete(m.blobs, filename)
	return nil
}

func (m *memBlobStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.blobs)
}

func newTestAPI(t *testing.T) (*API, *memBlobStore) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("app.log_level", "error")
	viper.Set("jwt.secret", "test-secret")
	viper.Set("upload.max_size", int64(8<<20))

	// One named in-memory database per test, shared across the pool's
	// connections but invisible to other tests
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	db, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.SessionToken{}))

	blobs := newMemBlobStore()

	a, err := NewRouter(db, blobs)
	require.NoError(t, err)

	return a, blobs
}

func doJSON(t *testing.T, a *API, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser registers a fresh account and returns its ID and the
// session token the registration opened
func registerUser(t *testing.T, a *API, email string) (userID, token string) {
	t.Helper()

	w := doJSON(t, a, http.MethodPost, "/api/user", "", gin.H{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      email,
		"password":   "hunter22hunter22",
		"age":        30,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := parseBody(t, w)
	user := body["user"].(map[string]any)

	return user["id"].(string), body["token"].(string)
}

// makeAvatarForm builds a single-file multipart body under the avatars
// field with an explicit part content type
func makeAvatarForm(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatars"; filename="avatar.bin"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf, w.FormDataContentType()
}

func uploadAvatar(t *testing.T, a *API, token, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	buf, formType := makeAvatarForm(t, contentType, data)

	req := httptest.NewRequest(http.MethodPatch, "/api/user/avatar", buf)
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

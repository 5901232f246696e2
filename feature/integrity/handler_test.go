package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"openapi-sync/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore.json"), []byte(`{"specDiff": {}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"specDiff": [`), 0o644))

	svc := NewService(mockClient, "test-bucket", "", zap.NewNop(), db, dir)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient, sqlMock
}

func decode(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestHandleStructureCheck(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	code, body := decode(t, app, "/integrity/structure")
	assert.Equal(t, 200, code)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])
}

func TestHandleStructureCheck_FixCreatesBucket(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)
	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	code, body := decode(t, app, "/integrity/structure?fix=true")
	assert.Equal(t, 200, code)
	assert.Equal(t, "fixed", body["status"])
	mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "test-bucket", mock.Anything)
}

func TestHandleStructureCheck_MissingBucket(t *testing.T) {
	app, mockClient, _ := setupTestApp(t)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

	code, body := decode(t, app, "/integrity/structure")
	assert.Equal(t, 500, code)
	assert.Contains(t, body["error"], "bucket does not exist")
}

func TestHandleSourceCheck(t *testing.T) {
	app, _, _ := setupTestApp(t)

	code, body := decode(t, app, "/integrity/sources")
	require.Equal(t, 200, code)
	assert.Equal(t, []any{"petstore"}, body["collections"])
	assert.Contains(t, body["invalid"], "broken.json")
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _, sqlMock := setupTestApp(t)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_decisions`").WillReturnRows(decisionColumns())

	code, body := decode(t, app, "/integrity/schema")
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["matched"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, mockClient, sqlMock := setupTestApp(t)

	// Fail fast on storage and database; the combined report still succeeds.
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)
	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	code, body := decode(t, app, "/integrity")
	require.Equal(t, 200, code)

	structure := body["structure"].(map[string]any)
	assert.Equal(t, "error", structure["status"])

	schema := body["schema"].(map[string]any)
	assert.Equal(t, false, schema["matched"])

	sources := body["sources"].(map[string]any)
	assert.Equal(t, []any{"petstore"}, sources["collections"])
}

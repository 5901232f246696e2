package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"openapi-sync/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func decisionColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("collection", "varchar(191)", "NO", "MUL", nil, "").
		AddRow("endpoint_id", "varchar(512)", "NO", "", nil, "").
		AddRow("decision", "varchar(32)", "NO", "", nil, "").
		AddRow("updated_at", "datetime(3)", "YES", "", nil, "")
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	logger := zap.NewNop()
	svc := NewService(mockClient, "test-bucket", "", logger, nil, "")

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		// checks.CheckStructure calls ListObjects for each required folder
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(nil)

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"decisions", "plans"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "plans/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"plans"})
		assert.NoError(t, err)
	})
}

func TestService_NoStorage(t *testing.T) {
	svc := NewService(nil, "test-bucket", "", zap.NewNop(), nil, "")

	_, err := svc.CheckStructure(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.FixStructure(context.Background(), nil))
}

func TestService_Sources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "petstore.json"), []byte(`{}`), 0o644))

	svc := NewService(nil, "", "", zap.NewNop(), nil, dir)
	report, err := svc.CheckSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"petstore"}, report.Collections)

	_, err = NewService(nil, "", "", zap.NewNop(), nil, "").CheckSources()
	assert.Error(t, err)
}

func TestService_Schema(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(nil, "", "", zap.NewNop(), db, "")

	sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_decisions`").WillReturnRows(decisionColumns())

	report, err := svc.CheckSchema()
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report.Tables)
	assert.Equal(t, "ok", report.Tables["sync_decisions"].Status)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_SchemaWithoutDatabase(t *testing.T) {
	svc := NewService(nil, "", "", zap.NewNop(), nil, "")

	_, err := svc.CheckSchema()
	assert.Error(t, err)
	assert.Error(t, svc.FixSchema())
}

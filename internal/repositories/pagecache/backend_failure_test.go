package pagecache_test

import (
	"context"
	stderrors "errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/repositories/pagecache"
)

func TestSQLRepository_Failures(t *testing.T) {
	ctx := context.Background()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo, err := pagecache.NewSQL(ctx, &pagecache.SQLConfig{DB: db, SkipMigrate: true})
	require.NoError(t, err)

	selectQuery := regexp.QuoteMeta("SELECT payload, fetched_at, updateable FROM page_cache WHERE page_id = ?")
	insertQuery := regexp.QuoteMeta("INSERT INTO page_cache")

	t.Run("get reports not found", func(t *testing.T) {
		sqlMock.ExpectQuery(selectQuery).WithArgs("suomi").
			WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at", "updateable"}))

		_, err := repo.Get(ctx, pagecache.GetInput{PageID: "Suomi"})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("get decodes row", func(t *testing.T) {
		sqlMock.ExpectQuery(selectQuery).WithArgs("suomi").
			WillReturnRows(sqlmock.NewRows([]string{"payload", "fetched_at", "updateable"}).
				AddRow([]byte(`{"parse":{}}`), "2024-12-01T08:30:00Z", false))

		out, err := repo.Get(ctx, pagecache.GetInput{PageID: "suomi"})
		require.NoError(t, err)
		assert.False(t, out.Entry.Updateable)
		assert.Equal(t, time.Date(2024, 12, 1, 8, 30, 0, 0, time.UTC), out.Entry.FetchedAt)
	})

	t.Run("get storage error is internal", func(t *testing.T) {
		sqlMock.ExpectQuery(selectQuery).WillReturnError(stderrors.New("disk I/O error"))

		_, err := repo.Get(ctx, pagecache.GetInput{PageID: "suomi"})
		require.Error(t, err)
		assert.True(t, errors.IsInternal(err))
	})

	t.Run("put upserts", func(t *testing.T) {
		fetched := time.Date(2024, 12, 1, 8, 30, 0, 0, time.UTC)
		sqlMock.ExpectExec(insertQuery).
			WithArgs("suomi", []byte(`{}`), fetched.Format(time.RFC3339Nano), true).
			WillReturnResult(sqlmock.NewResult(1, 1))

		_, err := repo.Put(ctx, pagecache.PutInput{Entry: &pagecache.Entry{
			PageID: "Suomi", Payload: []byte(`{}`), FetchedAt: fetched, Updateable: true,
		}})
		require.NoError(t, err)
	})

	t.Run("put storage error is internal", func(t *testing.T) {
		sqlMock.ExpectExec(insertQuery).WillReturnError(stderrors.New("database is locked"))

		_, err := repo.Put(ctx, pagecache.PutInput{Entry: &pagecache.Entry{
			PageID: "suomi", Payload: []byte(`{}`), FetchedAt: time.Now(),
		}})
		require.Error(t, err)
		assert.True(t, errors.IsInternal(err))
	})

	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSQLRepository_Config(t *testing.T) {
	_, err := pagecache.NewSQL(context.Background(), &pagecache.SQLConfig{})
	require.Error(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = pagecache.NewSQL(context.Background(), &pagecache.SQLConfig{DB: db, Table: "pages; DROP TABLE x"})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

type mockObjectStore struct {
	mock.Mock
}

func (m *mockObjectStore) GetObject(ctx context.Context, bucket, name string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, name, opts)
	if rc := args.Get(0); rc != nil {
		return rc.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockObjectStore) PutObject(ctx context.Context, bucket, name string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, name, r, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func TestObjectRepository_Failures(t *testing.T) {
	ctx := context.Background()
	store := new(mockObjectStore)
	repo, err := pagecache.NewObject(&pagecache.ObjectConfig{Store: store, Bucket: "lenna"})
	require.NoError(t, err)

	store.On("GetObject", ctx, "lenna", "gone.json", mock.Anything).
		Return(io.NopCloser(&failingReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}), nil)
	store.On("GetObject", ctx, "lenna", "broken.json", mock.Anything).
		Return(nil, stderrors.New("connection reset"))
	store.On("GetObject", ctx, "lenna", "garbled.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader("not json")), nil)
	store.On("PutObject", ctx, "lenna", "suomi.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, stderrors.New("access denied"))

	_, err = repo.Get(ctx, pagecache.GetInput{PageID: "gone"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "missing object surfaced on read")

	_, err = repo.Get(ctx, pagecache.GetInput{PageID: "broken"})
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))

	_, err = repo.Get(ctx, pagecache.GetInput{PageID: "garbled"})
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))

	_, err = repo.Put(ctx, pagecache.PutInput{Entry: &pagecache.Entry{
		PageID: "suomi", Payload: []byte(`{}`), FetchedAt: time.Now(),
	}})
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))

	store.AssertExpectations(t)
}

func TestObjectRepository_Config(t *testing.T) {
	_, err := pagecache.NewObject(&pagecache.ObjectConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))

	_, err = pagecache.NewMinioStore(&pagecache.MinioConfig{})
	require.Error(t, err)

	store, err := pagecache.NewMinioStore(&pagecache.MinioConfig{Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/infra/postgres/migrations"
)

// setupTestDB starts a PostgreSQL container, applies the migrations and
// returns a connected GORM DB. Requires Docker; skip with go test -short.
func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("testdb"),
		postgresContainer.WithUsername("testuser"),
		postgresContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container (is Docker running? use -short to skip): %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, migrations.Run(db), "Failed to run migrations")

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func TestCacheRepository_GetMiss(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCacheRepository(db)

	entry, err := repo.Get(context.Background(), "https://www.tiktok.com/@u/video/404")

	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestCacheRepository_PutThenGetRoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCacheRepository(db)
	ctx := context.Background()

	slide := domain.NewSlide([]string{"https://x/1.jpg", "https://x/2.jpg"}, "https://x/a.mp3")
	entry := domain.NewCacheEntry("https://vt.tiktok.com/ZS1/", domain.PlatformTikTok, slide, "caption")

	require.NoError(t, repo.Put(ctx, entry))

	got, err := repo.Get(ctx, entry.SourceURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, slide, got.Media)
	assert.Equal(t, "caption", got.Caption)
	assert.Equal(t, domain.PlatformTikTok, got.Platform)
}

func TestCacheRepository_PutIsIdempotentAndReplaces(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCacheRepository(db)
	ctx := context.Background()
	url := "https://fb.watch/abc"

	first := domain.NewCacheEntry(url, domain.PlatformFacebook, domain.NewVideo("https://x/1.mp4", "", "a"), "c")
	require.NoError(t, repo.Put(ctx, first))
	require.NoError(t, repo.Put(ctx, first))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	second := domain.NewCacheEntry(url, domain.PlatformFacebook, domain.NewVideo("https://x/2.mp4", "", "b"), "c")
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.Get(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "https://x/2.mp4", got.VideoURL)
	assert.Equal(t, "b", got.Media.Video.Title)
}

func TestUsageRepository_Increment(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUsageRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, domain.PlatformTikTok))
	require.NoError(t, repo.Increment(ctx, domain.PlatformTikTok))
	require.NoError(t, repo.Increment(ctx, domain.PlatformFacebook))

	counters, err := repo.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.UsageCounter{
		{Platform: domain.PlatformFacebook, Count: 1},
		{Platform: domain.PlatformTikTok, Count: 2},
	}, counters)
}

func TestUsageRepository_ConcurrentIncrements(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUsageRepository(db)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Increment(ctx, domain.PlatformInstagram)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	counters, err := repo.Counters(ctx)
	require.NoError(t, err)
	require.Len(t, counters, 1)
	assert.Equal(t, int64(n), counters[0].Count)
}

func TestUsageRepository_CountSince(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUsageRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AppendLog(ctx, domain.PlatformTikTok, "https://www.tiktok.com/@u/video/1"))
	require.NoError(t, repo.AppendLog(ctx, domain.PlatformTikTok, "https://www.tiktok.com/@u/video/2"))
	require.NoError(t, repo.AppendLog(ctx, domain.PlatformFacebook, "https://fb.watch/x"))

	old := &RequestLogModel{
		ID:        "7f1d5f0e-2f59-4a57-9a43-0d2f1b9d7c11",
		Platform:  string(domain.PlatformTikTok),
		URL:       "https://www.tiktok.com/@u/video/0",
		CreatedAt: time.Now().UTC().Add(-8 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(old).Error)

	since := time.Now().Add(-7 * 24 * time.Hour)

	n, err := repo.CountSince(ctx, domain.PlatformTikTok, since)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountSince(ctx, domain.PlatformInstagram, since)
	require.NoError(t, err)
	assert.Zero(t, n)

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, old.URL, recent[3].SourceURL)
}

func TestMigrations_RollbackLast(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, migrations.Rollback(db))
	assert.False(t, db.Migrator().HasTable(&UsageCounterModel{}))
	assert.False(t, db.Migrator().HasTable(&RequestLogModel{}))
	assert.True(t, db.Migrator().HasTable(&CacheEntryModel{}))

	require.NoError(t, migrations.Run(db))
	assert.True(t, db.Migrator().HasTable(&UsageCounterModel{}))
}

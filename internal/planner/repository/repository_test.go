package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/planner/geometry"
	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
)

func sampleDoc() *models.DrawingData {
	d := models.NewDrawing()
	d.Walls = append(d.Walls, models.Wall{
		ID:        "w1",
		Start:     geometry.Vec2{X: 0, Z: 0},
		End:       geometry.Vec2{X: 4, Z: 0},
		Height:    2.7,
		Thickness: 0.15,
	})
	d.Openings = append(d.Openings, models.NewDoor("w1", 0.5))
	d.Openings[0].ID = "o1"
	return d
}

func newMemorySQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := NewSQLite(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

// ============================================================
// SQLite
// ============================================================

func TestSQLiteSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySQLite(t)

	_, err := repo.Load(ctx, "plan-1")
	assert.ErrorIs(t, err, ErrNotFound)

	doc := sampleDoc()
	require.NoError(t, repo.Save(ctx, "plan-1", doc))

	loaded, err := repo.Load(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	doc.Units = models.UnitsImperial
	require.NoError(t, repo.Save(ctx, "plan-1", doc))
	loaded, err = repo.Load(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, models.UnitsImperial, loaded.Units)
}

func TestSQLiteInitIsIdempotent(t *testing.T) {
	repo := newMemorySQLite(t)
	assert.NoError(t, repo.Init(context.Background()))
}

func TestSQLiteListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySQLite(t)

	require.NoError(t, repo.Save(ctx, "a", sampleDoc()))
	require.NoError(t, repo.Save(ctx, "b", sampleDoc()))

	infos, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	ids := []string{infos[0].ID, infos[1].ID}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
	assert.Equal(t, models.CurrentVersion, infos[0].Version)
	assert.WithinDuration(t, time.Now(), infos[0].UpdatedAt, time.Minute)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrNotFound)

	infos, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestSQLiteRejectsCorruptRows(t *testing.T) {
	ctx := context.Background()
	repo := newMemorySQLite(t)

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO drawings (id, version, data, updated_at) VALUES (?, ?, ?, ?)`,
		"bad", 1, `{"version":1,"units":"cubits"}`, 0)
	require.NoError(t, err)

	_, err = repo.Load(ctx, "bad")
	assert.ErrorIs(t, err, serializer.ErrInvalidDocument)
}

// ============================================================
// Files
// ============================================================

func TestFileStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "documents")
	store := NewFileStore(dir)

	_, err := store.Load(ctx, "plan")
	assert.ErrorIs(t, err, ErrNotFound)

	doc := sampleDoc()
	require.NoError(t, store.Save(ctx, "plan", doc))

	loaded, err := store.Load(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plan.json", entries[0].Name())
}

func TestFileStoreRejectsPathLikeIDs(t *testing.T) {
	store := NewFileStore(t.TempDir())

	assert.ErrorIs(t, store.Save(context.Background(), "../escape", sampleDoc()), ErrInvalidID)
	_, err := store.Load(context.Background(), "../escape")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewFileStore(t.TempDir())

	assert.ErrorIs(t, store.Save(ctx, "plan", sampleDoc()), context.Canceled)
	_, err := store.Load(context.Background(), "plan")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================
// HTTP
// ============================================================

type fakeDocumentService struct {
	mu   sync.Mutex
	docs map[string][]byte
	auth []string
}

func (f *fakeDocumentService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	id := filepath.Base(r.URL.Path)

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.docs[id] = body
		w.WriteHeader(http.StatusNoContent)
	case http.MethodGet:
		body, ok := f.docs[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestHTTPStoreRoundTrip(t *testing.T) {
	svc := &fakeDocumentService{docs: map[string][]byte{}}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	ctx := context.Background()
	store := NewHTTPStore(srv.URL+"/documents/", WithBearerToken("secret"))

	doc := sampleDoc()
	require.NoError(t, store.Save(ctx, "plan-7", doc))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(svc.docs["plan-7"], &raw))
	assert.EqualValues(t, 1, raw["version"])

	loaded, err := store.Load(ctx, "plan-7")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, h := range svc.auth {
		assert.Equal(t, "Bearer secret", h)
	}
}

func TestHTTPStoreReportsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewHTTPStore(srv.URL).Save(context.Background(), "plan", sampleDoc())
	assert.ErrorContains(t, err, "502")
}

func TestSaverForBindsDocumentID(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	saver := SaverFor(store, "bound")
	require.NoError(t, saver.Save(ctx, sampleDoc()))

	_, err := store.Load(ctx, "bound")
	assert.NoError(t, err)
}

// ============================================================
// Redis
// ============================================================

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	cache, err := NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), time.Minute)
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	id := "test-" + time.Now().Format("150405.000000")
	doc := sampleDoc()
	require.NoError(t, cache.Save(ctx, id, doc))
	defer cache.client.Del(ctx, draftKey(id))

	loaded, err := cache.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	ttl, err := cache.client.TTL(ctx, draftKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = cache.Load(ctx, id+"-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

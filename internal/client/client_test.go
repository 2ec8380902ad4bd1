package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/6ReactTeamproject/nest-sub000/internal/server"
	"github.com/6ReactTeamproject/nest-sub000/internal/service"
	"github.com/6ReactTeamproject/nest-sub000/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestHandler builds the real router on an in-memory database.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Post{},
		&models.Comment{},
		&models.CommentLike{},
		&models.DirectMessage{},
		&models.Member{},
		&models.Semester{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.ChatParticipant{},
	))
	cfg := config.Config{
		Port:                  "8080",
		JWTSecret:             "test-secret",
		Env:                   "dev",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTL:       config.DefaultRefreshTokenTTL,
		UploadDir:             t.TempDir(),
	}
	return server.SetupRouter(cfg, gdb, ws.NewHub())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestHandler(t))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RegisterAndCreatePost(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	reg, err := c.Register(ctx, "alice", "pass1234", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", reg.User.LoginID)

	post, err := c.CreatePost(ctx, service.PostInput{Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)

	posts, err := c.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.EqualValues(t, 0, posts[0].Views)

	got, err := c.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)
}

func TestClient_AutoRefreshOn401(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Register(ctx, "alice", "pass1234", "Alice")
	require.NoError(t, err)

	// Simulate an expired access token while the refresh token is still good.
	_, rt := c.tokens()
	c.SetSession("stale-access-token", rt)

	post, err := c.CreatePost(ctx, service.PostInput{Title: "still works", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "still works", post.Title)

	at, _ := c.tokens()
	assert.NotEqual(t, "stale-access-token", at, "access token was replaced")
}

func TestClient_ConcurrentRefreshCollapses(t *testing.T) {
	handler := newTestHandler(t)

	// Count refresh round trips in front of the real router.
	var refreshCalls atomic.Int64
	counting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/auth/refresh" {
			refreshCalls.Add(1)
		}
		handler.ServeHTTP(w, r)
	}))
	defer counting.Close()

	c := New(counting.URL)
	ctx := context.Background()
	_, err := c.Register(ctx, "alice", "pass1234", "Alice")
	require.NoError(t, err)

	_, rt := c.tokens()
	c.SetSession("stale-access-token", rt)

	const n = 8
	var start, done sync.WaitGroup
	start.Add(1)
	done.Add(n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer done.Done()
			start.Wait()
			_, errs[i] = c.CreatePost(ctx, service.PostInput{Title: "t", Content: "c"})
		}(i)
	}
	start.Done()
	done.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	got := refreshCalls.Load()
	assert.GreaterOrEqual(t, got, int64(1))
	assert.Less(t, got, int64(n), "concurrent 401s share refresh calls")
}

func TestClient_FailedRefreshClearsSession(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	c.SetSession("bad-access", "bad-refresh")
	_, err := c.CreatePost(ctx, service.PostInput{Title: "t", Content: "c"})
	require.Error(t, err)

	// The original 401 surfaces, not the refresh failure.
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	at, rt := c.tokens()
	assert.Empty(t, at)
	assert.Empty(t, rt)
}

func TestClient_Logout(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	reg, err := c.Register(ctx, "alice", "pass1234", "Alice")
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))

	at, rt := c.tokens()
	assert.Empty(t, at)
	assert.Empty(t, rt)

	// The server side token is revoked as well.
	c.SetSession("", reg.RefreshToken)
	_, err = c.CreatePost(ctx, service.PostInput{Title: "t", Content: "c"})
	assert.Error(t, err)
}

package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/cache"
	"toiletadvisor/internal/config"
	"toiletadvisor/internal/db"
	"toiletadvisor/internal/errors"
	"toiletadvisor/internal/handler"
	"toiletadvisor/internal/model"
	"toiletadvisor/internal/repository"
	"toiletadvisor/internal/service"
)

type testEnv struct {
	api  *echo.Echo
	auth *echo.Echo
	db   *gorm.DB
	mr   *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, false))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{CORSOrigin: "http://localhost"}
	sessions := auth.NewSessionStore(rdb)

	users := repository.NewUserRepository(gdb)
	posts := repository.NewPostRepository(gdb)
	ratings := repository.NewRatingRepository(gdb)
	comments := repository.NewCommentRepository(gdb)
	bookmarks := repository.NewBookmarkRepository(gdb)

	authService := service.NewAuthService(users, sessions, auth.NewBcryptHasherWithCost(bcrypt.MinCost), false)

	authE := echo.New()
	RegisterAuth(authE, cfg, sessions, handler.NewAuthHandler(authService))

	apiE := echo.New()
	RegisterAPI(apiE, cfg, sessions, APIHandlers{
		Posts:     handler.NewPostHandler(service.NewPostService(posts, ratings, comments)),
		Comments:  handler.NewCommentHandler(service.NewCommentService(comments, posts)),
		Users:     handler.NewUserHandler(service.NewUserService(users, cache.New(rdb))),
		Bookmarks: handler.NewBookmarkHandler(service.NewBookmarkService(bookmarks, posts)),
	})

	return &testEnv{api: apiE, auth: authE, db: gdb, mr: mr}
}

// call invokes a procedure. GET procedures receive input as a query parameter,
// others as a JSON body.
func call(t *testing.T, e *echo.Echo, method, procedure string, input interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	target := "/trpc/" + procedure
	var body *bytes.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		require.NoError(t, err)
		if method == http.MethodGet {
			target += "?input=" + url.QueryEscape(string(payload))
			body = bytes.NewReader(nil)
		} else {
			body = bytes.NewReader(payload)
		}
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errors.ErrorResponse
	decode(t, rec, &resp)
	return resp.Code
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

type credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// signUp registers and logs in a user, returning the session cookie.
func (env *testEnv) signUp(t *testing.T, name string) *http.Cookie {
	t.Helper()
	creds := credentials{Name: name, Password: "Secret123"}
	rec := call(t, env.auth, http.MethodPost, "auth.register", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, env.auth, http.MethodPost, "auth.login", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie
}

func (env *testEnv) createPost(t *testing.T, cookie *http.Cookie, title string, media ...string) string {
	t.Helper()
	rec := call(t, env.api, http.MethodPost, "post.create", map[string]interface{}{
		"title":       title,
		"description": "A description",
		"price":       "free",
		"mediaUrls":   media,
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handler.IDResponse
	decode(t, rec, &resp)
	return resp.ID.String()
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	for _, tt := range []struct {
		e    *echo.Echo
		path string
	}{{env.api, "/health"}, {env.auth, "/"}, {env.auth, "/health"}} {
		rec := httptest.NewRecorder()
		tt.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	}
}

func TestRegister_UniqueNames(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"alice", "bobby", "carol"} {
		rec := call(t, env.auth, http.MethodPost, "auth.register", credentials{name, "Secret123"}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"name":"`+name+`"}`, rec.Body.String())
	}

	rec := call(t, env.auth, http.MethodPost, "auth.register", credentials{"alice", "Other1234"}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errors.CodeConflict, errorCode(t, rec))

	var count int64
	require.NoError(t, env.db.Model(&model.User{}).Where("name = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_ValidationTree(t *testing.T) {
	env := newTestEnv(t)

	rec := call(t, env.auth, http.MethodPost, "auth.register", credentials{"al", "weak"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errors.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, errors.CodeBadRequest, resp.Code)
	require.NotNil(t, resp.Fields)
	assert.Contains(t, resp.Fields.Properties, "name")
	assert.Contains(t, resp.Fields.Properties, "password")
}

func TestLogin_SessionCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := call(t, env.auth, http.MethodPost, "auth.register", credentials{"alice", "Secret123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("correct credentials", func(t *testing.T) {
		rec := call(t, env.auth, http.MethodPost, "auth.login", credentials{"alice", "Secret123"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, 7*24*60*60, cookie.MaxAge)

		var alice model.User
		require.NoError(t, env.db.Where("name = ?", "alice").First(&alice).Error)
		stored, err := env.mr.Get("session:" + cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, alice.ID.String(), stored)
	})

	for _, creds := range []credentials{{"alice", "Wrong1234"}, {"nobody", "Secret123"}} {
		t.Run("rejects "+creds.Name+"/"+creds.Password, func(t *testing.T) {
			rec := call(t, env.auth, http.MethodPost, "auth.login", creds, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, errors.CodeUnauthorized, errorCode(t, rec))
			assert.Empty(t, rec.Header().Values("Set-Cookie"))
		})
	}
}

func TestLogout_InvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signUp(t, "alice")

	rec := call(t, env.auth, http.MethodGet, "auth.getSession", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess model.SessionUser
	decode(t, rec, &sess)
	assert.Equal(t, "alice", sess.Name)

	rec = call(t, env.auth, http.MethodPost, "auth.logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	expired := sessionCookie(rec)
	require.NotNil(t, expired)
	assert.Equal(t, -1, expired.MaxAge)
	assert.False(t, env.mr.Exists("session:"+cookie.Value))

	rec = call(t, env.auth, http.MethodGet, "auth.getSession", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, env.auth, http.MethodGet, "auth.getSession", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetSession_UserDeleted(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signUp(t, "alice")

	require.NoError(t, env.db.Where("name = ?", "alice").Delete(&model.User{}).Error)

	rec := call(t, env.auth, http.MethodGet, "auth.getSession", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(rec.Body.Bytes())))
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signUp(t, "alice")

	rec := call(t, env.auth, http.MethodPost, "auth.updatePassword", map[string]string{
		"currentPassword": "Wrong1234", "newPassword": "Newpass123",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, env.auth, http.MethodPost, "auth.updatePassword", map[string]string{
		"currentPassword": "Secret123", "newPassword": "Newpass123",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, env.auth, http.MethodPost, "auth.login", credentials{"alice", "Newpass123"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRate_ReplacesAndAverages(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bobby")
	postID := env.createPost(t, alice, "Gare du Nord")

	getAvg := func() *float64 {
		rec := call(t, env.api, http.MethodGet, "post.getById", map[string]string{"id": postID}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var detail service.PostDetail
		decode(t, rec, &detail)
		return detail.AvgRating
	}

	assert.Nil(t, getAvg())

	for _, v := range []int{1, 4} {
		rec := call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": postID, "value": v}, alice)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	var ratings []model.Rating
	require.NoError(t, env.db.Where("post_id = ?", postID).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, uint8(4), ratings[0].Value)

	rec := call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": postID, "value": 1}, bob)
	require.Equal(t, http.StatusOK, rec.Code)

	avg := getAvg()
	require.NotNil(t, avg)
	assert.InDelta(t, 2.5, *avg, 1e-9)

	rec = call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": postID, "value": 6}, bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": postID, "value": 3}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletePost_Cascades(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	postID := env.createPost(t, alice, "Louvre", "https://cdn.example.com/1.png")

	rec := call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": postID, "value": 5}, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, env.api, http.MethodPost, "comment.create", map[string]string{"postId": postID, "content": "clean"}, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, env.api, http.MethodPost, "post.delete", map[string]string{"id": postID}, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, m := range []interface{}{&model.Rating{}, &model.Comment{}, &model.Media{}} {
		var count int64
		require.NoError(t, env.db.Model(m).Where("post_id = ?", postID).Count(&count).Error)
		assert.Zero(t, count)
	}

	rec = call(t, env.api, http.MethodGet, "post.getById", map[string]string{"id": postID}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.CodeNotFound, errorCode(t, rec))
}

func TestOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	bob := env.signUp(t, "bobby")
	postID := env.createPost(t, alice, "Park")

	rec := call(t, env.api, http.MethodPost, "comment.create", map[string]string{"postId": postID, "content": "hi"}, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var comment handler.IDResponse
	decode(t, rec, &comment)
	commentID := comment.ID.String()

	tests := []struct {
		procedure string
		input     map[string]string
	}{
		{"post.update", map[string]string{"id": postID, "title": "mine now"}},
		{"post.delete", map[string]string{"id": postID}},
		{"comment.update", map[string]string{"id": commentID, "content": "mine now"}},
		{"comment.delete", map[string]string{"id": commentID}},
	}

	for _, tt := range tests {
		t.Run(tt.procedure, func(t *testing.T) {
			rec := call(t, env.api, http.MethodPost, tt.procedure, tt.input, bob)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, errors.CodeForbidden, errorCode(t, rec))
		})
	}

	rec = call(t, env.api, http.MethodPost, "post.update", map[string]string{"id": postID, "title": "Renamed"}, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = call(t, env.api, http.MethodGet, "post.getById", map[string]string{"id": postID}, nil)
	var detail service.PostDetail
	decode(t, rec, &detail)
	assert.Equal(t, "Renamed", detail.Title)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "hi", detail.Comments[0].Content)
}

func TestPostList_FiltersAndBookmarks(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	good := env.createPost(t, alice, "Clean station")
	env.createPost(t, alice, "Unrated museum")

	rec := call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": good, "value": 5}, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, env.api, http.MethodGet, "post.getAll", map[string]interface{}{"minRating": 4}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.PostSummary
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, good, list[0].ID.String())
	assert.Equal(t, int64(1), list[0].RatingCount)

	rec = call(t, env.api, http.MethodGet, "post.getAll", nil, nil)
	decode(t, rec, &list)
	assert.Len(t, list, 2)

	rec = call(t, env.api, http.MethodGet, "post.getAll", map[string]interface{}{"limit": 101}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, env.api, http.MethodPost, "bookmark.toggle", map[string]string{"postId": good}, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"bookmarked":true}`, rec.Body.String())

	rec = call(t, env.api, http.MethodGet, "bookmark.getMine", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, good, list[0].ID.String())
}

func TestUserProcedures(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	env.signUp(t, "bobby")

	rec := call(t, env.api, http.MethodGet, "user.getAll", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = call(t, env.api, http.MethodGet, "user.getProfile", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile model.Profile
	decode(t, rec, &profile)
	assert.Equal(t, "alice", profile.Name)

	rec = call(t, env.api, http.MethodPost, "user.updateProfile", map[string]string{"name": "bobby"}, alice)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, env.api, http.MethodPost, "user.updateProfile", map[string]string{"profilePictureUrl": "https://cdn.example.com/me.png"}, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, env.api, http.MethodGet, "user.getById", map[string]string{"id": profile.ID.String()}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var public model.PublicUser
	decode(t, rec, &public)
	require.NotNil(t, public.ProfilePictureURL)
	assert.Equal(t, "https://cdn.example.com/me.png", *public.ProfilePictureURL)

	rec = call(t, env.api, http.MethodGet, "user.getById", map[string]string{"id": "not-a-uuid"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errors.ErrorResponse
	decode(t, rec, &resp)
	require.NotNil(t, resp.Fields)
	assert.Contains(t, resp.Fields.Properties, "id")
}

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	bobby := env.signUp(t, "bobby")
	postID := env.createPost(t, alice, "Station toilets")

	rec := call(t, env.api, http.MethodPost, "comment.create", map[string]string{"postId": postID, "content": "spotless"}, bobby)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created handler.IDResponse
	decode(t, rec, &created)

	rec = call(t, env.api, http.MethodPost, "comment.create", map[string]string{"postId": uuid.NewString(), "content": "lost"}, bobby)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, env.api, http.MethodPost, "comment.update", map[string]string{"id": created.ID.String(), "content": "hijack"}, alice)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, env.api, http.MethodPost, "comment.update", map[string]string{"id": created.ID.String(), "content": "still spotless"}, bobby)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, env.api, http.MethodGet, "comment.getByPostId", map[string]string{"postId": postID}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var comments []model.CommentView
	decode(t, rec, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "still spotless", comments[0].Content)
	require.NotNil(t, comments[0].UserName)
	assert.Equal(t, "bobby", *comments[0].UserName)

	rec = call(t, env.api, http.MethodPost, "comment.delete", map[string]string{"id": created.ID.String()}, bobby)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, env.api, http.MethodGet, "comment.getByPostId", map[string]string{"postId": postID}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestInputTypeMismatch_FieldTree(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	postID := env.createPost(t, alice, "Museum basement")

	tests := []struct {
		name      string
		procedure string
		input     interface{}
		field     string
		message   string
	}{
		{"quoted rating", "post.rate", map[string]interface{}{"postId": postID, "value": "3"}, "value", "must be an integer"},
		{"malformed id", "post.delete", map[string]string{"id": "not-a-uuid"}, "id", "must be a valid UUID"},
		{"numeric title", "post.create", map[string]interface{}{"title": 12, "description": "d", "price": "free"}, "title", "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, env.api, http.MethodPost, tt.procedure, tt.input, alice)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp errors.ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, errors.CodeBadRequest, resp.Code)
			require.NotNil(t, resp.Fields)
			require.Contains(t, resp.Fields.Properties, tt.field)
			assert.Equal(t, []string{tt.message}, resp.Fields.Properties[tt.field].Errors)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&model.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMediaURLs_RequireHTTP(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")

	rec := call(t, env.api, http.MethodPost, "post.create", map[string]interface{}{
		"title":       "Sneaky",
		"description": "d",
		"price":       "free",
		"mediaUrls":   []string{"javascript:alert(1)"},
	}, alice)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errors.ErrorResponse
	decode(t, rec, &resp)
	require.NotNil(t, resp.Fields)
	assert.Contains(t, resp.Fields.Properties, "mediaUrls[0]")

	var media int64
	require.NoError(t, env.db.Model(&model.Media{}).Count(&media).Error)
	assert.Zero(t, media)

	rec = call(t, env.api, http.MethodPost, "user.updateProfile", map[string]string{"profilePictureUrl": "javascript:alert(1)"}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaleSession_Writes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signUp(t, "alice")
	bobby := env.signUp(t, "bobby")
	postID := env.createPost(t, bobby, "Library ground floor")

	require.NoError(t, env.db.Where("name = ?", "alice").Delete(&model.User{}).Error)

	rec := call(t, env.api, http.MethodPost, "post.rate", map[string]interface{}{"postId": postID, "value": 4}, alice)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())

	rec = call(t, env.api, http.MethodPost, "comment.create", map[string]string{"postId": postID, "content": "ghost"}, alice)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

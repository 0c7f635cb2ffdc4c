package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"sosmed/internal/config"
	"sosmed/internal/database"
	"sosmed/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeImages hands out a deterministic URL per upload.
type fakeImages struct {
	uploads   int
	destroyed []string
}

func (f *fakeImages) Upload(ctx context.Context, image string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/img%d.png", f.uploads), nil
}

func (f *fakeImages) Destroy(ctx context.Context, imageURL string) error {
	f.destroyed = append(f.destroyed, imageURL)
	return nil
}

type testApp struct {
	app    *fiber.App
	images *fakeImages
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)

	images := &fakeImages{}
	app := server.NewApp(server.Dependencies{
		Config: &config.Config{
			AppEnv:    "development",
			BodyLimit: 5 * 1024 * 1024,
			JWTSecret: "test_jwt_secret",
			JWTTTL:    15 * 24 * time.Hour,
		},
		DB:     db,
		Images: images,
		Quiet:  true,
	})
	return &testApp{app: app, images: images}
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (r response) decode(t *testing.T, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, out), string(r.body))
}

func (r response) errorMessage(t *testing.T) string {
	t.Helper()
	var body map[string]interface{}
	r.decode(t, &body)
	msg, _ := body["error"].(string)
	return msg
}

func (ta *testApp) do(t *testing.T, method, path string, payload interface{}, token string) response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw, cookies: resp.Cookies()}
}

func sessionCookie(t *testing.T, r response) *http.Cookie {
	t.Helper()
	for _, c := range r.cookies {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatalf("no jwt cookie in response")
	return nil
}

type userBody struct {
	ID         string   `json:"_id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Followers  []string `json:"followers"`
	Following  []string `json:"following"`
	LikedPosts []string `json:"likedPosts"`
	ProfileImg string   `json:"profileImg"`
}

type postBody struct {
	ID       string   `json:"_id"`
	Text     string   `json:"text"`
	Img      string   `json:"img"`
	Likes    []string `json:"likes"`
	User     userBody `json:"user"`
	Comments []struct {
		Text string   `json:"text"`
		User userBody `json:"user"`
	} `json:"comments"`
}

type notificationBody struct {
	ID   string `json:"_id"`
	Type string `json:"type"`
	Read bool   `json:"read"`
	From struct {
		ID       string `json:"_id"`
		Username string `json:"username"`
	} `json:"from"`
}

func (ta *testApp) signup(t *testing.T, username string) (userBody, string) {
	t.Helper()
	r := ta.do(t, http.MethodPost, "/api/auth/signup", fiber.Map{
		"fullName": username + " example",
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var u userBody
	r.decode(t, &u)
	return u, sessionCookie(t, r).Value
}

func (ta *testApp) createPost(t *testing.T, token, text string) postBody {
	t.Helper()
	r := ta.do(t, http.MethodPost, "/api/posts/create", fiber.Map{"text": text}, token)
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var p postBody
	r.decode(t, &p)
	return p
}

func TestHealth(t *testing.T) {
	ta := setupApp(t)
	r := ta.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "healthy")
}

func TestSignup(t *testing.T) {
	ta := setupApp(t)

	r := ta.do(t, http.MethodPost, "/api/auth/signup", fiber.Map{
		"fullName": "Alice",
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusCreated, r.status)

	cookie := sessionCookie(t, r)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, int((15 * 24 * time.Hour).Seconds()), cookie.MaxAge)

	var u userBody
	r.decode(t, &u)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Empty(t, u.Password)
	assert.NotContains(t, string(r.body), "password")
	assert.NotNil(t, u.Followers)
	assert.NotNil(t, u.Following)
}

func TestSignupFailures(t *testing.T) {
	ta := setupApp(t)
	ta.signup(t, "alice")

	cases := []struct {
		name    string
		payload fiber.Map
		message string
	}{
		{"duplicate username", fiber.Map{"fullName": "A", "username": "alice", "email": "other@example.com", "password": "password123"}, "Username is already taken"},
		{"duplicate email", fiber.Map{"fullName": "A", "username": "other", "email": "alice@example.com", "password": "password123"}, "Email is already taken"},
		{"bad email", fiber.Map{"fullName": "A", "username": "other", "email": "not-an-email", "password": "password123"}, "Invalid email format"},
		{"short password", fiber.Map{"fullName": "A", "username": "other", "email": "other@example.com", "password": "123"}, "Password must be at least 6 characters long"},
		{"taken username with empty password", fiber.Map{"fullName": "A", "username": "alice", "email": "other@example.com", "password": ""}, "Username is already taken"},
		{"empty password", fiber.Map{"fullName": "A", "username": "other", "email": "other@example.com"}, "Password must be at least 6 characters long"},
		{"empty email", fiber.Map{"fullName": "A", "username": "other", "password": "password123"}, "Invalid email format"},
		{"missing full name", fiber.Map{"username": "other", "email": "other@example.com", "password": "password123"}, "Validation failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ta.do(t, http.MethodPost, "/api/auth/signup", tc.payload, "")
			assert.Equal(t, fiber.StatusBadRequest, r.status)
			assert.Equal(t, tc.message, r.errorMessage(t))
		})
	}
}

func TestLoginIndistinguishableFailures(t *testing.T) {
	ta := setupApp(t)
	ta.signup(t, "alice")

	wrongPassword := ta.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "wrong"}, "")
	unknownUser := ta.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"username": "nonexistent", "password": "x"}, "")

	assert.Equal(t, fiber.StatusBadRequest, wrongPassword.status)
	assert.Equal(t, wrongPassword.status, unknownUser.status)
	assert.JSONEq(t, string(wrongPassword.body), string(unknownUser.body))

	ok := ta.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "password123"}, "")
	require.Equal(t, fiber.StatusOK, ok.status)
	token := sessionCookie(t, ok).Value

	me := ta.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, fiber.StatusOK, me.status)
	var u userBody
	me.decode(t, &u)
	assert.Equal(t, "alice", u.Username)
}

func TestSessionRequired(t *testing.T) {
	ta := setupApp(t)

	for _, path := range []string{"/api/auth/me", "/api/posts/all", "/api/users/suggested", "/api/notifications"} {
		r := ta.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, fiber.StatusUnauthorized, r.status, path)
	}

	r := ta.do(t, http.MethodGet, "/api/auth/me", nil, "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
	assert.Equal(t, "Unauthorized: Invalid Token", r.errorMessage(t))
}

func TestLogout(t *testing.T) {
	ta := setupApp(t)

	r := ta.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "Logged out successfully")
	cookie := sessionCookie(t, r)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.Expires.Before(time.Now()))
}

func TestLikeScenario(t *testing.T) {
	ta := setupApp(t)
	_, aliceToken := ta.signup(t, "alice")

	login := ta.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "password123"}, "")
	require.Equal(t, fiber.StatusOK, login.status)
	aliceToken = sessionCookie(t, login).Value

	post := ta.createPost(t, aliceToken, "hello")
	bob, bobToken := ta.signup(t, "bob")

	r := ta.do(t, http.MethodPost, "/api/posts/like/"+post.ID, nil, bobToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "Post liked successfully")

	var all []postBody
	allResp := ta.do(t, http.MethodGet, "/api/posts/all", nil, aliceToken)
	require.Equal(t, fiber.StatusOK, allResp.status)
	allResp.decode(t, &all)
	require.Len(t, all, 1)
	assert.Equal(t, post.ID, all[0].ID)
	assert.Equal(t, []string{bob.ID}, all[0].Likes)
	assert.Equal(t, "alice", all[0].User.Username)
	assert.Empty(t, all[0].User.Password)

	var first []notificationBody
	ta.do(t, http.MethodGet, "/api/notifications", nil, aliceToken).decode(t, &first)
	require.Len(t, first, 1)
	assert.Equal(t, "like", first[0].Type)
	assert.Equal(t, bob.ID, first[0].From.ID)
	assert.False(t, first[0].Read)

	var second []notificationBody
	ta.do(t, http.MethodGet, "/api/notifications", nil, aliceToken).decode(t, &second)
	require.Len(t, second, 1)
	assert.True(t, second[0].Read)

	// unlike removes the like and creates no notification
	r = ta.do(t, http.MethodPost, "/api/posts/like/"+post.ID, nil, bobToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "Post unliked successfully")

	var liked []postBody
	ta.do(t, http.MethodGet, "/api/posts/likes/"+bob.ID, nil, bobToken).decode(t, &liked)
	assert.Empty(t, liked)

	var third []notificationBody
	ta.do(t, http.MethodGet, "/api/notifications", nil, aliceToken).decode(t, &third)
	assert.Len(t, third, 1)

	r = ta.do(t, http.MethodDelete, "/api/notifications", nil, aliceToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "Notifications deleted successfully")

	var none []notificationBody
	ta.do(t, http.MethodGet, "/api/notifications", nil, aliceToken).decode(t, &none)
	assert.Empty(t, none)

	r = ta.do(t, http.MethodPost, "/api/posts/like/"+uuid.NewString(), nil, bobToken)
	assert.Equal(t, fiber.StatusNotFound, r.status)
}

func TestFollowRoundTrip(t *testing.T) {
	ta := setupApp(t)
	alice, aliceToken := ta.signup(t, "alice")
	bob, bobToken := ta.signup(t, "bob")

	r := ta.do(t, http.MethodPost, "/api/users/follow/"+alice.ID, nil, aliceToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "You can't follow/unfollow yourself", r.errorMessage(t))

	r = ta.do(t, http.MethodPost, "/api/users/follow/"+uuid.NewString(), nil, aliceToken)
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = ta.do(t, http.MethodPost, "/api/users/follow/"+bob.ID, nil, aliceToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "User followed successfully")

	var profile userBody
	ta.do(t, http.MethodGet, "/api/users/profile/bob", nil, aliceToken).decode(t, &profile)
	assert.Equal(t, []string{alice.ID}, profile.Followers)

	r = ta.do(t, http.MethodPost, "/api/users/follow/"+bob.ID, nil, aliceToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "User unfollowed successfully")

	var me userBody
	ta.do(t, http.MethodGet, "/api/auth/me", nil, aliceToken).decode(t, &me)
	assert.Empty(t, me.Following)
	ta.do(t, http.MethodGet, "/api/users/profile/bob", nil, aliceToken).decode(t, &profile)
	assert.Empty(t, profile.Followers)

	var notifications []notificationBody
	ta.do(t, http.MethodGet, "/api/notifications", nil, bobToken).decode(t, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, "follow", notifications[0].Type)

	r = ta.do(t, http.MethodGet, "/api/users/profile/nobody", nil, aliceToken)
	assert.Equal(t, fiber.StatusNotFound, r.status)
}

func TestFeeds(t *testing.T) {
	ta := setupApp(t)
	alice, aliceToken := ta.signup(t, "alice")
	bob, bobToken := ta.signup(t, "bob")

	r := ta.do(t, http.MethodGet, "/api/posts/following", nil, aliceToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.JSONEq(t, "[]", string(r.body))

	ta.createPost(t, bobToken, "from bob")
	ta.createPost(t, aliceToken, "from alice")
	ta.do(t, http.MethodPost, "/api/users/follow/"+bob.ID, nil, aliceToken)

	var following []postBody
	ta.do(t, http.MethodGet, "/api/posts/following", nil, aliceToken).decode(t, &following)
	require.Len(t, following, 1)
	assert.Equal(t, "from bob", following[0].Text)

	var alicePosts []postBody
	ta.do(t, http.MethodGet, "/api/posts/user/alice", nil, bobToken).decode(t, &alicePosts)
	require.Len(t, alicePosts, 1)
	assert.Equal(t, alice.ID, alicePosts[0].User.ID)

	var suggested []userBody
	ta.do(t, http.MethodGet, "/api/users/suggested", nil, aliceToken).decode(t, &suggested)
	assert.Empty(t, suggested)
	ta.do(t, http.MethodGet, "/api/users/suggested", nil, bobToken).decode(t, &suggested)
	require.Len(t, suggested, 1)
	assert.Equal(t, alice.ID, suggested[0].ID)
}

func TestCreateAndDeletePost(t *testing.T) {
	ta := setupApp(t)
	_, aliceToken := ta.signup(t, "alice")
	_, bobToken := ta.signup(t, "bob")

	r := ta.do(t, http.MethodPost, "/api/posts/create", fiber.Map{"text": "", "img": ""}, aliceToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Post must have text or image", r.errorMessage(t))

	r = ta.do(t, http.MethodPost, "/api/posts/create", fiber.Map{"img": "data:image/png;base64,AAAA"}, aliceToken)
	require.Equal(t, fiber.StatusCreated, r.status)
	var post postBody
	r.decode(t, &post)
	assert.Empty(t, post.Text)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/img1.png", post.Img)

	r = ta.do(t, http.MethodDelete, "/api/posts/"+post.ID, nil, bobToken)
	assert.Equal(t, fiber.StatusForbidden, r.status)
	assert.Equal(t, "You are not authorized to delete this post", r.errorMessage(t))

	var all []postBody
	ta.do(t, http.MethodGet, "/api/posts/all", nil, aliceToken).decode(t, &all)
	require.Len(t, all, 1)

	r = ta.do(t, http.MethodDelete, "/api/posts/"+post.ID, nil, aliceToken)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "Post deleted successfully")
	assert.Equal(t, []string{post.Img}, ta.images.destroyed)

	r = ta.do(t, http.MethodDelete, "/api/posts/"+post.ID, nil, aliceToken)
	assert.Equal(t, fiber.StatusNotFound, r.status)
}

func TestCommentOnPost(t *testing.T) {
	ta := setupApp(t)
	_, aliceToken := ta.signup(t, "alice")
	bob, bobToken := ta.signup(t, "bob")
	post := ta.createPost(t, aliceToken, "hello")

	r := ta.do(t, http.MethodPost, "/api/posts/comment/"+post.ID, fiber.Map{"text": ""}, bobToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Text field is required", r.errorMessage(t))

	r = ta.do(t, http.MethodPost, "/api/posts/comment/"+uuid.NewString(), fiber.Map{"text": "hi"}, bobToken)
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = ta.do(t, http.MethodPost, "/api/posts/comment/"+post.ID, fiber.Map{"text": "nice"}, bobToken)
	require.Equal(t, fiber.StatusOK, r.status)
	var updated postBody
	r.decode(t, &updated)
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "nice", updated.Comments[0].Text)
	assert.Equal(t, bob.ID, updated.Comments[0].User.ID)
	assert.Empty(t, updated.Comments[0].User.Password)
}

func TestUpdateProfile(t *testing.T) {
	ta := setupApp(t)
	_, aliceToken := ta.signup(t, "alice")
	ta.signup(t, "bob")

	r := ta.do(t, http.MethodPost, "/api/users/update", fiber.Map{"newPassword": "newpassword"}, aliceToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Please provide both current password and new password", r.errorMessage(t))

	r = ta.do(t, http.MethodPost, "/api/users/update", fiber.Map{"email": "broken"}, aliceToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Invalid email format", r.errorMessage(t))

	r = ta.do(t, http.MethodPost, "/api/users/update", fiber.Map{"username": "bob"}, aliceToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = ta.do(t, http.MethodPost, "/api/users/update", fiber.Map{
		"currentPassword": "password123",
		"newPassword":     "newpassword",
		"profileImg":      "data:image/png;base64,AAAA",
	}, aliceToken)
	require.Equal(t, fiber.StatusOK, r.status, string(r.body))
	var u userBody
	r.decode(t, &u)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.ProfileImg)

	login := ta.do(t, http.MethodPost, "/api/auth/login", fiber.Map{"username": "alice", "password": "newpassword"}, "")
	assert.Equal(t, fiber.StatusOK, login.status)

	// a rejected update keeps the stored image and drops only the new upload
	r = ta.do(t, http.MethodPost, "/api/users/update", fiber.Map{"username": "bob", "profileImg": "data:image/png;base64,BBBB"}, aliceToken)
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Username or email is already taken", r.errorMessage(t))

	var me userBody
	ta.do(t, http.MethodGet, "/api/auth/me", nil, aliceToken).decode(t, &me)
	assert.Equal(t, u.ProfileImg, me.ProfileImg)
	assert.Equal(t, []string{"https://res.cloudinary.com/demo/image/upload/v1/img2.png"}, ta.images.destroyed)
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CourseMarket/internal/models"
	"CourseMarket/internal/service"
	"CourseMarket/internal/service/auth"
	"CourseMarket/internal/storage/memory"
	"CourseMarket/pkg/keylock"
	"CourseMarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
}

func newTestAPI(t *testing.T, initialBalance string) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New()
	u := service.New(logger.Discard(), service.Deps{
		Users:          store,
		Tokens:         memory.NewTokenRepo(store),
		Balances:       store,
		Courses:        store,
		Lessons:        store,
		Groups:         store,
		Subscriptions:  store,
		Search:         memory.NewCourseSearch(store),
		Locker:         keylock.New(),
		JWT:            auth.NewJWTManager("test-secret", "test", 15*time.Minute, time.Hour),
		InitialBalance: models.MustParseMoney(initialBalance),
	})
	require.NoError(t, u.EnsureAdmin(context.Background(), "admin", "admin@example.com", "admin123"))
	return &testAPI{t: t, router: InitRoutes(logger.Discard(), u, []string{"http://localhost:5173"}), store: store}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]string](a.t, w)["access_token"]
}

func (a *testAPI) register(username string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/auth/register", "", gin.H{
		"username": username,
		"password": "secret1",
		"email":    username + "@example.com",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return a.login(username, "secret1")
}

func (a *testAPI) createCourse(adminToken, title, price string) uuid.UUID {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/courses", adminToken, gin.H{
		"author":     "Rob",
		"title":      title,
		"start_date": time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		"price":      price,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Course](a.t, w).ID
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type purchaseBody struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	User           uuid.UUID `json:"user"`
	Course         uuid.UUID `json:"course"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

func TestStatus(t *testing.T) {
	api := newTestAPI(t, "0")
	w := api.do(http.MethodGet, "/v1/status", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPurchaseFlow(t *testing.T) {
	api := newTestAPI(t, "150.00")
	admin := api.login("admin", "admin123")
	client := api.register("alice")
	courseID := api.createCourse(admin, "CourseTitle", "100.00")

	w := api.do(http.MethodPost, "/v1/courses/"+courseID.String()+"/pay", client, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bought := decode[purchaseBody](t, w)
	assert.True(t, bought.Active)
	assert.Equal(t, courseID, bought.Course)

	w = api.do(http.MethodGet, "/v1/me/balance", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "50.00", decode[map[string]any](t, w)["balance"])

	w = api.do(http.MethodPost, "/v1/courses/"+courseID.String()+"/pay", client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_subscribed", decode[errorBody](t, w).Error.Code)

	w = api.do(http.MethodGet, "/v1/me/balance", client, nil)
	assert.Equal(t, "50.00", decode[map[string]any](t, w)["balance"])

	w = api.do(http.MethodGet, "/v1/me/subscriptions", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	subs := decode[struct {
		Subscriptions []purchaseBody `json:"subscriptions"`
	}](t, w)
	require.Len(t, subs.Subscriptions, 1)
	assert.Equal(t, bought.SubscriptionID, subs.Subscriptions[0].SubscriptionID)

	w = api.do(http.MethodGet, "/v1/courses/"+courseID.String()+"/groups", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[struct {
		Groups []models.GroupRoster `json:"groups"`
	}](t, w)
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, "CourseTitle - Group 1", groups.Groups[0].Name)
	require.Len(t, groups.Groups[0].Students, 1)
	assert.Equal(t, bought.User, groups.Groups[0].Students[0].ID)
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	api := newTestAPI(t, "10")
	admin := api.login("admin", "admin123")
	client := api.register("alice")
	courseID := api.createCourse(admin, "Expensive", "10.01")

	w := api.do(http.MethodPost, "/v1/courses/"+courseID.String()+"/pay", client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "insufficient_funds", decode[errorBody](t, w).Error.Code)

	w = api.do(http.MethodGet, "/v1/me/balance", client, nil)
	assert.Equal(t, "10.00", decode[map[string]any](t, w)["balance"])
}

func TestPurchaseErrors(t *testing.T) {
	api := newTestAPI(t, "10")
	client := api.register("alice")

	w := api.do(http.MethodPost, "/v1/courses/"+uuid.NewString()+"/pay", client, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[errorBody](t, w).Error.Code)

	w = api.do(http.MethodPost, "/v1/courses/not-a-uuid/pay", client, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", decode[errorBody](t, w).Error.Code)

	w = api.do(http.MethodPost, "/v1/courses/"+uuid.NewString()+"/pay", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionAccess(t *testing.T) {
	api := newTestAPI(t, "100")
	admin := api.login("admin", "admin123")
	alice := api.register("alice")
	bob := api.register("bob")
	courseID := api.createCourse(admin, "Go", "1")

	w := api.do(http.MethodPost, "/v1/courses/"+courseID.String()+"/pay", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	subPath := "/v1/subscriptions/" + decode[purchaseBody](t, w).SubscriptionID.String()

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, subPath, alice, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, subPath, admin, nil).Code)

	w = api.do(http.MethodGet, subPath, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", decode[errorBody](t, w).Error.Code)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/v1/subscriptions/"+uuid.NewString(), alice, nil).Code)
}

func TestLessonsRequireSubscription(t *testing.T) {
	api := newTestAPI(t, "100")
	admin := api.login("admin", "admin123")
	alice := api.register("alice")
	courseID := api.createCourse(admin, "Go", "1")
	lessonsPath := "/v1/courses/" + courseID.String() + "/lessons"

	w := api.do(http.MethodPost, lessonsPath, admin, gin.H{"title": "Intro", "link": "https://example.com/intro"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lessonID := decode[models.Lesson](t, w).ID

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, lessonsPath, alice, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/v1/lessons/"+lessonID.String(), alice, nil).Code)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/v1/courses/"+courseID.String()+"/pay", alice, nil).Code)

	w = api.do(http.MethodGet, lessonsPath, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lessons := decode[struct {
		Lessons []models.Lesson `json:"lessons"`
	}](t, w)
	assert.Len(t, lessons.Lessons, 1)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/v1/lessons/"+lessonID.String(), alice, nil).Code)
}

func TestAdminRoutesForbiddenForClients(t *testing.T) {
	api := newTestAPI(t, "100")
	admin := api.login("admin", "admin123")
	alice := api.register("alice")
	courseID := api.createCourse(admin, "Go", "1")

	w := api.do(http.MethodPost, "/v1/courses", alice, gin.H{"author": "a", "title": "t", "start_date": time.Now(), "price": "1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/v1/courses/"+courseID.String()+"/groups", alice, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/v1/courses/"+courseID.String()+"/groups", alice, nil).Code)
}

func TestCreateGroupManually(t *testing.T) {
	api := newTestAPI(t, "100")
	admin := api.login("admin", "admin123")
	courseID := api.createCourse(admin, "Go", "1")
	path := "/v1/courses/" + courseID.String() + "/groups"

	w := api.do(http.MethodPost, path, admin, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Go - Group 1", decode[models.Group](t, w).Name)

	w = api.do(http.MethodPost, path, admin, gin.H{"name": "Evening"})
	require.Equal(t, http.StatusCreated, w.Code)
	g := decode[models.Group](t, w)
	assert.Equal(t, "Evening", g.Name)
	assert.Equal(t, 2, g.Number)
}

func TestCourseCatalog(t *testing.T) {
	api := newTestAPI(t, "100")
	admin := api.login("admin", "admin123")
	alice := api.register("alice")
	goID := api.createCourse(admin, "Go Basics", "1")
	api.createCourse(admin, "Rust", "1")
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/v1/courses/"+goID.String()+"/pay", alice, nil).Code)

	w := api.do(http.MethodGet, "/v1/courses?limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Total   int                   `json:"total"`
		Courses []models.CourseDetail `json:"courses"`
	}](t, w)
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Courses, 2)

	w = api.do(http.MethodGet, "/v1/courses/"+goID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[models.CourseDetail](t, w)
	assert.Equal(t, 1, detail.StudentsCount)
	assert.Equal(t, 3, detail.GroupsFilledPercent)
	// two users exist: admin and alice
	assert.InDelta(t, 50.0, detail.DemandCoursePercent, 0.0001)

	w = api.do(http.MethodGet, "/v1/courses/search?q=rust", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode[map[string]any](t, w)["total"])

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/v1/courses/search", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/v1/courses?limit=0", "", nil).Code)
}

func TestLogoUploadDisabledWithoutStorage(t *testing.T) {
	api := newTestAPI(t, "100")
	admin := api.login("admin", "admin123")
	courseID := api.createCourse(admin, "Go", "1")

	var body bytes.Buffer
	mw := multipartPNG(t, &body)
	req := httptest.NewRequest(http.MethodPut, "/v1/courses/"+courseID.String()+"/logo", &body)
	req.Header.Set("Content-Type", mw)
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMe(t *testing.T) {
	api := newTestAPI(t, "100")
	alice := api.register("alice")

	w := api.do(http.MethodGet, "/v1/me", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[map[string]any](t, w)["username"])

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/v1/me", "not-a-token", nil).Code)
}

func TestRegisterDuplicate(t *testing.T) {
	api := newTestAPI(t, "100")
	api.register("alice")

	w := api.do(http.MethodPost, "/v1/auth/register", "", gin.H{
		"username": "alice",
		"password": "secret1",
		"email":    "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

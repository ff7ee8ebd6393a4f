package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsbe/internal/model"
	"mailsbe/internal/service"
)

type memUserStore struct {
	byEmail map[string]*model.User
	nextID  int
}

func (s *memUserStore) Create(ctx context.Context, u *model.User) error {
	s.nextID++
	u.ID = s.nextID
	s.byEmail[u.Email] = u
	return nil
}

func (s *memUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

type memTrackedEmailStore struct {
	emails []*model.Email
	nextID int
}

func (s *memTrackedEmailStore) Create(ctx context.Context, e *model.Email) (int, error) {
	s.nextID++
	copied := *e
	copied.ID = s.nextID
	s.emails = append(s.emails, &copied)
	return s.nextID, nil
}

func (s *memTrackedEmailStore) ListByUser(ctx context.Context, userID int) ([]model.Email, error) {
	out := []model.Email{}
	for _, e := range s.emails {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

type memNotificationStore struct {
	notifications []model.Notification
}

func (s *memNotificationStore) ListByUser(ctx context.Context, userID int) ([]model.Notification, error) {
	out := []model.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

const testSecret = "test-secret"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(&memUserStore{byEmail: map[string]*model.User{}}, testSecret)
	trackingService := service.NewTrackingService(&memTrackedEmailStore{}, &fakePublisher{}, "https://track.example.com")

	authHandler := NewAuthHandler(authService)
	emailHandler := NewEmailHandler(trackingService)
	notificationHandler := NewNotificationHandler(&memNotificationStore{})

	return NewRouter(authHandler, emailHandler, notificationHandler, testSecret).Engine
}

func doJSON(r *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginCreateList(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = doJSON(r, http.MethodPost, "/emails", login.Token, gin.H{
		"recipient":   "reader@example.com",
		"description": "Q3 report",
		"sender_name": "Alex",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		EmailID  int    `json:"email_id"`
		Token    string `json:"token"`
		PixelURL string `json:"pixel_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Contains(t, created.PixelURL, "/img?text="+created.Token)

	w = doJSON(r, http.MethodGet, "/emails", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Emails []struct {
			Recipient string `json:"recipient"`
			Seen      bool   `json:"seen"`
		} `json:"emails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Emails, 1)
	assert.Equal(t, "reader@example.com", list.Emails[0].Recipient)
	assert.False(t, list.Emails[0].Seen)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/emails", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/emails", "garbage-token", gin.H{
		"recipient": "reader@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// brokenUserStore fails every call, simulating a store outage.
type brokenUserStore struct{}

func (brokenUserStore) Create(ctx context.Context, u *model.User) error {
	return errors.New("pg: connection refused")
}

func (brokenUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errors.New("pg: connection refused")
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/register", "", gin.H{
		"email":    "alex@example.com",
		"password": "otherpassword",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "email already exists", body["error"])
}

func TestRegister_StoreOutageIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(service.NewAuthService(brokenUserStore{}, testSecret))
	r := gin.New()
	r.POST("/register", handler.Register)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to register", body["error"])
	assert.NotContains(t, w.Body.String(), "connection refused",
		"store internals must not leak to clients")
}

func TestCreateEmail_InvalidRecipient(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/register", "", gin.H{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "alex@example.com",
		"password": "hunter2hunter2",
	})
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = doJSON(r, http.MethodPost, "/emails", login.Token, gin.H{
		"recipient": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

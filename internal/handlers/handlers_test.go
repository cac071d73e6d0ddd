package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"shoplist/internal/auth"
	"shoplist/internal/domain"
	"shoplist/internal/service"
)

// In-memory repositories backing full-router tests. They reproduce
// the database contract the services rely on: pgx.ErrNoRows for rows
// that are missing or foreign, and the one-open-list unique index.

type memUserRepo struct {
	users map[string]domain.User
}

func (r *memUserRepo) GetByName(_ context.Context, name string) (domain.User, error) {
	u, ok := r.users[name]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

type memListRepo struct {
	lists []domain.ShoppingList
	items map[uuid.UUID][]domain.Item
}

func newMemListRepo() *memListRepo {
	return &memListRepo{items: map[uuid.UUID][]domain.Item{}}
}

func (r *memListRepo) addList(userID uuid.UUID, open bool) domain.ShoppingList {
	now := time.Now().UTC()
	l := domain.ShoppingList{ID: uuid.New(), UserID: userID, Open: open, Created: now, Updated: now}
	r.lists = append(r.lists, l)
	return l
}

func (r *memListRepo) addItem(listID uuid.UUID, name string, open bool) domain.Item {
	now := time.Now().UTC()
	it := domain.Item{
		ID: uuid.New(), ListID: listID, Name: name, Open: open,
		Position: len(r.items[listID]), Created: now, Updated: now,
	}
	r.items[listID] = append(r.items[listID], it)
	return it
}

func (r *memListRepo) CreateWithItems(_ context.Context, userID uuid.UUID, open bool, items []domain.Item) (domain.ShoppingList, error) {
	list := r.addList(userID, open)
	for _, it := range items {
		r.addItem(list.ID, it.Name, it.Open)
	}
	return list, nil
}

func (r *memListRepo) ListByUser(_ context.Context, userID uuid.UUID, open *bool) ([]domain.ShoppingList, error) {
	var out []domain.ShoppingList
	for _, l := range r.lists {
		if l.UserID != userID {
			continue
		}
		if open != nil && l.Open != *open {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *memListRepo) GetOwned(_ context.Context, userID, listID uuid.UUID) (domain.ShoppingList, error) {
	for _, l := range r.lists {
		if l.ID == listID && l.UserID == userID {
			return l, nil
		}
	}
	return domain.ShoppingList{}, pgx.ErrNoRows
}

func (r *memListRepo) HasOpenList(_ context.Context, userID uuid.UUID, exclude *uuid.UUID) (bool, error) {
	for _, l := range r.lists {
		if l.UserID == userID && l.Open && (exclude == nil || l.ID != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memListRepo) SetOpen(_ context.Context, userID, listID uuid.UUID, open bool) (domain.ShoppingList, error) {
	for i, l := range r.lists {
		if l.ID == listID && l.UserID == userID {
			r.lists[i].Open = open
			r.lists[i].Updated = time.Now().UTC()
			return r.lists[i], nil
		}
	}
	return domain.ShoppingList{}, pgx.ErrNoRows
}

func (r *memListRepo) ItemsByList(_ context.Context, listID uuid.UUID) ([]domain.Item, error) {
	return r.items[listID], nil
}

func (r *memListRepo) SetItemOpen(_ context.Context, listID, itemID uuid.UUID, open bool) (domain.Item, error) {
	for i, it := range r.items[listID] {
		if it.ID == itemID {
			r.items[listID][i].Open = open
			r.items[listID][i].Updated = time.Now().UTC()
			return r.items[listID][i], nil
		}
	}
	return domain.Item{}, pgx.ErrNoRows
}

// testEnv wires the real handlers, services and middleware over the
// in-memory repositories, the same way app.Setup does over Postgres.
type testEnv struct {
	router   *gin.Engine
	listRepo *memListRepo
	users    map[string]domain.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		listRepo: newMemListRepo(),
		users:    map[string]domain.User{},
	}
	userRepo := &memUserRepo{users: env.users}

	tokens := auth.NewTokenIssuer("test-secret", time.Minute)
	userSvc := service.NewUserService(userRepo)
	listSvc := service.NewListService(env.listRepo, nil)

	r := gin.New()
	r.POST("/auth/", NewAuthHandler(tokens, userSvc).Token)
	h := NewListHandler(listSvc)
	protected := r.Group("", auth.RequireToken(tokens, userSvc))
	protected.GET("/lists/", h.List)
	protected.POST("/lists/", h.Create)
	protected.PUT("/lists/:list_id/", h.Update)
	protected.GET("/lists/:list_id/items/", h.Items)
	protected.PUT("/lists/:list_id/items/:item_id/", h.UpdateItem)

	env.router = r
	return env
}

func (e *testEnv) seedUser(t *testing.T, name, password string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now().UTC()
	u := domain.User{ID: uuid.New(), Name: name, PasswordHash: string(hash), Created: now, Updated: now}
	e.users[name] = u
	return u
}

// authenticate runs the real token endpoint and returns the token.
func (e *testEnv) authenticate(t *testing.T, username, password string) string {
	t.Helper()
	form := url.Values{"grant_type": {"password"}, "username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("auth status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q", resp.TokenType)
	}
	return resp.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

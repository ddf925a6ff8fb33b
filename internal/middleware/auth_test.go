package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homestead/homestead-go/internal/model"
	"github.com/homestead/homestead-go/internal/session"
)

type fakeLoader struct {
	users map[int64]*model.User
}

func (l *fakeLoader) UserByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := l.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func TestCurrentUserAnonymous(t *testing.T) {
	store := session.NewStore("test-secret", time.Hour, false)
	mw := CurrentUser(store, &fakeLoader{})

	var sawUser bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = UserFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if sawUser {
		t.Error("request without a cookie should stay anonymous")
	}
}

func TestCurrentUserResolves(t *testing.T) {
	store := session.NewStore("test-secret", time.Hour, false)
	loader := &fakeLoader{users: map[int64]*model.User{
		42: {ID: 42, Email: "me@x.com", FirstName: "Sam", Team: model.TeamBlue},
	}}
	mw := CurrentUser(store, loader)

	cookieRec := httptest.NewRecorder()
	if err := store.Create(cookieRec, 42); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookieRec.Result().Cookies() {
		r.AddCookie(c)
	}

	var got *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	})

	mw(next).ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.ID != 42 {
		t.Fatalf("resolved user = %+v, want id 42", got)
	}
}

func TestCurrentUserVanishedUser(t *testing.T) {
	store := session.NewStore("test-secret", time.Hour, false)
	mw := CurrentUser(store, &fakeLoader{})

	cookieRec := httptest.NewRecorder()
	if err := store.Create(cookieRec, 7); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookieRec.Result().Cookies() {
		r.AddCookie(c)
	}

	var sawUser bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawUser = UserFromContext(r.Context())
	})

	mw(next).ServeHTTP(httptest.NewRecorder(), r)

	if sawUser {
		t.Error("session for a vanished user should degrade to anonymous")
	}
}

func TestRequireUserRedirects(t *testing.T) {
	handler := RequireUser(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for anonymous requests")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAnonymousRedirects(t *testing.T) {
	handler := RequireAnonymous(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for authenticated requests")
	})

	ctx := context.WithValue(context.Background(), userKey, &model.User{ID: 1})
	r := httptest.NewRequest(http.MethodGet, "/login", nil).WithContext(ctx)

	rec := httptest.NewRecorder()
	handler(rec, r)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/me" {
		t.Errorf("Location = %q, want /me", loc)
	}
}

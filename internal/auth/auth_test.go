package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BERTool/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv() *Authenv {
	return New([]byte("test-key"), repo.NewMemory(), time.Hour, false, nil)
}

func do(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/x", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func protected() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "login": Login(r.Context())})
	})
}

func TestRegisterLoginAndAccess(t *testing.T) {
	env := newEnv()

	rec := do(env.RegisterHandler, `{"login":"anna","password":"secret1","email":"anna@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)

	rec = do(env.AuthHandler, `{"login":"anna","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	mw := env.AuthMiddleware(protected())

	req := httptest.NewRequest(http.MethodGet, "/api/user/assessments", nil)
	req.AddCookie(cookies[0])
	out := httptest.NewRecorder()
	mw.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), `"login":"anna"`)

	req = httptest.NewRequest(http.MethodGet, "/api/user/assessments", nil)
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	out = httptest.NewRecorder()
	mw.ServeHTTP(out, req)
	assert.Equal(t, http.StatusOK, out.Code)
}

func TestRegister_Errors(t *testing.T) {
	env := newEnv()
	require.Equal(t, http.StatusCreated, do(env.RegisterHandler, `{"login":"bob","password":"secret1","email":"bob@example.com"}`).Code)

	assert.Equal(t, http.StatusConflict, do(env.RegisterHandler, `{"login":"bob","password":"secret2","email":"b@example.com"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(env.RegisterHandler, `{"login":"carl","password":"123","email":"c@example.com"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(env.RegisterHandler, `{"login":"carl","password":"secret1","email":"not-an-email"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(env.RegisterHandler, `{`).Code)
}

func TestLogin_Rejected(t *testing.T) {
	env := newEnv()
	require.Equal(t, http.StatusCreated, do(env.RegisterHandler, `{"login":"dora","password":"secret1","email":"d@example.com"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, do(env.AuthHandler, `{"login":"dora","password":"wrong!!"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, do(env.AuthHandler, `{"login":"nobody","password":"secret1"}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(env.AuthHandler, `{"login":"dora"}`).Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	env := newEnv()
	mw := env.AuthMiddleware(protected())

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "login": "x", "exp": time.Now().Add(time.Hour).Unix()})
	forgedToken, err := forged.SignedString([]byte("other-key"))
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "login": "x", "exp": time.Now().Add(-time.Hour).Unix()})
	expiredToken, err := expired.SignedString(env.JWTkey)
	require.NoError(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	anonymousToken, err := anonymous.SignedString(env.JWTkey)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"forged":    "Bearer " + forgedToken,
		"expired":   "Bearer " + expiredToken,
		"anonymous": "Bearer " + anonymousToken,
		"garbage":   "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/assessments", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"kind":"unauthorized"`)
		})
	}
}

func TestLogout(t *testing.T) {
	rec := httptest.NewRecorder()
	newEnv().LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:" + string(rune('1'+i)) + "000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

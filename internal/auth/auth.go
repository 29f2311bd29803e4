// Package auth issues and checks session tokens and rate-limits clients.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"BERTool/internal/apperr"
	"BERTool/internal/httpx"
	"BERTool/internal/repo"
	"BERTool/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userLoginKey contextKey = "userLogin"

	CookieName = "session_token"
)

type Authenv struct {
	JWTkey       []byte
	Repo         repo.Repository
	TTL          time.Duration
	SecureCookie bool
	Log          *slog.Logger

	validate *validator.Validator
}

func New(key []byte, r repo.Repository, ttl time.Duration, secure bool, log *slog.Logger) *Authenv {
	return &Authenv{JWTkey: key, Repo: r, TTL: ttl, SecureCookie: secure, Log: log, validate: validator.New()}
}

type Loginrequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Registerrequest struct {
	Login    string `json:"login" validate:"required,max=64"`
	Password string `json:"password" validate:"min=6"`
	Email    string `json:"email" validate:"required,email"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type claims struct {
	UserID int    `json:"user_id"`
	Login  string `json:"login"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// UserID returns the authenticated user id stored by AuthMiddleware.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id > 0
}

func Login(ctx context.Context) string {
	login, _ := ctx.Value(userLoginKey).(string)
	return login
}

// WithUser stores a user in ctx the way AuthMiddleware does.
func WithUser(ctx context.Context, id int, login string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, userLoginKey, login)
}

func (env *Authenv) parse(tokenString string) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, apperr.Wrap(apperr.KindUnauthorized, "Invalid token", err)
	}
	if c.UserID <= 0 || c.Login == "" {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return c, nil
}

func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware accepts a bearer token or the session cookie and answers
// 401 otherwise.
func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearer(r)
		if tokenString == "" {
			httpx.Error(w, env.Log, r, apperr.Unauthorized("Authentication required"))
			return
		}
		c, err := env.parse(tokenString)
		if err != nil {
			httpx.Error(w, env.Log, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), c.UserID, c.Login)))
	})
}

func (env *Authenv) issue(w http.ResponseWriter, userID int, login string) (TokenResponse, error) {
	expiration := time.Now().Add(env.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Login:  login,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	tokenString, err := token.SignedString(env.JWTkey)
	if err != nil {
		return TokenResponse{}, apperr.Wrap(apperr.KindInternal, "Token error", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   env.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return TokenResponse{Token: tokenString, ExpiresAt: expiration}, nil
}

func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req Registerrequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	if err := env.validate.Struct(req); err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		httpx.Error(w, env.Log, r, apperr.Wrap(apperr.KindInternal, "Error hashing password", err))
		return
	}
	id, err := env.Repo.CreateUser(r.Context(), req.Login, req.Email, hashedPassword)
	if err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}
	resp, err := env.issue(w, id, req.Login)
	if err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, resp)
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if err := env.validate.Struct(req); err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}

	id, storedHash, err := env.Repo.GetByLogin(r.Context(), req.Login)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		httpx.Error(w, env.Log, r, err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		httpx.Error(w, env.Log, r, apperr.Unauthorized("Invalid login or password"))
		return
	}
	resp, err := env.issue(w, id, req.Login)
	if err != nil {
		httpx.Error(w, env.Log, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (env *Authenv) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   env.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

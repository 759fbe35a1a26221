package handle

import (
	"context"
	"net/http"
	"time"

	"food-ordering/internal/storefront/app/core"
	"food-ordering/internal/storefront/app/services"
	"food-ordering/internal/storefront/domain/models"
	"food-ordering/internal/xpkg/logger"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionKey
	userKey
)

const requestIDHeader = "X-Request-ID"

// UserResolver turns an auth token into a user.
type UserResolver interface {
	Resolve(ctx context.Context, token string) (models.User, error)
}

type Middleware struct {
	users         UserResolver
	secureCookies bool
	mylog         logger.Logger
}

func NewMiddleware(users UserResolver, secureCookies bool, mylog logger.Logger) *Middleware {
	return &Middleware{
		users:         users,
		secureCookies: secureCookies,
		mylog:         mylog,
	}
}

// Wrap runs the request id, guest session and identity steps before next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return m.requestID(m.session(m.identity(next)))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (m *Middleware) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

		m.mylog.Action("http_request").Debug("Request served",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// session makes sure every caller carries a guest session id.
func (m *Middleware) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if c, err := r.Cookie(core.SessionCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     core.SessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(core.SessionTTL / time.Second),
				HttpOnly: true,
				Secure:   m.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sessionID)))
	})
}

// identity attaches the logged in user when the auth cookie resolves. A bad
// cookie leaves the request unauthenticated.
func (m *Middleware) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(core.AuthCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.Resolve(r.Context(), c.Value)
		if err != nil {
			m.mylog.Action("auth_cookie_rejected").Debug("Auth cookie did not resolve", "request_id", requestID(r), "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, &user)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func identity(r *http.Request) services.Identity {
	sessionID, _ := r.Context().Value(sessionKey).(string)
	user, _ := r.Context().Value(userKey).(*models.User)
	return services.Identity{SessionID: sessionID, User: user}
}

// authorize writes the error response and returns false when the caller lacks scope.
func authorize(w http.ResponseWriter, r *http.Request, mylog logger.Logger, scope services.Scope) bool {
	if err := services.Authorize(identity(r), scope); err != nil {
		serviceError(w, mylog, err)
		return false
	}
	return true
}

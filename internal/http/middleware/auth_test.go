package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/portalsvc/domain"
	"github.com/you/portalsvc/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

func newTestEnforcer(t *testing.T, policies [][]string) *casbin.Enforcer {
	t.Helper()
	m, err := model.NewModelFromString(testModel)
	require.NoError(t, err)
	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	for _, p := range policies {
		_, err := e.AddPolicy(p[0], p[1], p[2])
		require.NoError(t, err)
	}
	return e
}

func sessionRouter(sessions *mocks.MockSessionStore, resolver *mocks.MockProfileResolver, enforcer *casbin.Enforcer) *gin.Engine {
	smw := NewSessionMW(sessions, resolver)
	cb := NewCasbinMW(enforcer, mocks.NewMockAuditLogger())

	r := gin.New()
	g := r.Group("/").Use(smw.WithSession(), cb.Enforce())
	g.GET("/patients", func(c *gin.Context) {
		role, _ := c.Get(CtxRole)
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMW_MissingToken(t *testing.T) {
	r := sessionRouter(mocks.NewMockSessionStore(), mocks.NewMockProfileResolver(), newTestEnforcer(t, nil))
	w := get(r, "/patients", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMW_UnknownToken(t *testing.T) {
	r := sessionRouter(mocks.NewMockSessionStore(), mocks.NewMockProfileResolver(), newTestEnforcer(t, nil))
	w := get(r, "/patients", "tok_unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMW_ExpiredSession(t *testing.T) {
	sessions := mocks.NewMockSessionStore()
	sessions.LoadFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return nil, domain.ErrSessionExpired
	}

	r := sessionRouter(sessions, mocks.NewMockProfileResolver(), newTestEnforcer(t, nil))
	w := get(r, "/patients", "tok_1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestSessionAndCasbin_AdminAllowed(t *testing.T) {
	sessions := mocks.NewMockSessionStore()
	sessions.LoadFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return &domain.Session{Token: token, Phone: "+6581234567", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	resolver := mocks.NewMockProfileResolver()
	resolver.ResolveFunc = func(ctx context.Context, phone, roleHint string) (*domain.UserProfile, error) {
		return &domain.UserProfile{ID: "A_1", Phone: phone, ProfileType: domain.RoleAdmin}, nil
	}

	enforcer := newTestEnforcer(t, [][]string{{"role_admin", "/*", "GET|POST|PUT|DELETE"}})
	w := get(sessionRouter(sessions, resolver, enforcer), "/patients", "tok_1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin")
}

func TestSessionAndCasbin_PatientDenied(t *testing.T) {
	sessions := mocks.NewMockSessionStore()
	sessions.LoadFunc = func(ctx context.Context, token string) (*domain.Session, error) {
		return &domain.Session{Token: token, Phone: "+6581234567", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}

	// Patient has no policy for /patients
	enforcer := newTestEnforcer(t, [][]string{{"role_patient", "/auth/*", "GET|POST"}})
	w := get(sessionRouter(sessions, mocks.NewMockProfileResolver(), enforcer), "/patients", "tok_1")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

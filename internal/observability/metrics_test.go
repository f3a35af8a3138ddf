package observability

import (
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/animation-service/internal/domain"
)

func TestMetrics_Counts(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/user", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/user", "GET", 200, time.Millisecond)
	m.RecordError("/api/user", "POST", "CONFLICT")
	m.RecordAuthDecision(domain.CapabilityAdminRole, domain.Allow())
	m.RecordAuthDecision(domain.CapabilityAdminRole, domain.Deny(domain.ReasonExpiredToken))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/user", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("/api/user", "POST", "CONFLICT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthDecisions.WithLabelValues("ADMIN_ROLE", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthDecisions.WithLabelValues("ADMIN_ROLE", "EXPIRED_TOKEN")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
		m.RecordAuthDecision(domain.CapabilityAnyAuthenticated, domain.Allow())
	})
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordAuthDecision(domain.CapabilityAnyAuthenticated, domain.Deny(domain.ReasonNoCredentials))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50.0, testutil.ToFloat64(m.AuthDecisions.WithLabelValues("ANY_AUTHENTICATED", "NO_CREDENTIALS")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordAuthDecision(domain.CapabilityAnyAuthenticated, domain.Allow())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "animation_service_auth_decisions_total")
}

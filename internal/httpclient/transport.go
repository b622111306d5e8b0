package httpclient

import (
	"net/http"
	"time"

	"github.com/AQUACY/AGHIMS/pkg/logger"
	"github.com/AQUACY/AGHIMS/pkg/monitoring"
	"github.com/AQUACY/AGHIMS/pkg/storage"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// authTransport is the request interceptor: it attaches the bearer
// token and a request ID to every outgoing request immediately before
// transmission, and records metrics and traces around the exchange.
//
// The token is read from the persisted store rather than the in-memory
// session so requests fired before the session hydrates still carry
// credentials. The read happens per request: concurrent logins and
// logouts can race with in-flight requests, which is accepted because
// identity errors surface at the response layer.
type authTransport struct {
	base    http.RoundTripper
	store   storage.Store
	logger  *logger.Logger
	metrics *monitoring.Metrics
	tracing *monitoring.TracingManager
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone before mutating; the caller may retry the original request.
	req = req.Clone(req.Context())

	if token, ok := t.store.Get(storage.KeyAuthToken); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	var span trace.Span
	if t.tracing != nil {
		var ctx = req.Context()
		ctx, span = t.tracing.StartRequestSpan(ctx, req.Method, req.URL.Path)
		req = req.WithContext(ctx)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	if t.metrics != nil {
		t.metrics.RecordRequest(req.Method, statusCode, duration)
	}
	if span != nil {
		t.tracing.EndRequestSpan(span, statusCode, err)
	}
	t.logger.HTTPRequest(req.Method, req.URL.Path, statusCode, duration.Milliseconds())

	return resp, err
}

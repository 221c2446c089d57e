package querygateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ferro-labs/query-gateway/internal/auditlog"
	"github.com/ferro-labs/query-gateway/internal/event"
	"github.com/ferro-labs/query-gateway/internal/logging"
	"github.com/ferro-labs/query-gateway/internal/metrics"
)

// auditTimeout bounds the fire-and-forget audit write.
const auditTimeout = 5 * time.Second

// Handle processes one platform invocation payload and returns the
// outbound envelope. A payload with no usable query text yields a 400
// without touching the router, the fetchers, or the audit sink; every
// other payload yields a 200 carrying the merged result. The audit write
// happens off the request path and its failure never reaches the caller.
func (g *Gateway) Handle(ctx context.Context, payload []byte) event.Envelope {
	log := logging.FromContext(ctx)

	rawQuery := event.ExtractQuery(payload)
	if rawQuery == "" {
		log.Error("missing query in invocation payload")
		return event.ErrorJSON(http.StatusBadRequest, "Missing query")
	}

	result := g.Process(ctx, rawQuery)
	body, _ := json.Marshal(result)

	g.submitAudit(ctx, rawQuery, string(body))

	return event.JSON(http.StatusOK, body)
}

// submitAudit writes the query/response pair to the audit sink in the
// background. The write gets a fresh context so response completion or
// client disconnect cannot cancel it, and a deadline so it cannot hang.
func (g *Gateway) submitAudit(ctx context.Context, rawQuery, responseJSON string) {
	g.mu.RLock()
	writer := g.audit
	g.mu.RUnlock()
	if _, ok := writer.(auditlog.NoopWriter); ok {
		return
	}

	traceID := logging.TraceIDFromContext(ctx)
	go func() {
		auditCtx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		defer cancel()

		entry := auditlog.Entry{
			Timestamp: time.Now().UTC(),
			Query:     rawQuery,
			Response:  responseJSON,
		}
		if err := writer.Write(auditCtx, entry); err != nil {
			metrics.AuditLogFailures.Inc()
			logging.Logger.Error("audit log write failed", "trace_id", traceID, "error", err)
		}
	}()
}

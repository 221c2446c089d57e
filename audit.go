package querygateway

import (
	"context"
	"fmt"

	"github.com/ferro-labs/query-gateway/internal/auditlog"
)

// NewAuditWriter builds the audit sink selected by cfg. The returned
// close function releases sink resources and is safe to call even for
// sinks that hold none.
func NewAuditWriter(ctx context.Context, cfg AuditConfig) (auditlog.Writer, func(), error) {
	noClose := func() {}

	switch cfg.Sink {
	case "", SinkNone:
		return auditlog.NoopWriter{}, noClose, nil
	case SinkSQLite:
		w, err := auditlog.NewSQLiteWriter(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return w, func() { _ = w.Close() }, nil
	case SinkPostgres:
		w, err := auditlog.NewPostgresWriter(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return w, func() { _ = w.Close() }, nil
	case SinkDynamoDB:
		w, err := auditlog.NewDynamoWriter(ctx, cfg.Table, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return w, noClose, nil
	case SinkKafka:
		w, err := auditlog.NewKafkaWriter(cfg.Brokers, cfg.Topic)
		if err != nil {
			return nil, nil, err
		}
		return w, w.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown audit sink: %q", cfg.Sink)
	}
}

package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InjectTraceID attaches a logger carrying a fresh trace id to the context,
// so every log line emitted during this process run shares it.
func InjectTraceID(ctx context.Context) context.Context {
	logger := log.With().Str("traceId", uuid.NewString()).Logger()
	return logger.WithContext(ctx)
}

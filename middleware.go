package charql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Params is a single GraphQL request as received over HTTP.
type Params struct {
	Query         string
	Variables     map[string]interface{}
	OperationName string
}

// HandlerFunc executes one GraphQL request.
type HandlerFunc func(ctx context.Context, params *Params) *graphql.Result

// MiddlewareFunc decorates query execution, e.g. for logging or metrics.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// LoggingMiddleware logs every executed operation. Operations that produced
// errors are logged at warn level.
func LoggingMiddleware(logger *zap.Logger) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, params *Params) *graphql.Result {
			start := time.Now()
			result := next(ctx, params)

			fields := []zap.Field{
				zap.String("request_id", RequestID(ctx)),
				zap.String("operation", params.OperationName),
				zap.Duration("took", time.Since(start)),
				zap.Int("errors", len(result.Errors)),
			}
			if result.HasErrors() {
				fields = append(fields, zap.String("first_error", result.Errors[0].Message))
				logger.Warn("graphql operation failed", fields...)
				return result
			}
			logger.Info("graphql operation", fields...)
			return result
		}
	}
}

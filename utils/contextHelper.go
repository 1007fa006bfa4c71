package utils

import "context"

type contextKey string

const ContextKeyCorrelationId contextKey = "correlationId"

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationId, correlationId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	correlationId, ok := ctx.Value(ContextKeyCorrelationId).(string)
	return correlationId, ok
}

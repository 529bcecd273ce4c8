package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const requestDataKey ctxKey = "request_data"

// RequestData is the per-request identity attached after authentication.
type RequestData struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, _ := ctx.Value(requestDataKey).(*RequestData)
	return rd
}

// GetUserID returns uuid.Nil when the request is unauthenticated.
func GetUserID(ctx context.Context) uuid.UUID {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

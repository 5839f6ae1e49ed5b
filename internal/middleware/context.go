package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/model"
)

type ctxKey string

const (
	ctxCorrelationID ctxKey = "correlation_id"
	ctxUserID        ctxKey = "user_id"
)

func stringValue(ctx context.Context, key ctxKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// GetCorrelationID returns "" outside a request or consumed event.
func GetCorrelationID(ctx context.Context) string { return stringValue(ctx, ctxCorrelationID) }

// WithCorrelationID is used outside HTTP, for example by event consumers.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, id)
}

// GetUserID is the authenticated subject set by AuthJWT.
func GetUserID(ctx context.Context) string { return stringValue(ctx, ctxUserID) }

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserID, userID)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Detail:        detail,
		CorrelationID: GetCorrelationID(r.Context()),
	})
}

package middleware

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Reporter forwards request failures to an error tracker. *rollbar.Client
// satisfies it.
type Reporter interface {
	RequestError(level string, r *http.Request, err error)
}

// LevelCritical matches rollbar.CRIT. Importing rollbar-go here would start
// its transport goroutine in every package that uses the HTTP client.
const LevelCritical = "critical"

func Recover(logger *zap.Logger, reporter Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				logger.Error("panic",
					zap.Error(err),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("correlation_id", GetCorrelationID(r.Context())),
					zap.Stack("stack"),
				)
				if reporter != nil {
					reporter.RequestError(LevelCritical, r, err)
				}
				writeError(w, r, http.StatusInternalServerError, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}

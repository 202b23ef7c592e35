package middleware

import (
	"net/http"
	"strings"

	"github.com/deliveryservices/backend/pkg/logger"
)

const actorHeader = "X-Actor-Name"

// ActorContext records the back-office user named in the request headers so
// status changes can be attributed in the audit log.
func ActorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(actorHeader))
			if actor == "" {
				actor = "system"
			}

			ctx := WithActor(r.Context(), actor)
			if logg != nil {
				ctx = logg.WithActor(ctx, actor)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

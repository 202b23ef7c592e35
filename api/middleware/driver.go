package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/deliveryservices/backend/api/responses"
	pkgerrors "github.com/deliveryservices/backend/pkg/errors"
	"github.com/deliveryservices/backend/pkg/logger"
)

const driverIDHeader = "X-Driver-Id"

// DriverContext requires a driver identifier on portal routes. The upstream
// gateway authenticates the driver and forwards the id in a trusted header.
func DriverContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(driverIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "driver id header is required"))
				return
			}
			driverID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver id header"))
				return
			}

			ctx := WithDriverID(r.Context(), driverID.String())
			if logg != nil {
				ctx = logg.WithDriverID(ctx, driverID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

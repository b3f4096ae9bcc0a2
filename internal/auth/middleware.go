package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/errors"
)

// Session identifies the caller of a protected procedure.
type Session struct {
	ID     string
	UserID uuid.UUID
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// RequireSession rejects requests without a live session and attaches
// the session to the request context otherwise.
func RequireSession(store SessionStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := EchoCookies(c).Get(SessionCookieName)
			if !ok {
				return toHTTPError(errors.ErrUnauthorized)
			}

			req := c.Request()
			userID, found, err := store.Get(req.Context(), token)
			if err != nil {
				c.Logger().Errorf("session lookup: %v", err)
				return toHTTPError(err)
			}
			if !found {
				return toHTTPError(errors.ErrInvalidSession)
			}

			c.SetRequest(req.WithContext(WithSession(req.Context(), Session{ID: token, UserID: userID})))
			return next(c)
		}
	}
}

func toHTTPError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

const ctxActiveSessionKey = "activeSession"

// activeSessionMiddleware loads the active session into the context, or responds 404 when there is none.
func activeSessionMiddleware(svc *attendance.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			info, ok, err := svc.ActiveSession(ctx.Request().Context())
			if err != nil {
				return errors.Wrap(err, "getting active session")
			}
			if !ok {
				return errNoActiveSession
			}
			ctx.Set(ctxActiveSessionKey, info)
			return next(ctx)
		}
	}
}

func getActiveSession(ctx echo.Context) (attendance.ActiveSessionInfo, error) {
	info, ok := ctx.Get(ctxActiveSessionKey).(attendance.ActiveSessionInfo)
	if !ok {
		return attendance.ActiveSessionInfo{}, errors.New("active session not found in echo.Context")
	}
	return info, nil
}

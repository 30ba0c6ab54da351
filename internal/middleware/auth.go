package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// IdentityResolver maps an identity token to a user id.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Auth resolves the bearer token before the request reaches a handler and
// stamps the resolved user id into the X-User-ID header. Resolution happens
// here, outside the serialized mutation path.
func Auth(resolver IdentityResolver, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := ExtractToken(ctx)
			if token == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			stdCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			userID, err := resolver.Resolve(stdCtx, token)
			cancel()
			if err != nil {
				logger.Warn("identity token rejected", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			ctx.Request.Header.Set("X-User-ID", userID)
			next(ctx)
		}
	}
}

// ExtractToken pulls the bearer token from the Authorization header.
func ExtractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

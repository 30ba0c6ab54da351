package handler

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/boardsync/backend/pkg/httpcontext"
	"github.com/boardsync/backend/repository"
)

type UserHandler struct {
	baseHandler
	directory repository.UserDirectory
}

func NewUserHandler(directory repository.UserDirectory, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		directory:   directory,
	}
}

// @Summary List users
// @Tags users
// @Router /api/v1/users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.directory.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, users, len(users))
}

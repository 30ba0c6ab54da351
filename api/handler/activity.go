package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/boardsync/backend/internal/infrastructure/archive"
	"github.com/boardsync/backend/pkg/httpcontext"
	"github.com/boardsync/backend/usecase/activity"
)

type ActivityHandler struct {
	baseHandler
	log     *activity.Log
	archive *archive.Store
}

// NewActivityHandler serves the live activity window and, when configured,
// the durable archive. A nil archive disables the archive route's data.
func NewActivityHandler(log *activity.Log, arch *archive.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		log:         log,
		archive:     arch,
	}
}

// @Summary Recent activity
// @Tags activities
// @Router /api/v1/activities [get]
func (h *ActivityHandler) Recent(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)
	entries := h.log.Recent(limit)
	h.respondList(ctx, entries, len(entries))
}

// @Summary Archived activity
// @Tags activities
// @Router /api/v1/activities/archive [get]
func (h *ActivityHandler) Archived(ctx *fasthttp.RequestCtx) {
	if h.archive == nil {
		h.respondSuccess(ctx, http.StatusOK, nil)
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 50)
	entries, err := h.archive.List(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondList(ctx, entries, len(entries))
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

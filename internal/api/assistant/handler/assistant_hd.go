package assistantHandler

import (
	"strconv"
	"time"

	"ArdenGolang/internal/api/assistant"
	contextPkg "ArdenGolang/pkg/context"
	"ArdenGolang/pkg/handlerUtil"
	jwtPkg "ArdenGolang/pkg/jwt"
	"ArdenGolang/pkg/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// turnTimeout bounds input and confirm requests; generation has its own
// shorter deadline inside the runtime.
const turnTimeout = 90 * time.Second

func (h *AssistantHandler) SubmitInput(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), turnTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing assistant input request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req assistant.SubmitInputRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.assistantService.SubmitInput(c, userData.ID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "submit_input")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *AssistantHandler) ConfirmPending(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), turnTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	resp, err := h.assistantService.ConfirmPending(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "confirm_pending")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AssistantHandler) CancelPending(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	resp, err := h.assistantService.CancelPending(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "cancel_pending")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AssistantHandler) Stop(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	resp, err := h.assistantService.Stop(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "stop_generation")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AssistantHandler) GetTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	resp, err := h.assistantService.GetTranscript(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_transcript")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AssistantHandler) ClearTranscript(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	if err := h.assistantService.ClearTranscript(c, userData.ID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_transcript")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *AssistantHandler) GetPending(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	resp, err := h.assistantService.GetPending(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_pending")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AssistantHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, assistant.ErrInvalidPagination, ctx.Path(), "get_history")
	}
	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, assistant.ErrInvalidPagination, ctx.Path(), "get_history")
	}

	query := assistant.HistoryQuery{Page: page, Limit: limit}
	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	records, total, err := h.assistantService.GetHistory(c, userData.ID, query.Page, query.Limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, assistant.HistoryResponse{
			Commands: records,
			Total:    total,
			Page:     query.Page,
			Limit:    query.Limit,
		})
	}
}

func (h *AssistantHandler) ClearHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	deleted, err := h.assistantService.ClearHistory(c, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_history")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"deleted": deleted,
	})
}

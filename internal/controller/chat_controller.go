package controller

import (
	"bufio"
	"encoding/json"
	"fmt"

	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/pkg/serverutils"
	"bolt-sync-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Stream(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("sessions", c.CreateSession)
	h.Get("sessions/:id/messages", c.History)
	h.Post("stream", c.Stream)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	res, err := c.chatService.History(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}

// Stream proxies the model response as Server-Sent Events. Each chunk is
// a `data:` line with a JSON body; the final event carries done=true.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	var req dto.StreamPromptRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	chunks, errs, err := c.chatService.StreamPrompt(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for chunk := range chunks {
			payload, err := json.Marshal(map[string]interface{}{
				"content": chunk.Content,
				"done":    chunk.Done,
			})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// Client went away; the service drains the rest.
				return
			}
		}

		if err := <-errs; err != nil {
			payload, _ := json.Marshal(map[string]interface{}{"error": err.Error()})
			fmt.Fprintf(w, "data: %s\n\n", payload)
			w.Flush()
			return
		}

		fmt.Fprint(w, "data: [DONE]\n\n")
		w.Flush()
	}))

	return nil
}

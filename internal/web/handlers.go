package web

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"go-meercat/internal/apperr"
	"go-meercat/internal/webex"
)

const indexGIF = "https://66.media.tumblr.com/0a14eda38c31356d1e164009ef1edf2f/tumblr_mjpnd23P7x1qhbw13o1_400.gifv"

// Bot is what the webhook routes hand their payloads to.
type Bot interface {
	Compare(ctx context.Context, body []byte) (string, error)
	ReceiveMessage(ctx context.Context, hook webex.Webhook) error
	ExecuteAction(ctx context.Context, hook webex.Webhook) error
}

// SetupRoutes registers the landing page, the webhooks and the operational
// endpoints. secret, when set, is required to sign Webex webhooks.
func SetupRoutes(app *fiber.App, bot Bot, name, secret string) {
	app.Use(RequestLogger())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"Name":   name,
			"GifURL": indexGIF,
		})
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Agent fulfillment
	app.Post("/compare", func(c *fiber.Ctx) error {
		text, err := bot.Compare(c.UserContext(), c.Body())
		if errors.Is(err, apperr.ErrValidation) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"fulfillmentText": text})
	})

	signed := VerifySignature(secret)

	// Messages created
	app.Post("/events", signed, func(c *fiber.Ctx) error {
		hook, err := parseWebhook(c)
		if err != nil {
			return err
		}
		if err := bot.ReceiveMessage(c.UserContext(), hook); err != nil {
			log.Error().Err(err).Str("message_id", hook.Data.ID).Msg("failed to handle message")
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"message": "OK"})
	})

	// Card submissions
	app.Post("/actions", signed, func(c *fiber.Ctx) error {
		hook, err := parseWebhook(c)
		if err != nil {
			return err
		}
		if err := bot.ExecuteAction(c.UserContext(), hook); err != nil {
			log.Error().Err(err).Str("action_id", hook.Data.ID).Msg("failed to handle card submission")
			return fiber.ErrInternalServerError
		}
		return c.SendString("OK")
	})
}

func parseWebhook(c *fiber.Ctx) (webex.Webhook, error) {
	var hook webex.Webhook
	if err := jsoniter.Unmarshal(c.Body(), &hook); err != nil || hook.Data.ID == "" {
		return hook, fiber.NewError(fiber.StatusBadRequest, "malformed webhook")
	}
	return hook, nil
}

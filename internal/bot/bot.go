// Package bot holds the conversation logic: slash commands, free text
// handed to the intent agent, the agent's fulfillment callback and card
// submissions.
package bot

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"go-meercat/internal/apperr"
	"go-meercat/internal/editor"
	"go-meercat/internal/modelname"
	"go-meercat/internal/nlu"
	"go-meercat/internal/probe"
	"go-meercat/internal/resolver"
	"go-meercat/internal/webex"
)

// Messenger is the subset of the Webex API the bot calls.
type Messenger interface {
	Me(ctx context.Context) (*webex.Person, error)
	GetPerson(ctx context.Context, id string) (*webex.Person, error)
	ListPeople(ctx context.Context, q webex.PeopleQuery) ([]webex.Person, error)
	GetMessage(ctx context.Context, id string) (*webex.Message, error)
	CreateMessage(ctx context.Context, msg webex.MessageRequest) (*webex.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	GetAttachmentAction(ctx context.Context, id string) (*webex.AttachmentAction, error)
}

// Prober reads the model of a live switch.
type Prober interface {
	Discover(ctx context.Context, host, community string) (*probe.Device, error)
}

type Config struct {
	// Name is the mention prefix stripped from incoming messages.
	Name string
	// EmailDomain maps usernames to Webex emails, e.g. "cisco.com".
	EmailDomain string
	// Language is passed to the intent agent.
	Language string
	// DefaultCommunity is used by /discover when none is given.
	DefaultCommunity string
}

// Reply is one outgoing message. Attachment, when set, is sent with Text as
// its fallback; otherwise Markdown is sent.
type Reply struct {
	Markdown   string
	Text       string
	Attachment *webex.Attachment
}

func markdown(s string) Reply { return Reply{Markdown: s} }

type Bot struct {
	api      Messenger
	me       *webex.Person
	resolver *resolver.Resolver
	editor   *editor.Editor
	agent    nlu.Detector
	prober   Prober
	cfg      Config
}

// New identifies the bot account behind api. It fails unless the token
// belongs to a bot, since a person token would answer its own messages.
func New(ctx context.Context, api Messenger, res *resolver.Resolver, ed *editor.Editor, agent nlu.Detector, prober Prober, cfg Config) (*Bot, error) {
	me, err := api.Me(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "identify bot account")
	}
	if me.Type != "bot" {
		return nil, errors.Errorf("access token belongs to a %q account, not a bot", me.Type)
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.DefaultCommunity == "" {
		cfg.DefaultCommunity = "public"
	}
	return &Bot{
		api:      api,
		me:       me,
		resolver: res,
		editor:   ed,
		agent:    agent,
		prober:   prober,
		cfg:      cfg,
	}, nil
}

// username maps a Webex person to the catalog user id: the local part of
// their address in the configured email domain. Empty when there is none.
func (b *Bot) username(ctx context.Context, personID string) string {
	people, err := b.api.ListPeople(ctx, webex.PeopleQuery{ID: personID})
	if err != nil {
		log.Warn().Err(err).Str("person_id", personID).Msg("failed to look up person")
		return ""
	}
	suffix := "@" + strings.ToLower(b.cfg.EmailDomain)
	for _, p := range people {
		if p.ID != personID {
			continue
		}
		for _, email := range p.Emails {
			if strings.HasSuffix(strings.ToLower(email), suffix) {
				return email[:len(email)-len(suffix)]
			}
		}
	}
	return ""
}

func (b *Bot) email(username string) string {
	return username + "@" + b.cfg.EmailDomain
}

// failure turns err into a reply, logging anything the user did not cause.
func failure(op string, err error) Reply {
	if !apperr.Domain(err) {
		log.Error().Err(err).Str("op", op).Msg("command failed")
	}
	return markdown(apperr.UserMessage(err))
}

// send posts r to a room. Markdown the API rejects as too long is split
// in half on a line boundary and sent as two messages.
func (b *Bot) send(ctx context.Context, roomID string, r Reply) error {
	if r.Attachment != nil {
		_, err := b.api.CreateMessage(ctx, webex.MessageRequest{
			RoomID:      roomID,
			Text:        r.Text,
			Attachments: []webex.Attachment{*r.Attachment},
		})
		return err
	}

	_, err := b.api.CreateMessage(ctx, webex.MessageRequest{RoomID: roomID, Markdown: r.Markdown})
	if err == nil || !webex.IsLengthLimited(err) {
		return err
	}
	first, second := halves(r.Markdown)
	for _, part := range []string{first, second} {
		if _, err := b.api.CreateMessage(ctx, webex.MessageRequest{RoomID: roomID, Markdown: part}); err != nil {
			return err
		}
	}
	return nil
}

// halves splits s on the middle line boundary, or on the middle rune when s
// is a single line.
func halves(s string) (string, string) {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		runes := []rune(s)
		mid := len(runes) / 2
		return string(runes[:mid]), string(runes[mid:])
	}
	half := len(lines) / 2
	return strings.Join(lines[:half], "\n"), strings.Join(lines[half:], "\n")
}

func (b *Bot) sendAll(ctx context.Context, roomID string, replies []Reply) error {
	for _, r := range replies {
		if err := b.send(ctx, roomID, r); err != nil {
			return errors.Wrap(err, "send reply")
		}
	}
	return nil
}

// stripMention removes the bot's name when the message starts with it.
func (b *Bot) stripMention(text string) string {
	name := strings.ToLower(b.cfg.Name)
	if name == "" || !strings.HasPrefix(strings.ToLower(text), name) {
		return text
	}
	parts := strings.Split(text, " ")
	kept := parts[:0]
	for _, p := range parts {
		if strings.ToLower(p) != name {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// ReceiveMessage handles a "messages created" webhook.
func (b *Bot) ReceiveMessage(ctx context.Context, hook webex.Webhook) error {
	msg, err := b.api.GetMessage(ctx, hook.Data.ID)
	if err != nil {
		return errors.Wrap(err, "get message")
	}
	if msg.PersonID == b.me.ID {
		return nil
	}
	if msg.Text == "" {
		log.Debug().Str("message_id", msg.ID).Msg("ignoring empty message")
		return nil
	}

	roomID := hook.Data.RoomID
	if roomID == "" {
		roomID = msg.RoomID
	}

	text := strings.TrimSpace(b.stripMention(msg.Text))
	if text == "help" {
		text = "/help"
	}
	if text == "" {
		return nil
	}

	var replies []Reply
	if strings.HasPrefix(text, "/") {
		replies = b.HandleCommand(ctx, msg.PersonID, text)
	} else {
		intent, err := b.agent.DetectIntent(ctx, nlu.SessionID(msg.PersonID, roomID), text, b.cfg.Language)
		if err != nil {
			log.Error().Err(err).Msg("intent detection failed")
			replies = []Reply{markdown(apperr.MsgTryAgain)}
		} else if intent.FulfillmentText != "" {
			replies = []Reply{markdown(intent.FulfillmentText)}
		}
	}
	return b.sendAll(ctx, roomID, replies)
}

// Compare answers the intent agent's fulfillment callback. Detail cards go
// straight to the room encoded in the session; the returned text is spoken
// by the agent.
func (b *Bot) Compare(ctx context.Context, body []byte) (string, error) {
	req, ok := nlu.ParseFulfillment(body)
	if !ok {
		return "", apperr.New(apperr.ErrValidation, "fulfillment request has no usable session")
	}

	fields := resolver.FieldsFromParams(req.Parameters)
	fields.Model = modelname.Normalize(fields.Model)
	fields.NetworkModule = modelname.Normalize(fields.NetworkModule)

	text, replies := compose(b.resolver.FindEquivalentSwitch(ctx, fields))
	if err := b.sendAll(ctx, req.RoomID, replies); err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to send equivalent switches")
	}
	return text, nil
}

// ExecuteAction handles an edit or add card submission.
func (b *Bot) ExecuteAction(ctx context.Context, hook webex.Webhook) error {
	action, err := b.api.GetAttachmentAction(ctx, hook.Data.ID)
	if err != nil {
		return errors.Wrap(err, "get attachment action")
	}
	if action.PersonID == b.me.ID {
		return nil
	}

	roomID := hook.Data.RoomID
	if roomID == "" {
		roomID = action.RoomID
	}

	inputs := parseInputs(action.Inputs)
	result, err := b.editor.SaveSwitch(ctx, b.username(ctx, action.PersonID), inputs)
	if err != nil {
		r := failure("save switch", err)
		return b.send(ctx, roomID, markdown("**"+r.Markdown+"**"))
	}

	messageID := hook.Data.MessageID
	if messageID == "" {
		messageID = action.MessageID
	}
	if err := b.api.DeleteMessage(ctx, messageID); err != nil {
		log.Warn().Err(err).Str("message_id", messageID).Msg("failed to delete submitted card")
	}

	verb := "added"
	if result == editor.ResultEdit {
		verb = "updated"
	}
	return b.send(ctx, roomID, markdown("**Successfully "+verb+" "+strings.TrimSpace(inputs["id"])+"!**"))
}

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"go-meercat/internal/apperr"
	"go-meercat/internal/metrics"
	"go-meercat/internal/modelname"
	"go-meercat/internal/resolver"
	"go-meercat/internal/webex"
)

// commands lists what HandleCommand understands. Unknown names are counted
// under "unknown" to keep metric labels bounded.
var commands = map[string]bool{
	"help": true, "info": true, "list": true, "edit": true,
	"add-switch": true, "remove-switch": true, "add-mapping": true, "remove-mapping": true,
	"allow": true, "disallow": true, "request": true, "discover": true,
	"export": true, "import": true,
}

// editorOnly commands are refused before any work when the sender cannot
// edit. allow and disallow check their own permission.
var editorOnly = map[string]bool{
	"edit": true, "add-switch": true, "remove-switch": true,
	"add-mapping": true, "remove-mapping": true, "discover": true,
}

// splitCommand turns "/list switches C93" into ("list", "switches C93").
func splitCommand(command string) (string, string) {
	name, params, _ := strings.Cut(strings.TrimSpace(command), " ")
	return strings.TrimPrefix(name, "/"), strings.TrimSpace(params)
}

// HandleCommand runs one slash command on behalf of personID.
func (b *Bot) HandleCommand(ctx context.Context, personID, command string) []Reply {
	name, params := splitCommand(command)
	label := name
	if !commands[name] {
		label = "unknown"
	}
	metrics.Commands.WithLabelValues(label).Inc()

	username := b.username(ctx, personID)
	if editorOnly[name] && !b.editor.CanEdit(ctx, username) {
		return []Reply{markdown(responseNoPermission)}
	}
	log.Debug().Str("command", name).Str("user", username).Msg("handling command")

	switch name {
	case "help":
		if !b.editor.CanEdit(ctx, username) {
			return []Reply{markdown(responseHelpRestricted)}
		}
		return []Reply{markdown(responseHelp)}

	case "info":
		sw, err := b.editor.GetSwitch(ctx, params)
		if errors.Is(err, apperr.ErrNotFound) {
			return []Reply{markdown(responseNoEquivalent)}
		}
		if err != nil {
			return []Reply{failure("info", err)}
		}
		return []Reply{modelCard(sw, "")}

	case "list":
		return []Reply{b.list(ctx, params)}

	case "edit":
		sw, err := b.editor.GetSwitch(ctx, params)
		if err != nil {
			return []Reply{failure("edit", err)}
		}
		return []Reply{editCard(sw)}

	case "add-switch":
		return []Reply{addCard()}

	case "remove-switch":
		if err := b.editor.RemoveSwitch(ctx, username, params); err != nil {
			return []Reply{failure("remove switch", err)}
		}
		return []Reply{markdown(fmt.Sprintf("Successfully removed **%s** from the database.", params))}

	case "add-mapping", "remove-mapping":
		return []Reply{b.mapping(ctx, name, username, params)}

	case "allow":
		if err := b.editor.Allow(ctx, username, params); err != nil {
			return []Reply{failure("allow", err)}
		}
		return []Reply{markdown(fmt.Sprintf("Successfully added %s to the allowed editors list.", params))}

	case "disallow":
		if err := b.editor.Disallow(ctx, username, params); err != nil {
			return []Reply{failure("disallow", err)}
		}
		return []Reply{markdown(fmt.Sprintf("Successfully removed %s from the allowed editors list.", params))}

	case "request":
		return b.request(ctx, personID, username, params)

	case "discover":
		return b.discover(ctx, params)

	case "export", "import":
		return []Reply{markdown(responseNotImplemented)}
	}
	return []Reply{markdown(responseCommandNotRecognised)}
}

// list handles "/list [switches|mapping|users] [FILTER]". A bare /list
// lists switches.
func (b *Bot) list(ctx context.Context, params string) Reply {
	words := strings.Fields(params)
	var filter string
	if len(words) > 1 {
		filter = words[1]
	}

	switch {
	case params == "" || strings.Contains(params, "switch"):
		switches, err := b.editor.ListSwitches(ctx, filter)
		if err != nil {
			return failure("list switches", err)
		}
		var s strings.Builder
		fmt.Fprintf(&s, "**The following %d switches are in the database:**\n\n", len(switches))
		for _, sw := range switches {
			fmt.Fprintf(&s, "- %s  \n", sw.ID)
		}
		return markdown(strings.TrimSpace(s.String()))

	case strings.Contains(params, "map"):
		mappings, err := b.editor.ListMappings(ctx, filter)
		if err != nil {
			return failure("list mappings", err)
		}
		var s strings.Builder
		fmt.Fprintf(&s, "**The following %d mappings are in the database:**\n\n", len(mappings))
		for _, m := range mappings {
			fmt.Fprintf(&s, "- %s <=> %s  \n", m.Catalyst, m.Meraki)
		}
		return markdown(strings.TrimSpace(s.String()))

	case strings.Contains(params, "user"):
		users, err := b.editor.ApprovedUsers(ctx)
		if err != nil {
			return failure("list users", err)
		}
		var s strings.Builder
		s.WriteString("**Users with editing permissions:**\n\n")
		for _, u := range users {
			people, err := b.api.ListPeople(ctx, webex.PeopleQuery{Email: b.email(u.ID)})
			if err != nil || len(people) == 0 {
				fmt.Fprintf(&s, "%s  \n", u.ID)
				continue
			}
			for _, p := range people {
				fmt.Fprintf(&s, "%s => %s  \n", p.DisplayName, u.ID)
			}
		}
		return markdown(s.String())
	}
	return markdown(responseNotImplemented)
}

func (b *Bot) mapping(ctx context.Context, name, username, params string) Reply {
	keys := strings.Fields(params)
	if len(keys) != 2 {
		return markdown(fmt.Sprintf("Please only supply 2 keys in the format */%s PK PK*", name))
	}
	if name == "add-mapping" {
		if err := b.editor.AddMapping(ctx, username, keys[0], keys[1]); err != nil {
			return failure("add mapping", err)
		}
		return markdown(fmt.Sprintf("Successfully added mapping **%s<=>%s** to the database.", keys[0], keys[1]))
	}
	if err := b.editor.RemoveMapping(ctx, username, keys[0], keys[1]); err != nil {
		return failure("remove mapping", err)
	}
	return markdown(fmt.Sprintf("Successfully removed mapping **%s<=>%s** from the database.", keys[0], keys[1]))
}

// request asks every admin, by direct message, to grant username access.
func (b *Bot) request(ctx context.Context, personID, username, reason string) []Reply {
	if username == "" {
		return []Reply{markdown(fmt.Sprintf("Only %s accounts can request editing access.", b.cfg.EmailDomain))}
	}
	admins, err := b.editor.AdminUsers(ctx)
	if err != nil {
		return []Reply{failure("list admins", err)}
	}
	if len(admins) == 0 {
		return []Reply{markdown("There are no admins to send your request to.")}
	}

	displayName := username
	if person, err := b.api.GetPerson(ctx, personID); err == nil && person.DisplayName != "" {
		displayName = person.DisplayName
	}
	if reason == "" {
		reason = "None"
	}
	message := fmt.Sprintf("%s is requesting access for reason: %s\n\nGrant access with command '/allow %s'", displayName, reason, username)

	sent := 0
	for _, admin := range admins {
		_, err := b.api.CreateMessage(ctx, webex.MessageRequest{ToPersonEmail: b.email(admin.ID), Markdown: message})
		if err != nil {
			log.Warn().Err(err).Str("admin", admin.ID).Msg("failed to forward access request")
			continue
		}
		sent++
	}
	if sent == 0 {
		return []Reply{markdown(apperr.MsgTryAgain)}
	}
	return []Reply{markdown("Your request has been sent to the admins.")}
}

// discover handles "/discover HOST [COMMUNITY]": the model read from the
// live switch goes through the same lookup as a typed model.
func (b *Bot) discover(ctx context.Context, params string) []Reply {
	args := strings.Fields(params)
	if len(args) == 0 || len(args) > 2 {
		return []Reply{markdown("Please supply a host in the format */discover HOST [COMMUNITY]*")}
	}
	host, community := args[0], b.cfg.DefaultCommunity
	if len(args) == 2 {
		community = args[1]
	}

	dev, err := b.prober.Discover(ctx, host, community)
	if err != nil {
		log.Warn().Err(err).Str("host", host).Msg("snmp discovery failed")
		return []Reply{markdown(fmt.Sprintf("Could not read **%s** over SNMP.", host))}
	}
	model := modelname.Normalize(dev.Model)
	if model == "" {
		return []Reply{markdown(fmt.Sprintf("Could not find a model number on **%s**.", host))}
	}

	text, replies := compose(b.resolver.FindEquivalentSwitch(ctx, resolver.Fields{Model: model}))
	out := []Reply{markdown(fmt.Sprintf("**%s** reports model **%s**.", host, model))}
	if text != "" {
		out = append(out, markdown(text))
	}
	return append(out, replies...)
}

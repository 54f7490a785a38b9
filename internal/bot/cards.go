package bot

import (
	"fmt"
	"strconv"
	"strings"

	"go-meercat/internal/models"
	"go-meercat/internal/webex"
)

const (
	cardSchema  = "http://adaptivecards.io/schemas/adaptive-card.json"
	cardVersion = "1.2"
)

type adaptiveCard struct {
	Schema       string `json:"$schema"`
	Type         string `json:"type"`
	Version      string `json:"version"`
	Body         []any  `json:"body"`
	Actions      []any  `json:"actions,omitempty"`
	FallbackText string `json:"fallbackText,omitempty"`
}

type textBlock struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Size    string `json:"size,omitempty"`
	Weight  string `json:"weight,omitempty"`
	Color   string `json:"color,omitempty"`
	Spacing string `json:"spacing,omitempty"`
}

type container struct {
	Type  string `json:"type"`
	Items []any  `json:"items"`
}

type fact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type factSet struct {
	Type  string `json:"type"`
	Facts []fact `json:"facts"`
}

type inputText struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Placeholder string `json:"placeholder,omitempty"`
	Value       string `json:"value,omitempty"`
}

type inputToggle struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Value string `json:"value"`
}

type submitAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

func label(s string) textBlock {
	return textBlock{Type: "TextBlock", Text: s}
}

func subtitle(s string) textBlock {
	return textBlock{Type: "TextBlock", Text: s, Size: "Small", Weight: "Lighter"}
}

func heading(s string) textBlock {
	return textBlock{Type: "TextBlock", Text: s, Size: "ExtraLarge", Color: "Accent", Spacing: "None"}
}

func attach(c adaptiveCard) webex.Attachment {
	c.Schema = cardSchema
	c.Type = "AdaptiveCard"
	c.Version = cardVersion
	return webex.Attachment{ContentType: webex.CardContentType, Content: c}
}

func display(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	}
	return fmt.Sprint(v)
}

// describe is the plain text rendering of a switch used as card fallback.
func describe(sw *models.Switch) string {
	var b strings.Builder
	b.WriteString("Here are the details of the equivalent switch:\n\n")
	for _, f := range models.Fields {
		if f.IsZero(sw) {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", f.Name, display(f.Value(sw)))
	}
	return b.String()
}

// modelCard shows every non-empty attribute of sw. originalModel, when
// set, is the switch the user asked about.
func modelCard(sw *models.Switch, originalModel string) Reply {
	var items []any
	if originalModel != "" {
		items = append(items, subtitle(fmt.Sprintf("The %s is equivalent to the", originalModel)))
	}
	items = append(items, heading(sw.Model))

	var facts []fact
	for _, f := range models.Fields {
		if f.IsZero(sw) {
			continue
		}
		facts = append(facts, fact{Title: f.Label, Value: display(f.Value(sw))})
	}

	fallback := describe(sw)
	card := attach(adaptiveCard{
		Body: []any{
			container{Type: "Container", Items: items},
			factSet{Type: "FactSet", Facts: facts},
		},
		FallbackText: fallback,
	})
	return Reply{Text: fallback, Attachment: &card}
}

const cardsDisabled = "Adaptive cards need to be enabled to use this feature."

func formInputs(sw *models.Switch, labels bool) []any {
	var items []any
	for _, f := range models.Fields {
		title := f.Name
		if labels {
			title = f.Label
		}
		if f.Kind == models.KindBool {
			value := "false"
			if sw != nil && f.Value(sw) == true {
				value = "true"
			}
			items = append(items, inputToggle{Type: "Input.Toggle", ID: f.Name, Title: title, Value: value})
			continue
		}
		value := ""
		if sw != nil && !f.IsZero(sw) {
			value = display(f.Value(sw))
		}
		items = append(items,
			label(title),
			inputText{Type: "Input.Text", ID: f.Name, Placeholder: title, Value: value},
		)
	}
	return items
}

// editCard is a form pre-filled with sw.
func editCard(sw *models.Switch) Reply {
	card := attach(adaptiveCard{
		Body: []any{
			container{Type: "Container", Items: []any{subtitle("Currently editing switch"), heading(sw.Model)}},
			container{Type: "Container", Items: formInputs(sw, true)},
		},
		Actions:      []any{submitAction{Type: "Action.Submit", Title: "Update"}},
		FallbackText: cardsDisabled,
	})
	return Reply{Text: cardsDisabled, Attachment: &card}
}

// addCard is an empty form for a new switch.
func addCard() Reply {
	card := attach(adaptiveCard{
		Body: []any{
			container{Type: "Container", Items: []any{subtitle("Currently adding a new switch")}},
			container{Type: "Container", Items: formInputs(nil, false)},
		},
		Actions:      []any{submitAction{Type: "Action.Submit", Title: "Add"}},
		FallbackText: cardsDisabled,
	})
	return Reply{Text: cardsDisabled, Attachment: &card}
}

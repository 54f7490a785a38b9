// Package nlu wraps the intent detection agent that turns free text into a
// reply and structured parameters.
package nlu

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	dialogflow "google.golang.org/api/dialogflow/v2"
	"google.golang.org/api/option"
)

// Intent is the part of a detection result the bot uses.
type Intent struct {
	Name            string
	FulfillmentText string
	Parameters      gjson.Result
}

// Detector maps a conversation session and a line of text to an intent.
type Detector interface {
	DetectIntent(ctx context.Context, sessionID, text, language string) (*Intent, error)
}

// Dialogflow detects intents with a Dialogflow ES agent.
type Dialogflow struct {
	projectID string
	sessions  *dialogflow.ProjectsAgentSessionsService
}

// NewDialogflow connects to the agent of projectID. credentialsFile may be
// empty to use application default credentials.
func NewDialogflow(ctx context.Context, projectID, credentialsFile string) (*Dialogflow, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := dialogflow.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "dialogflow")
	}
	return &Dialogflow{projectID: projectID, sessions: svc.Projects.Agent.Sessions}, nil
}

func (d *Dialogflow) sessionPath(sessionID string) string {
	return fmt.Sprintf("projects/%s/agent/sessions/%s", d.projectID, sessionID)
}

func (d *Dialogflow) DetectIntent(ctx context.Context, sessionID, text, language string) (*Intent, error) {
	if text == "" {
		return &Intent{}, nil
	}
	req := &dialogflow.GoogleCloudDialogflowV2DetectIntentRequest{
		QueryInput: &dialogflow.GoogleCloudDialogflowV2QueryInput{
			Text: &dialogflow.GoogleCloudDialogflowV2TextInput{
				Text:         text,
				LanguageCode: language,
			},
		},
	}
	resp, err := d.sessions.DetectIntent(d.sessionPath(sessionID), req).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "dialogflow detect intent")
	}
	if resp.QueryResult == nil {
		return &Intent{}, nil
	}

	// Parameters is a free-form struct; read it back through JSON.
	raw, err := jsoniter.Marshal(resp.QueryResult)
	if err != nil {
		return nil, errors.Wrap(err, "dialogflow query result")
	}
	result := gjson.ParseBytes(raw)
	return &Intent{
		Name:            result.Get("intent.displayName").String(),
		FulfillmentText: result.Get("fulfillmentText").String(),
		Parameters:      result.Get("parameters"),
	}, nil
}

// SessionID builds the per person, per room session so the fulfillment
// webhook can find where to post cards.
func SessionID(personID, roomID string) string {
	return personID + "." + roomID
}

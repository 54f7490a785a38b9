package bot

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-meercat/internal/db/dbtest"
	"go-meercat/internal/editor"
	"go-meercat/internal/models"
	"go-meercat/internal/nlu"
	"go-meercat/internal/probe"
	"go-meercat/internal/resolver"
	"go-meercat/internal/webex"
)

type fakeMessenger struct {
	mu       sync.Mutex
	me       webex.Person
	people   []webex.Person
	messages map[string]webex.Message
	actions  map[string]webex.AttachmentAction
	sent     []webex.MessageRequest
	deleted  []string
	// maxMarkdown rejects longer markdown as length limited when non-zero.
	maxMarkdown int
}

func (f *fakeMessenger) Me(context.Context) (*webex.Person, error) {
	me := f.me
	return &me, nil
}

func (f *fakeMessenger) GetPerson(_ context.Context, id string) (*webex.Person, error) {
	for _, p := range f.people {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &webex.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
}

func (f *fakeMessenger) ListPeople(_ context.Context, q webex.PeopleQuery) ([]webex.Person, error) {
	var out []webex.Person
	for _, p := range f.people {
		if q.ID != "" && p.ID == q.ID {
			out = append(out, p)
		}
		if q.Email != "" {
			for _, e := range p.Emails {
				if strings.EqualFold(e, q.Email) {
					out = append(out, p)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeMessenger) GetMessage(_ context.Context, id string) (*webex.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, &webex.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
	}
	return &m, nil
}

func (f *fakeMessenger) CreateMessage(_ context.Context, msg webex.MessageRequest) (*webex.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.maxMarkdown > 0 && len(msg.Markdown) > f.maxMarkdown {
		return nil, &webex.APIError{StatusCode: http.StatusBadRequest, Message: "Message length limited to 7439 bytes"}
	}
	f.sent = append(f.sent, msg)
	return &webex.Message{ID: uuid.NewString(), RoomID: msg.RoomID, Markdown: msg.Markdown, Text: msg.Text}, nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMessenger) GetAttachmentAction(_ context.Context, id string) (*webex.AttachmentAction, error) {
	a, ok := f.actions[id]
	if !ok {
		return nil, &webex.APIError{StatusCode: http.StatusNotFound, Message: "not found"}
	}
	return &a, nil
}

type fakeDetector struct {
	sessions []string
	reply    string
}

func (d *fakeDetector) DetectIntent(_ context.Context, sessionID, text, _ string) (*nlu.Intent, error) {
	d.sessions = append(d.sessions, sessionID)
	return &nlu.Intent{Name: "Convert", FulfillmentText: d.reply}, nil
}

type fakeProber struct {
	device      *probe.Device
	err         error
	communities []string
}

func (p *fakeProber) Discover(_ context.Context, host, community string) (*probe.Device, error) {
	p.communities = append(p.communities, community)
	if p.err != nil {
		return nil, p.err
	}
	d := *p.device
	d.Host = host
	return &d, nil
}

type harness struct {
	bot      *Bot
	api      *fakeMessenger
	agent    *fakeDetector
	prober   *fakeProber
	editor   *editor.Editor
	resolver *resolver.Resolver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := dbtest.New(t)
	dbtest.Insert(t, store,
		&models.Switch{ID: "C9300L-48T-4G-E", Model: "C9300L-48T-4G-E", Platform: "C9300L", Stackable: true, DlGe: 48},
		&models.Switch{ID: "C9300X-12Y-2Q", Model: "C9300X", NetworkModule: "C9300X-NM-2Q", Modular: true},
		&models.Switch{ID: "C9300X-24Y-2Q", Model: "C9300X", NetworkModule: "C9300X-NM-8Y", Modular: true},
		&models.Switch{ID: "MS120-48-HW", Model: "MS120-48-HW"},
		&models.Switch{ID: "MS125-48-HW", Model: "MS125-48-HW", Stackable: true, DlGe: 48},
		&models.Switch{ID: "MS390-24-HW", Model: "MS390-24-HW", Modular: true},

		&models.Mapping{Catalyst: "C9300L-48T-4G-E", Meraki: "MS125-48-HW"},

		&models.User{ID: "root", Privilege: models.PrivilegeAdmin},
		&models.User{ID: "jdoe", Privilege: models.PrivilegeEditor},
	)

	api := &fakeMessenger{
		me: webex.Person{ID: "p-bot", Type: "bot", DisplayName: "Meercat"},
		people: []webex.Person{
			{ID: "p-root", DisplayName: "Root Admin", Emails: []string{"root@cisco.com"}},
			{ID: "p-jdoe", DisplayName: "Jane Doe", Emails: []string{"jdoe@cisco.com"}},
			{ID: "p-guest", DisplayName: "Guest User", Emails: []string{"guest@cisco.com"}},
			{ID: "p-outsider", DisplayName: "Out Sider", Emails: []string{"out@example.com"}},
		},
		messages: map[string]webex.Message{},
		actions:  map[string]webex.AttachmentAction{},
	}
	agent := &fakeDetector{reply: "Let me look that up."}
	prober := &fakeProber{device: &probe.Device{Model: "C9300L-48T-4G-E"}}
	res := resolver.New(store)
	ed := editor.New(store)

	b, err := New(context.Background(), api, res, ed, agent, prober, Config{Name: "Meercat", EmailDomain: "cisco.com"})
	require.NoError(t, err)
	return &harness{bot: b, api: api, agent: agent, prober: prober, editor: ed, resolver: res}
}

// run sends a command as personID and returns the markdown of the only reply.
func (h *harness) run(t *testing.T, personID, command string) string {
	t.Helper()
	replies := h.bot.HandleCommand(context.Background(), personID, command)
	require.Len(t, replies, 1)
	return replies[0].Markdown
}

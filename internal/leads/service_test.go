package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/optiflow/site-backend/internal/notify"
	"github.com/optiflow/site-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeadStore struct {
	created []*store.Lead
	err     error
}

func (f *fakeLeadStore) CreateLead(ctx context.Context, lead *store.Lead) error {
	if f.err != nil {
		return f.err
	}
	lead.ID = uuid.New()
	f.created = append(f.created, lead)
	return nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Notify(event notify.Event) {
	f.events = append(f.events, event)
}

type fakeResources struct {
	bySlug map[string]*store.Resource
	err    error
}

func (f *fakeResources) GetResourceBySlug(ctx context.Context, slug string) (*store.Resource, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bySlug[slug], nil
}

type fakeLinker struct {
	url string
	err error
}

func (f *fakeLinker) PresignDownload(ctx context.Context, fileKey string) (string, error) {
	return f.url, f.err
}

func newTestService(st *fakeLeadStore, res *fakeResources, contact, resource *fakeNotifier, links DownloadLinker) *Service {
	if res == nil {
		res = &fakeResources{}
	}
	return NewService(st, res, contact, resource, links)
}

func TestSubmitContactValidation(t *testing.T) {
	tests := []struct {
		name  string
		sub   ContactSubmission
		field string
	}{
		{"empty name", ContactSubmission{Email: "jane@example.com"}, "name"},
		{"whitespace name", ContactSubmission{Name: "   ", Email: "jane@example.com"}, "name"},
		{"empty email", ContactSubmission{Name: "Jane"}, "email"},
		{"whitespace email", ContactSubmission{Name: "Jane", Email: " \t"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeLeadStore{}
			contact := &fakeNotifier{}
			svc := newTestService(st, nil, contact, &fakeNotifier{}, nil)

			result, err := svc.SubmitContact(context.Background(), tt.sub)
			require.Error(t, err)
			assert.Nil(t, result)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			// No persistence call, no fan-out call.
			assert.Empty(t, st.created)
			assert.Empty(t, contact.events)
		})
	}
}

func TestSubmitContactSuccess(t *testing.T) {
	st := &fakeLeadStore{}
	contact := &fakeNotifier{}
	resource := &fakeNotifier{}
	svc := newTestService(st, nil, contact, resource, nil)

	result, err := svc.SubmitContact(context.Background(), ContactSubmission{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Company:         "Acme Logistics",
		ServiceInterest: "workflow-automation",
		EmployeeBracket: "11-50",
		Message:         "Help us automate invoicing",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEqual(t, uuid.Nil, result.LeadID)

	require.Len(t, st.created, 1)
	require.Len(t, contact.events, 1)
	assert.Empty(t, resource.events, "contact submissions must not hit resource targets")

	// Payload correlates with the persisted row.
	event := contact.events[0]
	assert.Equal(t, result.LeadID, event.SubmissionID)
	assert.Equal(t, SourceContact, event.Source)
	assert.Equal(t, "jane@example.com", event.Fields["email"])
	assert.Equal(t, "11-50", event.Fields["employee_bracket"])
}

func TestSubmitContactPersistFailureSkipsFanout(t *testing.T) {
	st := &fakeLeadStore{err: errors.New("connection refused")}
	contact := &fakeNotifier{}
	svc := newTestService(st, nil, contact, &fakeNotifier{}, nil)

	result, err := svc.SubmitContact(context.Background(), ContactSubmission{
		Name:  "Jane",
		Email: "jane@example.com",
	})
	require.Error(t, err)
	assert.Nil(t, result)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "a persistence failure is not a validation error")
	assert.Empty(t, contact.events, "no webhook dispatch after a failed write")
}

func TestSubmitResourceRequest(t *testing.T) {
	st := &fakeLeadStore{}
	resources := &fakeResources{bySlug: map[string]*store.Resource{
		"automation-playbook": {
			ID:      uuid.New(),
			Slug:    "automation-playbook",
			Title:   "The Automation Playbook",
			FileKey: "resources/automation-playbook.pdf",
		},
	}}
	resource := &fakeNotifier{}
	links := &fakeLinker{url: "https://bucket.s3.amazonaws.com/signed"}
	svc := newTestService(st, resources, &fakeNotifier{}, resource, links)

	result, err := svc.SubmitResourceRequest(context.Background(), ResourceSubmission{
		Name:         "Bob",
		Email:        "bob@example.com",
		ResourceSlug: "automation-playbook",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/signed", result.DownloadURL)

	require.Len(t, st.created, 1)
	assert.Equal(t, "The Automation Playbook", st.created[0].ResourceTitle)

	require.Len(t, resource.events, 1)
	assert.Equal(t, SourceResource, resource.events[0].Source)
	assert.Equal(t, result.LeadID, resource.events[0].SubmissionID)
}

func TestSubmitResourceRequestUnknownSlug(t *testing.T) {
	st := &fakeLeadStore{}
	resource := &fakeNotifier{}
	svc := newTestService(st, &fakeResources{}, &fakeNotifier{}, resource, nil)

	_, err := svc.SubmitResourceRequest(context.Background(), ResourceSubmission{
		Name:         "Bob",
		Email:        "bob@example.com",
		ResourceSlug: "no-such-resource",
	})
	require.ErrorIs(t, err, ErrResourceNotFound)
	assert.Empty(t, st.created)
	assert.Empty(t, resource.events)
}

func TestSubmitResourceRequestPresignFailureStillSucceeds(t *testing.T) {
	st := &fakeLeadStore{}
	resources := &fakeResources{bySlug: map[string]*store.Resource{
		"guide": {ID: uuid.New(), Slug: "guide", Title: "Guide", FileKey: "resources/guide.pdf"},
	}}
	links := &fakeLinker{err: errors.New("presign broken")}
	svc := newTestService(st, resources, &fakeNotifier{}, &fakeNotifier{}, links)

	result, err := svc.SubmitResourceRequest(context.Background(), ResourceSubmission{
		Name:         "Bob",
		Email:        "bob@example.com",
		ResourceSlug: "guide",
	})
	require.NoError(t, err, "the lead is captured; a broken link is not a submission failure")
	assert.Empty(t, result.DownloadURL)
	assert.Len(t, st.created, 1)
}

func TestSubmitCompletesWhenAllWebhooksFail(t *testing.T) {
	// End-to-end with the real fan-out against a dead endpoint: the
	// outcome depends only on persistence.
	st := &fakeLeadStore{}
	fanout := notify.NewFanout(notify.WebhookTargets([]string{"http://127.0.0.1:1/hook"}), 0)
	svc := NewService(st, &fakeResources{}, fanout, fanout, nil)

	result, err := svc.SubmitContact(context.Background(), ContactSubmission{
		Name:  "Jane",
		Email: "jane@example.com",
	})
	fanout.Wait()

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, st.created, 1)
}

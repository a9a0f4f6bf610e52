// Package leads implements the lead-submission flow: validate, persist,
// then best-effort fan-out to the automation targets. The user-visible
// outcome depends only on persistence; notification failures never
// surface and are never retried.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/optiflow/site-backend/internal/notify"
	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/optiflow/site-backend/internal/store"
)

// Source tags distinguish the two capture forms in webhook payloads and
// in the leads table.
const (
	SourceContact  = "contact_form"
	SourceResource = "resource_download"
)

// ValidationError reports a missing required form field. It is detected
// before any database or network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ErrResourceNotFound is returned when a resource-download submission
// names an unknown or unpublished resource.
var ErrResourceNotFound = errors.New("resource not found")

// ContactSubmission carries the contact-form fields.
type ContactSubmission struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Company         string `json:"company"`
	ServiceInterest string `json:"service_interest"`
	EmployeeBracket string `json:"employee_bracket"`
	Challenge       string `json:"challenge"`
	Message         string `json:"message"`
}

// ResourceSubmission carries the resource-download form fields.
type ResourceSubmission struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Company      string `json:"company"`
	ResourceSlug string `json:"resource_slug"`
}

// Result is the outcome of a successful submission.
type Result struct {
	LeadID uuid.UUID `json:"lead_id"`
	// DownloadURL is set for resource requests: a short-lived presigned
	// link, granted only after the lead row is committed.
	DownloadURL string `json:"download_url,omitempty"`
}

// LeadStore persists leads.
type LeadStore interface {
	CreateLead(ctx context.Context, lead *store.Lead) error
}

// ResourceFinder resolves published resources for download gating.
type ResourceFinder interface {
	GetResourceBySlug(ctx context.Context, slug string) (*store.Resource, error)
}

// Notifier dispatches the post-persist fan-out.
type Notifier interface {
	Notify(event notify.Event)
}

// DownloadLinker mints short-lived download URLs for resource files.
type DownloadLinker interface {
	PresignDownload(ctx context.Context, fileKey string) (string, error)
}

// Service orchestrates the submission flow.
type Service struct {
	store     LeadStore
	resources ResourceFinder
	contact   Notifier
	resource  Notifier
	links     DownloadLinker
}

// NewService creates a lead-submission service. contact and resource are
// the fan-out dispatchers for the two form types; links may be nil when
// no resource bucket is configured.
func NewService(leadStore LeadStore, resources ResourceFinder, contact, resource Notifier, links DownloadLinker) *Service {
	return &Service{
		store:     leadStore,
		resources: resources,
		contact:   contact,
		resource:  resource,
		links:     links,
	}
}

// SubmitContact validates and persists a contact-form lead, then fans the
// payload out to the contact automation targets.
func (s *Service) SubmitContact(ctx context.Context, sub ContactSubmission) (*Result, error) {
	if err := validateRequired(sub.Name, sub.Email); err != nil {
		return nil, err
	}

	lead := &store.Lead{
		Source:          SourceContact,
		Name:            sub.Name,
		Email:           sub.Email,
		Phone:           sub.Phone,
		Company:         sub.Company,
		ServiceInterest: sub.ServiceInterest,
		EmployeeBracket: sub.EmployeeBracket,
		Challenge:       sub.Challenge,
		Message:         sub.Message,
	}

	// Persistence failure is fatal: no fan-out happens.
	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("persist lead: %w", err)
	}

	s.contact.Notify(leadEvent(lead))
	logger.Info("lead captured", "source", SourceContact, "lead_id", lead.ID.String(), "email", lead.Email)

	return &Result{LeadID: lead.ID}, nil
}

// SubmitResourceRequest validates and persists a resource-download lead,
// fans out to the resource automation targets, and mints the download URL.
// The download is gated server-side: the URL exists only after the lead
// row is committed.
func (s *Service) SubmitResourceRequest(ctx context.Context, sub ResourceSubmission) (*Result, error) {
	if err := validateRequired(sub.Name, sub.Email); err != nil {
		return nil, err
	}

	res, err := s.resources.GetResourceBySlug(ctx, strings.TrimSpace(sub.ResourceSlug))
	if err != nil {
		return nil, fmt.Errorf("lookup resource: %w", err)
	}
	if res == nil {
		return nil, ErrResourceNotFound
	}

	lead := &store.Lead{
		Source:        SourceResource,
		Name:          sub.Name,
		Email:         sub.Email,
		Phone:         sub.Phone,
		Company:       sub.Company,
		ResourceTitle: res.Title,
	}

	if err := s.store.CreateLead(ctx, lead); err != nil {
		return nil, fmt.Errorf("persist lead: %w", err)
	}

	s.resource.Notify(leadEvent(lead))
	logger.Info("lead captured", "source", SourceResource, "lead_id", lead.ID.String(),
		"email", lead.Email, "resource", res.Slug)

	result := &Result{LeadID: lead.ID}
	if s.links != nil && res.FileKey != "" {
		url, err := s.links.PresignDownload(ctx, res.FileKey)
		if err != nil {
			// The lead is already captured; a broken link is our problem,
			// not a submission failure.
			logger.Error("presign download failed", "resource", res.Slug, "error", err)
		} else {
			result.DownloadURL = url
		}
	}
	return result, nil
}

// validateRequired enforces the only client-observable validation rule:
// name and email must be non-empty after trim.
func validateRequired(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name"}
	}
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email"}
	}
	return nil
}

func leadEvent(lead *store.Lead) notify.Event {
	return notify.Event{
		SubmissionID: lead.ID,
		Source:       lead.Source,
		SubmittedAt:  time.Now(),
		Fields: map[string]string{
			"name":             lead.Name,
			"email":            lead.Email,
			"phone":            lead.Phone,
			"company":          lead.Company,
			"service_interest": lead.ServiceInterest,
			"employee_bracket": lead.EmployeeBracket,
			"challenge":        lead.Challenge,
			"message":          lead.Message,
			"resource_title":   lead.ResourceTitle,
		},
	}
}

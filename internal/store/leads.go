package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is a visitor-submitted contact or resource-request record.
// Leads are insert-only: this service never updates or deletes them.
type Lead struct {
	ID              uuid.UUID `json:"id"`
	Source          string    `json:"source"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	Company         string    `json:"company,omitempty"`
	ServiceInterest string    `json:"service_interest,omitempty"`
	EmployeeBracket string    `json:"employee_bracket,omitempty"`
	Challenge       string    `json:"challenge,omitempty"`
	Message         string    `json:"message,omitempty"`
	ResourceTitle   string    `json:"resource_title,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateLead persists a new lead and assigns its identifier.
func (s *Store) CreateLead(ctx context.Context, lead *Lead) error {
	lead.ID = uuid.New()
	lead.CreatedAt = time.Now()
	lead.Email = strings.ToLower(strings.TrimSpace(lead.Email))
	lead.Name = strings.TrimSpace(lead.Name)

	query := `INSERT INTO leads (id, source, name, email, phone, company, service_interest,
		employee_bracket, challenge, message, resource_title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query, lead.ID, lead.Source, lead.Name, lead.Email,
		lead.Phone, lead.Company, lead.ServiceInterest, lead.EmployeeBracket,
		lead.Challenge, lead.Message, lead.ResourceTitle, lead.CreatedAt)
	return err
}

// GetLead retrieves a lead by ID
func (s *Store) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `SELECT id, source, name, email, phone, company, service_interest,
		employee_bracket, challenge, message, resource_title, created_at
		FROM leads WHERE id = $1`

	lead := &Lead{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&lead.ID, &lead.Source, &lead.Name, &lead.Email, &lead.Phone, &lead.Company,
		&lead.ServiceInterest, &lead.EmployeeBracket, &lead.Challenge, &lead.Message,
		&lead.ResourceTitle, &lead.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lead, err
}

// ListLeads retrieves captured leads newest-first, with total count for paging.
func (s *Store) ListLeads(ctx context.Context, limit, offset int) ([]*Lead, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, source, name, email, phone, company, service_interest,
		employee_bracket, challenge, message, resource_title, created_at
		FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead := &Lead{}
		err := rows.Scan(&lead.ID, &lead.Source, &lead.Name, &lead.Email, &lead.Phone,
			&lead.Company, &lead.ServiceInterest, &lead.EmployeeBracket, &lead.Challenge,
			&lead.Message, &lead.ResourceTitle, &lead.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

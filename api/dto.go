/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Entities:
    EntityDTO, SaveEntityRequest (plus nested PatentDTO/NoteDTO/CredentialDTO)

  Tasks:
    TaskDTO, SaveTaskRequest, BulkCompleteRequest, DeletePreviewDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/entity.go, engine/task.go: Domain types these map to
*/
package api

import (
	"fmt"

	"github.com/clerkdesk/compliance-engine/engine"
)

// =============================================================================
// ENTITY TYPES
// =============================================================================

// EntityDTO represents a legal entity in API responses.
type EntityDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LegalForm string `json:"legal_form"`
	TaxRegime string `json:"tax_regime"`

	TaxNumber     string `json:"tax_number,omitempty"`
	RegNumber     string `json:"reg_number,omitempty"`
	LegalAddress  string `json:"legal_address,omitempty"`
	ActualAddress string `json:"actual_address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`

	HasEmployees bool `json:"has_employees"`
	VATPayer     bool `json:"vat_payer"`

	CreatedAt string `json:"created_at"`
	Archived  bool   `json:"archived"`

	Patents     []PatentDTO     `json:"patents,omitempty"`
	Notes       []NoteDTO       `json:"notes,omitempty"`
	Credentials []CredentialDTO `json:"credentials,omitempty"`
}

// SaveEntityRequest is the request body for creating or updating an entity.
// CreatedAt is optional; the tracker defaults it to today on create.
type SaveEntityRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LegalForm string `json:"legal_form"`
	TaxRegime string `json:"tax_regime"`

	TaxNumber     string `json:"tax_number,omitempty"`
	RegNumber     string `json:"reg_number,omitempty"`
	LegalAddress  string `json:"legal_address,omitempty"`
	ActualAddress string `json:"actual_address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`

	HasEmployees bool `json:"has_employees"`
	VATPayer     bool `json:"vat_payer"`

	CreatedAt string `json:"created_at,omitempty"`
	Archived  bool   `json:"archived,omitempty"`

	Patents     []PatentDTO     `json:"patents,omitempty"`
	Notes       []NoteDTO       `json:"notes,omitempty"`
	Credentials []CredentialDTO `json:"credentials,omitempty"`
}

// PatentDTO represents a patent attached to an entity.
type PatentDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Start     string `json:"start"`
	End       string `json:"end"`
	AutoRenew bool   `json:"auto_renew"`
}

// NoteDTO represents a free-form note on an entity.
type NoteDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CredentialDTO represents a stored external-service login.
type CredentialDTO struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Login    string `json:"login"`
	Password string `json:"password,omitempty"`
}

// =============================================================================
// TASK TYPES
// =============================================================================

// TaskDTO represents an obligation in API responses.
type TaskDTO struct {
	ID       string `json:"id"`
	EntityID string `json:"entity_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	DueDate string `json:"due_date"`
	DueTime string `json:"due_time,omitempty"`

	Transfer string `json:"transfer"`
	Cadence  string `json:"cadence"`
	Reminder string `json:"reminder"`

	Status       string `json:"status"`
	Automatic    bool   `json:"automatic"`
	SeriesID     string `json:"series_id,omitempty"`
	PeriodLocked bool   `json:"period_locked"`

	// PaymentShare is the decimal fraction as a string ("0.3333...", "1"),
	// empty for non-payment tasks.
	PaymentShare string `json:"payment_share,omitempty"`
}

// SaveTaskRequest is the request body for creating or updating a manual
// task. An empty ID means create; a known ID means edit through the series
// planner.
type SaveTaskRequest struct {
	ID       string `json:"id,omitempty"`
	EntityID string `json:"entity_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	DueDate string `json:"due_date"`
	DueTime string `json:"due_time,omitempty"`

	Transfer string `json:"transfer,omitempty"`
	Cadence  string `json:"cadence,omitempty"`
	Reminder string `json:"reminder,omitempty"`
}

// BulkCompleteRequest marks a batch of tasks completed.
type BulkCompleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkCompleteResultDTO reports how many of the batch were completed.
type BulkCompleteResultDTO struct {
	Completed int `json:"completed"`
	Requested int `json:"requested"`
}

// DeletePreviewDTO lists the task ids a deletion with the given scope
// would remove.
type DeletePreviewDTO struct {
	Scope string   `json:"scope"`
	IDs   []string `json:"ids"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEntityDTO(e engine.LegalEntity) EntityDTO {
	dto := EntityDTO{
		ID:            string(e.ID),
		Name:          e.Name,
		LegalForm:     string(e.LegalForm),
		TaxRegime:     string(e.TaxRegime),
		TaxNumber:     e.TaxNumber,
		RegNumber:     e.RegNumber,
		LegalAddress:  e.LegalAddress,
		ActualAddress: e.ActualAddress,
		ContactPerson: e.ContactPerson,
		Phone:         e.Phone,
		Email:         e.Email,
		HasEmployees:  e.HasEmployees,
		VATPayer:      e.VATPayer,
		CreatedAt:     e.CreatedAt.String(),
		Archived:      e.Archived,
	}
	for _, p := range e.Patents {
		dto.Patents = append(dto.Patents, PatentDTO{
			ID:        p.ID,
			Name:      p.Name,
			Start:     p.Start.String(),
			End:       p.End.String(),
			AutoRenew: p.AutoRenew,
		})
	}
	for _, n := range e.Notes {
		nd := NoteDTO{ID: n.ID, Text: n.Text}
		if !n.CreatedAt.IsZero() {
			nd.CreatedAt = n.CreatedAt.String()
		}
		dto.Notes = append(dto.Notes, nd)
	}
	for _, c := range e.Credentials {
		dto.Credentials = append(dto.Credentials, CredentialDTO{
			ID:       c.ID,
			Service:  c.Service,
			Login:    c.Login,
			Password: c.Password,
		})
	}
	return dto
}

func toEntityDTOs(entities []engine.LegalEntity) []EntityDTO {
	dtos := make([]EntityDTO, len(entities))
	for i, e := range entities {
		dtos[i] = toEntityDTO(e)
	}
	return dtos
}

func fromEntityRequest(req SaveEntityRequest) (engine.LegalEntity, error) {
	e := engine.LegalEntity{
		ID:            engine.EntityID(req.ID),
		Name:          req.Name,
		LegalForm:     engine.LegalForm(req.LegalForm),
		TaxRegime:     engine.TaxRegime(req.TaxRegime),
		TaxNumber:     req.TaxNumber,
		RegNumber:     req.RegNumber,
		LegalAddress:  req.LegalAddress,
		ActualAddress: req.ActualAddress,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		HasEmployees:  req.HasEmployees,
		VATPayer:      req.VATPayer,
		Archived:      req.Archived,
	}

	if req.CreatedAt != "" {
		created, err := engine.ParseDate(req.CreatedAt)
		if err != nil {
			return e, fmt.Errorf("created_at: %w", err)
		}
		e.CreatedAt = created
	}

	for _, p := range req.Patents {
		start, err := engine.ParseDate(p.Start)
		if err != nil {
			return e, fmt.Errorf("patent %s start: %w", p.ID, err)
		}
		end, err := engine.ParseDate(p.End)
		if err != nil {
			return e, fmt.Errorf("patent %s end: %w", p.ID, err)
		}
		e.Patents = append(e.Patents, engine.Patent{
			ID:        p.ID,
			Name:      p.Name,
			Start:     start,
			End:       end,
			AutoRenew: p.AutoRenew,
		})
	}
	for _, n := range req.Notes {
		note := engine.Note{ID: n.ID, Text: n.Text}
		if n.CreatedAt != "" {
			created, err := engine.ParseDate(n.CreatedAt)
			if err != nil {
				return e, fmt.Errorf("note %s created_at: %w", n.ID, err)
			}
			note.CreatedAt = created
		}
		e.Notes = append(e.Notes, note)
	}
	for _, c := range req.Credentials {
		e.Credentials = append(e.Credentials, engine.Credential{
			ID:       c.ID,
			Service:  c.Service,
			Login:    c.Login,
			Password: c.Password,
		})
	}
	return e, nil
}

func toTaskDTO(t engine.Task) TaskDTO {
	dto := TaskDTO{
		ID:           string(t.ID),
		EntityID:     string(t.EntityID),
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      t.DueDate.String(),
		DueTime:      t.DueTime,
		Transfer:     string(t.Transfer),
		Cadence:      string(t.Cadence),
		Reminder:     string(t.Reminder),
		Status:       string(t.Status),
		Automatic:    t.Automatic,
		SeriesID:     string(t.SeriesID),
		PeriodLocked: t.PeriodLocked,
	}
	if !t.PaymentShare.IsZero() {
		dto.PaymentShare = t.PaymentShare.String()
	}
	return dto
}

func toTaskDTOs(tasks []engine.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}

func fromTaskRequest(req SaveTaskRequest) (engine.Task, error) {
	due, err := engine.ParseDate(req.DueDate)
	if err != nil {
		return engine.Task{}, fmt.Errorf("due_date: %w", err)
	}

	t := engine.Task{
		ID:          engine.TaskID(req.ID),
		EntityID:    engine.EntityID(req.EntityID),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		DueTime:     req.DueTime,
		Transfer:    engine.TransferPolicy(req.Transfer),
		Cadence:     engine.Cadence(req.Cadence),
		Reminder:    engine.Reminder(req.Reminder),
	}
	if t.Transfer == "" {
		t.Transfer = engine.TransferNone
	}
	if t.Cadence == "" {
		t.Cadence = engine.CadenceNone
	}
	if t.Reminder == "" {
		t.Reminder = engine.RemindNever
	}
	return t, nil
}

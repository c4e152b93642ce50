package engine

// =============================================================================
// LEGAL ENTITY - The taxable unit obligations are generated for
// =============================================================================

type EntityID string

// TaxRegime classifies an entity for rule applicability.
type TaxRegime string

const (
	RegimeGeneral                 TaxRegime = "general"
	RegimeSimplifiedIncome        TaxRegime = "simplified_income"
	RegimeSimplifiedIncomeExpense TaxRegime = "simplified_income_expense"
	RegimePatent                  TaxRegime = "patent"
)

// LegalForm is the entity's incorporation form. The engine round-trips it
// without interpreting it; applicability predicates key off TaxRegime.
type LegalForm string

const (
	FormLLC            LegalForm = "llc"
	FormSoleProprietor LegalForm = "sole_proprietor"
	FormJSC            LegalForm = "jsc"
)

// LegalEntity is a company or sole proprietor under management.
//
// CreatedAt establishes the earliest instant any generated obligation for
// this entity may be due: the generator never materializes a task whose
// due date precedes it.
type LegalEntity struct {
	ID        EntityID  `json:"id"`
	Name      string    `json:"name"`
	LegalForm LegalForm `json:"legal_form"`
	TaxRegime TaxRegime `json:"tax_regime"`

	// Registry and contact profile, stored but not interpreted by the engine.
	TaxNumber     string `json:"tax_number,omitempty"`
	RegNumber     string `json:"reg_number,omitempty"`
	LegalAddress  string `json:"legal_address,omitempty"`
	ActualAddress string `json:"actual_address,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`

	HasEmployees bool `json:"has_employees"`
	VATPayer     bool `json:"vat_payer,omitempty"`

	CreatedAt Date `json:"created_at"`
	Archived  bool `json:"archived,omitempty"`

	Patents     []Patent     `json:"patents,omitempty"`
	Notes       []Note       `json:"notes,omitempty"`
	Credentials []Credential `json:"credentials,omitempty"`
}

// Patent is a time-boxed obligation source owned by an entity. Its payment
// and renewal obligations are produced by a dedicated sub-generator.
type Patent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Start     Date   `json:"start"`
	End       Date   `json:"end"`
	AutoRenew bool   `json:"auto_renew"`
}

// Note is free-form text attached to an entity.
type Note struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt Date   `json:"created_at"`
}

// Credential is a stored login for an external service (bank, tax portal).
// The engine treats it as opaque entity data.
type Credential struct {
	ID       string `json:"id"`
	Service  string `json:"service"`
	Login    string `json:"login"`
	Password string `json:"password,omitempty"`
}

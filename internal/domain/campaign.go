package domain

import "time"

// Organization is a dashboard tenant.
type Organization struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Domain    string    `json:"domain" db:"domain"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WizardStep enumerates the campaign builder's states.
type WizardStep string

const (
	StepDetails    WizardStep = "details"
	StepLeads      WizardStep = "leads"
	StepGenerating WizardStep = "generating"
	StepReview     WizardStep = "review"
)

// CampaignDraft is a campaign being assembled in the builder wizard.
// It persists across requests so a client can resume an unfinished draft.
type CampaignDraft struct {
	ID             string     `json:"id" db:"id"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	Step           WizardStep `json:"step" db:"step"`

	// Details step
	Name      string `json:"name" db:"name"`
	Industry  string `json:"industry" db:"industry"`
	Role      string `json:"role" db:"target_role"`
	ValueProp string `json:"value_prop" db:"value_prop"`

	// Leads step
	LeadCount int `json:"lead_count" db:"lead_count"`

	// Generating step output
	SequenceGenerated bool `json:"sequence_generated" db:"sequence_generated"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EngineStatus is the last-reported state of one external automation engine.
// The engines themselves run as external n8n workflows; this backend only
// renders what they report.
type EngineStatus struct {
	Name        string    `json:"name"`
	State       string    `json:"state"` // "active", "idle", "error", "unknown"
	Message     string    `json:"message,omitempty"`
	LastChecked time.Time `json:"last_checked"`
	Reachable   bool      `json:"reachable"`
}

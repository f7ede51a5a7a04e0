package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantumreach/outreach-server/internal/pkg/httputil"
	"github.com/quantumreach/outreach-server/internal/wizard"
)

func (h *Handlers) writeWizardError(w http.ResponseWriter, err error) {
	var guard *wizard.GuardError
	switch {
	case errors.Is(err, wizard.ErrNotFound):
		httputil.NotFound(w, "draft not found")
	case errors.As(err, &guard):
		httputil.Conflict(w, guard.Error())
	case errors.Is(err, wizard.ErrAtFirstStep), errors.Is(err, wizard.ErrAtLastStep):
		httputil.Conflict(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

// CreateDraft starts a new campaign draft at the Details step.
func (h *Handlers) CreateDraft(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	draft, err := h.wizard.Create(r.Context(), orgID)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, draft)
}

// GetDraft fetches a draft.
func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	draft, err := h.wizard.Get(r.Context(), orgID, chi.URLParam(r, "draftID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	httputil.OK(w, draft)
}

// UpdateDraftDetails saves the Details-step form.
func (h *Handlers) UpdateDraftDetails(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	var u wizard.DetailsUpdate
	if !httputil.Decode(w, r, &u) {
		return
	}
	draft, err := h.wizard.UpdateDetails(r.Context(), orgID, chi.URLParam(r, "draftID"), u)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	httputil.OK(w, draft)
}

// SetDraftLeads saves the Leads-step selection size.
func (h *Handlers) SetDraftLeads(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	var body struct {
		LeadCount int `json:"lead_count"`
	}
	if !httputil.Decode(w, r, &body) {
		return
	}
	draft, err := h.wizard.SetLeadCount(r.Context(), orgID, chi.URLParam(r, "draftID"), body.LeadCount)
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	httputil.OK(w, draft)
}

// MarkDraftGenerated records that the sequence generation step finished.
func (h *Handlers) MarkDraftGenerated(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	draft, err := h.wizard.MarkSequenceGenerated(r.Context(), orgID, chi.URLParam(r, "draftID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	httputil.OK(w, draft)
}

// AdvanceDraft moves the draft to the next step if its guard passes.
func (h *Handlers) AdvanceDraft(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	draft, err := h.wizard.Advance(r.Context(), orgID, chi.URLParam(r, "draftID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	httputil.OK(w, draft)
}

// BackDraft moves the draft to the previous step. Data is kept.
func (h *Handlers) BackDraft(w http.ResponseWriter, r *http.Request) {
	orgID := orgIDFromRequest(r, h.authManager)
	if orgID == "" {
		httputil.BadRequest(w, "organization not specified")
		return
	}
	draft, err := h.wizard.Back(r.Context(), orgID, chi.URLParam(r, "draftID"))
	if err != nil {
		h.writeWizardError(w, err)
		return
	}
	httputil.OK(w, draft)
}

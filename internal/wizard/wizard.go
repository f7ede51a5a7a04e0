// Package wizard drives the campaign builder's step flow as an explicit
// state machine: Details → Leads → Generating → Review. Each forward
// transition has a named guard; an unmet guard is a client error, not a
// silently-ignored click.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quantumreach/outreach-server/internal/domain"
)

var (
	// ErrNotFound is returned when a draft does not exist for the org.
	ErrNotFound = errors.New("campaign draft not found")
	// ErrAtFirstStep is returned when stepping back from Details.
	ErrAtFirstStep = errors.New("already at the first step")
	// ErrAtLastStep is returned when advancing past Review.
	ErrAtLastStep = errors.New("already at the final step")
)

// GuardError explains which precondition blocked a transition.
type GuardError struct {
	From   domain.WizardStep
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("cannot advance from %s: %s", e.From, e.Reason)
}

// Store persists drafts between requests.
type Store interface {
	GetDraft(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error)
	SaveDraft(ctx context.Context, draft *domain.CampaignDraft) error
}

// Service manages campaign drafts for the builder UI.
type Service struct {
	store Store
}

// NewService creates a wizard service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create starts a new draft at the Details step.
func (s *Service) Create(ctx context.Context, orgID string) (*domain.CampaignDraft, error) {
	now := time.Now().UTC()
	draft := &domain.CampaignDraft{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Step:           domain.StepDetails,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return draft, nil
}

// Get fetches a draft scoped to the org.
func (s *Service) Get(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error) {
	return s.store.GetDraft(ctx, orgID, id)
}

// DetailsUpdate carries the Details-step form fields.
type DetailsUpdate struct {
	Name      string `json:"name"`
	Industry  string `json:"industry"`
	Role      string `json:"role"`
	ValueProp string `json:"value_prop"`
}

// UpdateDetails writes the Details form onto the draft. Allowed at any step —
// the UI lets users jump back and edit.
func (s *Service) UpdateDetails(ctx context.Context, orgID, id string, u DetailsUpdate) (*domain.CampaignDraft, error) {
	draft, err := s.store.GetDraft(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	draft.Name = u.Name
	draft.Industry = u.Industry
	draft.Role = u.Role
	draft.ValueProp = u.ValueProp
	return s.save(ctx, draft)
}

// SetLeadCount records how many leads the client attached.
func (s *Service) SetLeadCount(ctx context.Context, orgID, id string, n int) (*domain.CampaignDraft, error) {
	draft, err := s.store.GetDraft(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	draft.LeadCount = n
	return s.save(ctx, draft)
}

// MarkSequenceGenerated records that the external generation workflow
// reported completion for this draft.
func (s *Service) MarkSequenceGenerated(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error) {
	draft, err := s.store.GetDraft(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	draft.SequenceGenerated = true
	return s.save(ctx, draft)
}

// Advance moves the draft one step forward if its guard passes.
func (s *Service) Advance(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error) {
	draft, err := s.store.GetDraft(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	next, err := NextStep(draft)
	if err != nil {
		return nil, err
	}
	draft.Step = next
	return s.save(ctx, draft)
}

// Back moves the draft one step backward. No guard: going back never loses
// the draft's data, it only changes which form the UI shows.
func (s *Service) Back(ctx context.Context, orgID, id string) (*domain.CampaignDraft, error) {
	draft, err := s.store.GetDraft(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	prev, err := PrevStep(draft.Step)
	if err != nil {
		return nil, err
	}
	draft.Step = prev
	return s.save(ctx, draft)
}

func (s *Service) save(ctx context.Context, draft *domain.CampaignDraft) (*domain.CampaignDraft, error) {
	draft.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

// NextStep returns the step after the draft's current one, checking the
// transition's guard against the draft's data.
func NextStep(draft *domain.CampaignDraft) (domain.WizardStep, error) {
	switch draft.Step {
	case domain.StepDetails:
		if draft.Name == "" || draft.Industry == "" || draft.Role == "" || draft.ValueProp == "" {
			return "", &GuardError{From: domain.StepDetails, Reason: "name, industry, role and value proposition are required"}
		}
		return domain.StepLeads, nil
	case domain.StepLeads:
		if draft.LeadCount < 1 {
			return "", &GuardError{From: domain.StepLeads, Reason: "at least one lead is required"}
		}
		return domain.StepGenerating, nil
	case domain.StepGenerating:
		if !draft.SequenceGenerated {
			return "", &GuardError{From: domain.StepGenerating, Reason: "sequence generation has not completed"}
		}
		return domain.StepReview, nil
	case domain.StepReview:
		return "", ErrAtLastStep
	default:
		return "", fmt.Errorf("unknown wizard step %q", draft.Step)
	}
}

// PrevStep returns the step before the given one.
func PrevStep(step domain.WizardStep) (domain.WizardStep, error) {
	switch step {
	case domain.StepDetails:
		return "", ErrAtFirstStep
	case domain.StepLeads:
		return domain.StepDetails, nil
	case domain.StepGenerating:
		return domain.StepLeads, nil
	case domain.StepReview:
		return domain.StepGenerating, nil
	default:
		return "", fmt.Errorf("unknown wizard step %q", step)
	}
}

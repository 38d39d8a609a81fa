// Copyright (c) 2026 Aegis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/aegis/internal/platform/apperr"
	"github.com/taibuivan/aegis/internal/platform/validate"
	"github.com/taibuivan/aegis/internal/users/account"
	"github.com/taibuivan/aegis/pkg/pagination"
	"github.com/taibuivan/aegis/pkg/pointer"
	"github.com/taibuivan/aegis/pkg/slice"
	"github.com/taibuivan/aegis/pkg/slug"
)

// # Domain Entities

// PlanStatus is the lifecycle stage of an emergency operation plan.
type PlanStatus string

const (
	PlanDraft    PlanStatus = "draft"
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

var planStatuses = []string{string(PlanDraft), string(PlanActive), string(PlanArchived)}

// Plan is an emergency operation plan, addressed by slug.
type Plan struct {
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Area      string     `json:"area"`
	Severity  int        `json:"severity"`
	Status    PlanStatus `json:"status"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PlanFilter narrows a plan listing. Zero values match everything.
type PlanFilter struct {
	Statuses    []PlanStatus
	MinSeverity int
}

func (f PlanFilter) matches(plan *Plan) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, plan.Status) {
		return false
	}
	return plan.Severity >= f.MinSeverity
}

// # Field Identifiers

const (
	FieldTitle    = "title"
	FieldSummary  = "summary"
	FieldArea     = "area"
	FieldSeverity = "severity"
	FieldStatus   = "status"
	FieldBody     = "body"
)

// # Store

// PlanStore keeps operation plans in memory, newest first.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]*Plan
}

// NewPlanStore creates a store holding copies of seed.
func NewPlanStore(seed ...*Plan) *PlanStore {
	store := &PlanStore{plans: make(map[string]*Plan, len(seed))}
	for _, plan := range seed {
		copied := *plan
		store.plans[plan.Slug] = &copied
	}
	return store
}

// List returns one page of plans matching filter and the number of matches.
func (store *PlanStore) List(_ context.Context, filter PlanFilter, params pagination.Params) ([]*Plan, int) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	all := make([]*Plan, 0, len(store.plans))
	for _, plan := range store.plans {
		copied := *plan
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Slug < all[j].Slug
	})

	matched := slice.Filter(all, filter.matches)
	return pagination.Window(matched, params), len(matched)
}

// Get returns the plan with the given slug.
func (store *PlanStore) Get(_ context.Context, planSlug string) (*Plan, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	plan, ok := store.plans[planSlug]
	if !ok {
		return nil, apperr.NotFound("Plan")
	}
	copied := *plan
	return &copied, nil
}

// Insert derives a unique slug from the title and stores the plan.
func (store *PlanStore) Insert(_ context.Context, plan *Plan) *Plan {
	store.mu.Lock()
	defer store.mu.Unlock()

	plan.Slug = slug.Unique(plan.Title, "plan", func(candidate string) bool {
		_, taken := store.plans[candidate]
		return taken
	})

	copied := *plan
	store.plans[plan.Slug] = &copied
	return plan
}

// Update applies mutate to the stored plan under the write lock.
func (store *PlanStore) Update(_ context.Context, planSlug string, mutate func(*Plan) error) (*Plan, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	current, ok := store.plans[planSlug]
	if !ok {
		return nil, apperr.NotFound("Plan")
	}

	next := *current
	if err := mutate(&next); err != nil {
		return nil, err
	}
	store.plans[planSlug] = &next

	result := next
	return &result, nil
}

// Delete removes a plan.
func (store *PlanStore) Delete(_ context.Context, planSlug string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.plans[planSlug]; !ok {
		return apperr.NotFound("Plan")
	}
	delete(store.plans, planSlug)
	return nil
}

// # Service Layer

// PlanService validates plan changes before they reach the [PlanStore].
type PlanService struct {
	store *PlanStore
	now   func() time.Time
}

// NewPlanService constructs a [PlanService].
func NewPlanService(store *PlanStore) *PlanService {
	return &PlanService{store: store, now: time.Now}
}

// CreatePlanInput holds the fields of a new plan.
type CreatePlanInput struct {
	Title    string
	Summary  string
	Area     string
	Severity int
}

// UpdatePlanInput holds a partial update; nil fields are left unchanged.
type UpdatePlanInput struct {
	Title    *string
	Summary  *string
	Area     *string
	Severity *int
	Status   *string
}

// List returns one page of plans.
func (service *PlanService) List(context context.Context, filter PlanFilter, params pagination.Params) ([]*Plan, int) {
	return service.store.List(context, filter, params)
}

// Get returns one plan.
func (service *PlanService) Get(context context.Context, planSlug string) (*Plan, error) {
	return service.store.Get(context, planSlug)
}

/*
Create validates and stores a new draft plan authored by author.

Returns:
  - *Plan: The stored plan with its slug
  - error: Validation failures
*/
func (service *PlanService) Create(context context.Context, author *account.User, input CreatePlanInput) (*Plan, error) {
	input.Title = strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validatePlanFields(validator, input.Title, input.Summary, input.Area, input.Severity)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	plan := &Plan{
		Title:     input.Title,
		Summary:   strings.TrimSpace(input.Summary),
		Area:      strings.TrimSpace(input.Area),
		Severity:  input.Severity,
		Status:    PlanDraft,
		CreatedBy: author.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return service.store.Insert(context, plan), nil
}

/*
Update applies a partial update. The slug never changes, even when the title does.

Returns:
  - *Plan: The updated plan
  - error: Validation or NotFound failures
*/
func (service *PlanService) Update(context context.Context, planSlug string, input UpdatePlanInput) (*Plan, error) {
	return service.store.Update(context, planSlug, func(plan *Plan) error {
		title := strings.TrimSpace(pointer.Fallback(input.Title, plan.Title))
		summary := strings.TrimSpace(pointer.Fallback(input.Summary, plan.Summary))
		area := strings.TrimSpace(pointer.Fallback(input.Area, plan.Area))
		severity := pointer.Fallback(input.Severity, plan.Severity)
		status := pointer.Fallback(input.Status, string(plan.Status))

		validator := &validate.Validator{}
		validatePlanFields(validator, title, summary, area, severity)
		validator.OneOf(FieldStatus, status, planStatuses...)
		if err := validator.Err(); err != nil {
			return err
		}

		plan.Title = title
		plan.Summary = summary
		plan.Area = area
		plan.Severity = severity
		plan.Status = PlanStatus(status)
		plan.UpdatedAt = service.now().UTC()
		return nil
	})
}

// Delete removes a plan.
func (service *PlanService) Delete(context context.Context, planSlug string) error {
	return service.store.Delete(context, planSlug)
}

func validatePlanFields(validator *validate.Validator, title, summary, area string, severity int) {
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, 120).
		MaxLen(FieldSummary, summary, 2000).
		Required(FieldArea, area).
		MaxLen(FieldArea, area, 120).
		Range(FieldSeverity, severity, 1, 5)
}

// # Seed Data

// SeedPlans returns the mock plans shown on a fresh deployment.
func SeedPlans() []*Plan {
	created := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)

	return []*Plan{
		{
			Slug:      "flood-response-riverside",
			Title:     "Flood Response Riverside",
			Summary:   "Sandbag distribution, levee patrols and evacuation of low-lying blocks.",
			Area:      "Riverside District",
			Severity:  4,
			Status:    PlanActive,
			CreatedBy: "moderator",
			CreatedAt: created,
			UpdatedAt: created,
		},
		{
			Slug:      "wildfire-evacuation-north-ridge",
			Title:     "Wildfire Evacuation North Ridge",
			Summary:   "Staged evacuation routes and shelter assignments for the ridge settlements.",
			Area:      "North Ridge",
			Severity:  5,
			Status:    PlanDraft,
			CreatedBy: "admin",
			CreatedAt: created.Add(24 * time.Hour),
			UpdatedAt: created.Add(24 * time.Hour),
		},
		{
			Slug:      "heatwave-cooling-centres",
			Title:     "Heatwave Cooling Centres",
			Summary:   "Opening hours and staffing of public cooling centres.",
			Area:      "City Centre",
			Severity:  2,
			Status:    PlanArchived,
			CreatedBy: "moderator",
			CreatedAt: created.Add(-24 * time.Hour),
			UpdatedAt: created.Add(-24 * time.Hour),
		},
	}
}

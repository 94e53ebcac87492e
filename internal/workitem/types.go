// Package workitem contains the domain model for tracked delivery work:
// work items, project and team descriptors, and the repository contract
// that hands materialized item sets to the analytical layers.
package workitem

import "time"

// Kind classifies the nature of a work item.
type Kind string

const (
	KindFeature Kind = "feature"
	KindBug     Kind = "bug"
	KindChore   Kind = "chore"
)

// ClassOfService captures the urgency policy an item was pulled under.
type ClassOfService string

const (
	ClassStandard   ClassOfService = "standard"
	ClassExpedite   ClassOfService = "expedite"
	ClassFixedDate  ClassOfService = "fixed_date"
	ClassIntangible ClassOfService = "intangible"
)

// Stream distinguishes discovery work from delivery work.
type Stream string

const (
	StreamUpstream   Stream = "upstream"
	StreamDownstream Stream = "downstream"
)

// WorkItem is a single unit of delivered work tracked from creation
// through completion. Timestamps after CreatedAt are optional: an item
// that was never committed or never finished carries nil there.
type WorkItem struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"createdAt"`
	CommittedAt    *time.Time     `json:"committedAt,omitempty"`
	FinishedAt     *time.Time     `json:"finishedAt,omitempty"`
	DiscardedAt    *time.Time     `json:"discardedAt,omitempty"`
	Kind           Kind           `json:"kind"`
	ClassOfService ClassOfService `json:"classOfService"`
	Stream         Stream         `json:"streamMembership"`
	ProjectID      string         `json:"projectId"`
	TeamID         string         `json:"teamId"`
}

// Kept reports whether the item is still part of the analyzed population.
// Discarded items stay on record but are excluded from every computation.
func (w WorkItem) Kept() bool {
	return w.DiscardedAt == nil
}

// Finished reports whether the item has completed its workflow.
func (w WorkItem) Finished() bool {
	return w.FinishedAt != nil
}

// LeadTimeHours returns the commitment-to-completion duration in hours,
// or 0 when either timestamp is missing.
func (w WorkItem) LeadTimeHours() float64 {
	if w.CommittedAt == nil || w.FinishedAt == nil {
		return 0
	}
	return w.FinishedAt.Sub(*w.CommittedAt).Hours()
}

// Project describes the delivery effort being consolidated.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TeamID       string    `json:"teamId"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	WIPLimit     int       `json:"wipLimit"`
	InitialScope int       `json:"initialScope"`
}

// Team describes the shared-capacity context a project draws from.
type Team struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WIPLimit int    `json:"wipLimit"`
}

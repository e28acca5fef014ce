package audit

import (
	"time"

	"github.com/google/uuid"

	id "licensehub/pkg/domain"
)

// EventCategory classifies audit events by their retention needs.
type EventCategory string

const (
	// CategoryCompliance covers changes to what an organization has paid for
	// or who may use it. These are written fail-closed.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine administrative activity.
	CategoryOperations EventCategory = "operations"
)

type AuditEvent string

const (
	EventLicenseCreated     AuditEvent = "license_created"
	EventLicenseUpdated     AuditEvent = "license_updated"
	EventLicenseDeactivated AuditEvent = "license_deactivated"
	EventLicenseReactivated AuditEvent = "license_reactivated"
	EventSeatDeactivated    AuditEvent = "seat_deactivated"
	EventSeatAssigned       AuditEvent = "seat_assigned"
	EventSeatReactivated    AuditEvent = "seat_reactivated"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventLicenseUpdated:     CategoryCompliance,
	EventLicenseDeactivated: CategoryCompliance,
	EventSeatDeactivated:    CategoryCompliance,
	EventSeatReactivated:    CategoryCompliance,

	EventLicenseCreated:     CategoryOperations,
	EventLicenseReactivated: CategoryOperations,
	EventSeatAssigned:       CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is emitted by the license service to record an administrative action.
// It is transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID             uuid.UUID         `json:"id"`
	Action         AuditEvent        `json:"action"`
	Category       EventCategory     `json:"category"`
	Timestamp      time.Time         `json:"timestamp"`
	OrganizationID id.OrganizationID `json:"organizationId,omitempty"`
	LicenseID      id.LicenseID      `json:"licenseId,omitempty"`
	// UserID is the seat holder affected, for seat events.
	UserID    id.UserID `json:"userId,omitempty"`
	ActorID   string    `json:"actorId,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Prepare fills the ID, category and timestamp when unset.
func (e *Event) Prepare(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Category = e.Action.Category()
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
}

// AggregateKey is the partition key used for the event stream; events of one
// license stay ordered.
func (e Event) AggregateKey() string {
	if !e.LicenseID.IsZero() {
		return "license-" + e.LicenseID.String()
	}
	return "audit-" + e.ID.String()
}

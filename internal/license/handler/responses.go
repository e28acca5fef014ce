package handler

import (
	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/dates"
)

// LicenseListResponse lists one organization's licenses.
type LicenseListResponse struct {
	Licenses []models.LicenseView `json:"licenses"`
}

// UpdateLicenseResponse is returned by both the update and the preview route.
type UpdateLicenseResponse struct {
	Message            string                   `json:"message"`
	License            models.License           `json:"license"`
	DeactivatedUsers   []models.DeactivatedUser `json:"deactivatedUsers"`
	DeactivatedUserIDs []id.UserID              `json:"deactivatedUserIds"`
}

func toUpdateResponse(d *models.Decision) *UpdateLicenseResponse {
	return &UpdateLicenseResponse{
		Message:            d.Message,
		License:            d.UpdatedLicense,
		DeactivatedUsers:   d.DeactivatedUsers,
		DeactivatedUserIDs: d.DeactivatedUserIDs,
	}
}

// SeatResponse renders a seat for the portal roster table. Dates use the
// portal's display format and "-" when absent.
type SeatResponse struct {
	UserID        id.UserID `json:"userId"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	LastLogin     string    `json:"lastLogin"`
	AssignedAt    string    `json:"assignedAt"`
	DeactivatedAt string    `json:"deactivatedAt"`
}

type SeatListResponse struct {
	Seats       []SeatResponse `json:"seats"`
	ActiveSeats int            `json:"activeSeats"`
}

func toSeatResponse(seat *models.Seat) SeatResponse {
	entry := seat.RosterEntry()
	return SeatResponse{
		UserID:        seat.UserID,
		Name:          seat.UserName,
		Status:        entry.Status,
		LastLogin:     dates.FormatDisplay(seat.LastLoginAt),
		AssignedAt:    dates.FormatDisplay(&seat.AssignedAt),
		DeactivatedAt: dates.FormatDisplay(seat.DeactivatedAt),
	}
}

func toSeatListResponse(seats []*models.Seat) *SeatListResponse {
	out := &SeatListResponse{Seats: make([]SeatResponse, 0, len(seats))}
	for _, seat := range seats {
		out.Seats = append(out.Seats, toSeatResponse(seat))
	}
	out.ActiveSeats = models.CountActive(seats)
	return out
}

// AuditEventListResponse is the recorded history of one license, oldest first.
type AuditEventListResponse struct {
	Events []audit.Event `json:"events"`
}

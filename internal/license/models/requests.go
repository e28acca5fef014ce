package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
	"licensehub/pkg/platform/dates"
	pstrings "licensehub/pkg/platform/strings"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LicenseTerms are the editable commercial terms of a license.
type LicenseTerms struct {
	Type               Type         `json:"type" validate:"required,oneof=USER DEVICE LIFETIME DEMO"`
	Plan               Plan         `json:"plan" validate:"required,oneof=BASIC PRO"`
	Quantity           *int         `json:"quantity,omitempty" validate:"omitempty,min=0,max=100000"`
	ValidityPeriod     *int         `json:"validityPeriod,omitempty" validate:"omitempty,min=1,max=1200"`
	ValidityPeriodUnit DurationUnit `json:"validityPeriodUnit,omitempty" validate:"omitempty,oneof=MONTH YEAR"`
	StartDate          string       `json:"startDate" validate:"required"`
	EndDate            string       `json:"endDate,omitempty"`
	CurriculumIDs      []int64      `json:"curriculumIdList" validate:"omitempty,dive,gt=0"`

	startAt   time.Time
	endAt     *time.Time
	validated bool
}

// Normalize canonicalizes enum casing and drops fields the type cannot carry.
func (t *LicenseTerms) Normalize() {
	t.Type = Type(pstrings.NormalizeEnum(string(t.Type)))
	t.Plan = Plan(pstrings.NormalizeEnum(string(t.Plan)))
	t.ValidityPeriodUnit = DurationUnit(pstrings.NormalizeEnum(string(t.ValidityPeriodUnit)))
	t.StartDate = strings.TrimSpace(t.StartDate)
	t.EndDate = strings.TrimSpace(t.EndDate)
	if t.EndDate == dates.Placeholder {
		t.EndDate = ""
	}
	t.CurriculumIDs = dedupeIDs(t.CurriculumIDs)

	switch t.Type {
	case TypeDevice:
		t.Quantity = nil
	case TypeLifetime:
		t.EndDate = ""
		t.ValidityPeriod = nil
		t.ValidityPeriodUnit = ""
	}
}

// Validate normalizes and checks the terms, resolving the start and end instants.
func (t *LicenseTerms) Validate() error {
	t.validated = false
	t.Normalize()
	if err := validate.Struct(t); err != nil {
		return validationError(err)
	}

	if (t.Type == TypeUser || t.Type == TypeDemo) && t.Quantity == nil {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("quantity is required for %s licenses", t.Type))
	}
	if (t.ValidityPeriod == nil) != (t.ValidityPeriodUnit == "") {
		return dErrors.New(dErrors.CodeValidation, "validityPeriod and validityPeriodUnit must be provided together")
	}

	start, ok := dates.ParseTimestamp(t.StartDate)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "startDate is not a valid date")
	}
	t.startAt = start
	t.endAt = nil

	switch {
	case t.EndDate != "":
		end, ok := dates.ParseTimestamp(t.EndDate)
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "endDate is not a valid date")
		}
		t.endAt = &end
	case t.ValidityPeriod != nil:
		end := t.ValidityPeriodUnit.AddTo(start, *t.ValidityPeriod)
		t.endAt = &end
	}
	if t.endAt != nil && t.endAt.Before(t.startAt) {
		return dErrors.New(dErrors.CodeValidation, "endDate must not be before startDate")
	}

	t.validated = true
	return nil
}

// StartAt is the resolved start instant. Valid after Validate.
func (t *LicenseTerms) StartAt() time.Time { return t.startAt }

// EndAt is the resolved end instant, nil when the license never expires. Valid after Validate.
func (t *LicenseTerms) EndAt() *time.Time { return t.endAt }

// CreateLicenseRequest registers a new license for an organization.
type CreateLicenseRequest struct {
	ScenarioTitle string `json:"scenarioTitle" validate:"required,max=200"`
	LicenseTerms
}

func (r *CreateLicenseRequest) Validate() error {
	r.ScenarioTitle = strings.TrimSpace(r.ScenarioTitle)
	if r.ScenarioTitle == "" {
		return dErrors.New(dErrors.CodeValidation, "scenarioTitle is required")
	}
	if len(r.ScenarioTitle) > 200 {
		return dErrors.New(dErrors.CodeValidation, "scenarioTitle must be at most 200 characters")
	}
	return r.LicenseTerms.Validate()
}

// UpdateLicenseRequest replaces the commercial terms of a license.
type UpdateLicenseRequest struct {
	LicenseTerms
}

func (r *UpdateLicenseRequest) Validate() error {
	return r.LicenseTerms.Validate()
}

func dedupeIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid license terms")
	}
	fe := verrs[0]
	field := jsonFieldName(fe.Field())
	switch fe.Tag() {
	case "required":
		return dErrors.New(dErrors.CodeValidation, field+" is required")
	case "oneof":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
	case "min", "gt":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at least %s", field, minParam(fe)))
	case "max":
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
	}
	return dErrors.New(dErrors.CodeValidation, field+" is invalid")
}

func minParam(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "1"
	}
	return fe.Param()
}

var jsonFieldNames = map[string]string{
	"Type":               "type",
	"Plan":               "plan",
	"Quantity":           "quantity",
	"ValidityPeriod":     "validityPeriod",
	"ValidityPeriodUnit": "validityPeriodUnit",
	"StartDate":          "startDate",
	"EndDate":            "endDate",
	"CurriculumIDs":      "curriculumIdList",
	"ScenarioTitle":      "scenarioTitle",
	"Name":               "name",
}

func jsonFieldName(field string) string {
	if name, ok := jsonFieldNames[field]; ok {
		return name
	}
	if i := strings.IndexByte(field, '['); i > 0 {
		return jsonFieldName(field[:i])
	}
	return field
}

// AssignSeatRequest gives a user a seat on a license.
type AssignSeatRequest struct {
	UserID    id.UserID `json:"userId"`
	Name      string    `json:"name" validate:"max=200"`
	LastLogin string    `json:"lastLogin,omitempty"`

	lastLoginAt *time.Time
}

func (r *AssignSeatRequest) Validate() error {
	userID, err := id.ParseUserID(string(r.UserID))
	if err != nil {
		return err
	}
	r.UserID = userID
	r.Name = strings.TrimSpace(r.Name)
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}

	r.lastLoginAt = nil
	r.LastLogin = strings.TrimSpace(r.LastLogin)
	if r.LastLogin != "" && r.LastLogin != dates.Placeholder {
		t, ok := dates.ParseTimestamp(r.LastLogin)
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "lastLogin is not a valid date")
		}
		r.lastLoginAt = &t
	}
	return nil
}

// NewSeat builds the active seat described by the request. Call Validate first.
func (r *AssignSeatRequest) NewSeat(licenseID id.LicenseID, now time.Time) *Seat {
	return &Seat{
		LicenseID:   licenseID,
		UserID:      r.UserID,
		UserName:    r.Name,
		Active:      true,
		LastLoginAt: r.lastLoginAt,
		AssignedAt:  now,
	}
}

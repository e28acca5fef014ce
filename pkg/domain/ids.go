package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	dErrors "licensehub/pkg/domain-errors"
)

// OrganizationID identifies a customer organization.
type OrganizationID int64

// LicenseID identifies an organization license record. IDs are never reused.
type LicenseID int64

// UserID identifies a roster member. Upstream systems send either numeric or
// string identifiers, so the canonical form is the decimal/opaque string.
type UserID string

const maxUserIDLength = 64

func (id OrganizationID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id LicenseID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id UserID) String() string         { return string(id) }

func (id OrganizationID) IsZero() bool { return id == 0 }
func (id LicenseID) IsZero() bool      { return id == 0 }
func (id UserID) IsZero() bool         { return id == "" }

// ParseOrganizationID parses a positive decimal organization id.
func ParseOrganizationID(s string) (OrganizationID, error) {
	n, err := parsePositive(s, "organization id")
	return OrganizationID(n), err
}

// ParseLicenseID parses a positive decimal license id.
func ParseLicenseID(s string) (LicenseID, error) {
	n, err := parsePositive(s, "license id")
	return LicenseID(n), err
}

// ParseUserID trims and validates an opaque user identifier.
func ParseUserID(s string) (UserID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id cannot be empty")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id must be valid UTF-8")
	}
	if len(s) > maxUserIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id is too long")
	}
	return UserID(s), nil
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "user id must be a number or string")
	}
	*id = UserID(n.String())
	return nil
}

func parsePositive(s, what string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if n <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, what+" must be positive")
	}
	return n, nil
}

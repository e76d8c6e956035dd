package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

// Role is the account type of a user.
type Role string

const (
	RoleOwner     Role = "Owner"
	RoleInspector Role = "Inspector"
	RoleAdmin     Role = "Admin"
)

// UserStatus is the lifecycle state of an account. Deleted accounts stay in
// the users table.
type UserStatus string

const (
	UserStatusActive  UserStatus = "Active"
	UserStatusDeleted UserStatus = "Deleted"
)

// ReportStatus is the review state shared by reports and archive entries.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "Pending"
	ReportStatusAccepted ReportStatus = "Accepted"
	ReportStatusDeclined ReportStatus = "Declined"
)

var (
	roles          = []Role{RoleOwner, RoleInspector, RoleAdmin}
	userStatuses   = []UserStatus{UserStatusActive, UserStatusDeleted}
	reportStatuses = []ReportStatus{ReportStatusPending, ReportStatusAccepted, ReportStatusDeclined}
)

func parseLabel[T ~string](field, s string, known []T) (T, error) {
	for _, v := range known {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, apperror.Validation(field, fmt.Sprintf("unknown value %q", s))
}

func scanLabel[T ~string](field string, src any, known []T) (T, error) {
	switch v := src.(type) {
	case string:
		return parseLabel(field, v, known)
	case []byte:
		return parseLabel(field, string(v), known)
	case nil:
		var zero T
		return zero, apperror.Validation(field, "unexpected NULL")
	default:
		var zero T
		return zero, apperror.Validation(field, fmt.Sprintf("unsupported type %T", src))
	}
}

// ParseRole decodes a stored or submitted role label.
func ParseRole(s string) (Role, error) { return parseLabel("role", s, roles) }

// ParseUserStatus decodes a stored user status label.
func ParseUserStatus(s string) (UserStatus, error) { return parseLabel("status", s, userStatuses) }

// ParseReportStatus decodes a stored report status label.
func ParseReportStatus(s string) (ReportStatus, error) {
	return parseLabel("status", s, reportStatuses)
}

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, apperror.Validation("role", fmt.Sprintf("unknown value %q", string(r)))
	}
	return string(r), nil
}

func (r *Role) Scan(src any) error {
	v, err := scanLabel("role", src, roles)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (s UserStatus) String() string { return string(s) }

func (s UserStatus) Valid() bool {
	_, err := ParseUserStatus(string(s))
	return err == nil
}

func (s UserStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *UserStatus) UnmarshalText(b []byte) error {
	v, err := ParseUserStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s UserStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, apperror.Validation("status", fmt.Sprintf("unknown value %q", string(s)))
	}
	return string(s), nil
}

func (s *UserStatus) Scan(src any) error {
	v, err := scanLabel("status", src, userStatuses)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s ReportStatus) String() string { return string(s) }

func (s ReportStatus) Valid() bool {
	_, err := ParseReportStatus(string(s))
	return err == nil
}

// Decided reports whether the status is terminal.
func (s ReportStatus) Decided() bool {
	return s == ReportStatusAccepted || s == ReportStatusDeclined
}

func (s ReportStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

func (s *ReportStatus) UnmarshalText(b []byte) error {
	v, err := ParseReportStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s ReportStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, apperror.Validation("status", fmt.Sprintf("unknown value %q", string(s)))
	}
	return string(s), nil
}

func (s *ReportStatus) Scan(src any) error {
	v, err := scanLabel("status", src, reportStatuses)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

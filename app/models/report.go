package models

import (
	"strings"
	"time"
)

type Report struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"type:varchar(255);not null;index" json:"name" validate:"required,max=255"`
	Description   string       `gorm:"type:text" json:"description"`
	Status        ReportStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	DeclineReason string       `gorm:"type:text" json:"decline_reason,omitempty"`
	OwnerID       uint         `gorm:"index;not null" json:"owner_id"`
	Owner         *User        `gorm:"foreignKey:OwnerID" json:"-"` // constraint only, never loaded
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Assigned inspectors, persisted through report_inspectors. The users are
	// snapshots without report collections.
	Inspectors []User `gorm:"-" json:"inspectors"`
}

// NewReport returns a pending report owned by ownerID.
func NewReport(ownerID uint, name, description string, inspectorIDs []uint) *Report {
	r := &Report{
		Name:        strings.TrimSpace(name),
		Description: description,
		Status:      ReportStatusPending,
		OwnerID:     ownerID,
	}
	r.SetInspectorIDs(inspectorIDs)
	return r
}

func (r *Report) Validate() error {
	return validate.Struct(r)
}

// HasInspector reports whether userID is assigned to the report.
func (r *Report) HasInspector(userID uint) bool {
	for _, u := range r.Inspectors {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// InspectorIDs returns the identities of the assigned inspectors in list order.
func (r *Report) InspectorIDs() []uint {
	ids := make([]uint, 0, len(r.Inspectors))
	for _, u := range r.Inspectors {
		ids = append(ids, u.ID)
	}
	return ids
}

// SetInspectorIDs replaces the inspector list with identity-only references.
func (r *Report) SetInspectorIDs(ids []uint) {
	r.Inspectors = make([]User, 0, len(ids))
	for _, id := range ids {
		r.Inspectors = append(r.Inspectors, User{ID: id})
	}
}

package models

import "time"

// Archive is the snapshot of a report taken when an inspector decides it.
type Archive struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	Name                string       `gorm:"type:varchar(255);not null" json:"name"`
	Description         string       `gorm:"type:text" json:"description"`
	DeclineReason       string       `gorm:"type:text" json:"decline_reason,omitempty"`
	Status              ReportStatus `gorm:"type:varchar(20);not null" json:"status"`
	ReportID            uint         `gorm:"index;not null" json:"report_id"`
	Report              *Report      `gorm:"foreignKey:ReportID" json:"-"` // constraint only, never loaded
	InspectorDecisionID uint         `gorm:"index;not null" json:"inspector_decision_id"`
	InspectorDecision   *User        `gorm:"foreignKey:InspectorDecisionID" json:"inspector_decision,omitempty"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Archive) TableName() string {
	return "archive"
}

// NewArchive snapshots report as decided by inspectorID.
func NewArchive(report *Report, inspectorID uint) *Archive {
	return &Archive{
		Name:                report.Name,
		Description:         report.Description,
		DeclineReason:       report.DeclineReason,
		Status:              report.Status,
		ReportID:            report.ID,
		InspectorDecisionID: inspectorID,
	}
}

package models

// ReportInspector is one row of the report/inspector assignment table. The
// composite primary key keeps each pair unique.
type ReportInspector struct {
	ReportID uint    `gorm:"primaryKey;autoIncrement:false" json:"report_id"`
	UserID   uint    `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	Report   *Report `gorm:"foreignKey:ReportID" json:"-"`
	User     *User   `gorm:"foreignKey:UserID" json:"-"`
}

// AssignmentsFor builds the assignment rows linking reportID to each user.
func AssignmentsFor(reportID uint, userIDs []uint) []ReportInspector {
	rows := make([]ReportInspector, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, ReportInspector{ReportID: reportID, UserID: id})
	}
	return rows
}

// InspectionsFor builds the assignment rows linking userID to each report.
func InspectionsFor(userID uint, reportIDs []uint) []ReportInspector {
	rows := make([]ReportInspector, 0, len(reportIDs))
	for _, id := range reportIDs {
		rows = append(rows, ReportInspector{ReportID: id, UserID: userID})
	}
	return rows
}

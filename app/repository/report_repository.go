package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

const reportComponent = "ReportRepository"

const reportGraphQuery = `SELECT ` + reportColumns + `, ` + assignmentColumns + `, ` + userColumns + `
	FROM reports
	LEFT JOIN report_inspectors ON report_inspectors.report_id = reports.id
	LEFT JOIN users ON users.id = report_inspectors.user_id`

const reportGraphOrder = ` ORDER BY reports.id DESC, users.id`

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) WithTx(tx *gorm.DB) ReportRepository {
	return &reportRepository{db: tx}
}

func (r *reportRepository) find(where string, args ...any) ([]models.Report, error) {
	rg := newReportGraph()
	err := scanRows(r.db, (*joinRow).reportFirstTargets, rg.add, reportGraphQuery+where+reportGraphOrder, args...)
	if err != nil {
		return nil, err
	}
	return rg.reports(), nil
}

// FindByID retrieves a report with its inspectors
func (r *reportRepository) FindByID(id uint) (*models.Report, error) {
	reports, err := r.find(` WHERE reports.id = ?`, id)
	if err != nil {
		return nil, fail(reportComponent, "find report", err)
	}
	if len(reports) == 0 {
		return nil, apperror.NotFound("report", id)
	}
	return &reports[0], nil
}

// FindAll retrieves every report, newest first
func (r *reportRepository) FindAll() ([]models.Report, error) {
	reports, err := r.find(``)
	if err != nil {
		return nil, fail(reportComponent, "list reports", err)
	}
	return reports, nil
}

// FindByOwnerWhereNameLike lists the owner's reports whose name contains name
func (r *reportRepository) FindByOwnerWhereNameLike(ownerID uint, name string) ([]models.Report, error) {
	reports, err := r.find(` WHERE reports.owner_id = ? AND reports.name LIKE ? ESCAPE '!'`,
		ownerID, containsPattern(name))
	if err != nil {
		return nil, fail(reportComponent, "list owner reports", err)
	}
	return reports, nil
}

// FindAllByInspectorAndStatusWhereNameLike lists reports assigned to the
// inspector with the given status. Each report carries its full inspector set.
func (r *reportRepository) FindAllByInspectorAndStatusWhereNameLike(inspectorID uint, status models.ReportStatus, name string) ([]models.Report, error) {
	reports, err := r.find(` WHERE reports.status = ? AND reports.name LIKE ? ESCAPE '!'
		AND EXISTS (SELECT 1 FROM report_inspectors mine
			WHERE mine.report_id = reports.id AND mine.user_id = ?)`,
		status, containsPattern(name), inspectorID)
	if err != nil {
		return nil, fail(reportComponent, "list inspector reports", err)
	}
	return reports, nil
}

// Create inserts the report and its assignments. The generated identity comes
// back from the insert on the transaction's own connection.
func (r *reportRepository) Create(report *models.Report) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(report).Error; err != nil {
			return err
		}
		return insertAssignments(tx, models.AssignmentsFor(report.ID, report.InspectorIDs()))
	})
	if err != nil {
		report.ID = 0
		return fail(reportComponent, "create report", err)
	}
	return nil
}

// Update replaces the mutable columns and the inspector set. OwnerID is
// reloaded from the stored row.
func (r *reportRepository) Update(report *models.Report) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", report.ID).Delete(&models.ReportInspector{}).Error; err != nil {
			return err
		}

		var owners []uint
		if err := tx.Model(&models.Report{}).Where("id = ?", report.ID).Pluck("owner_id", &owners).Error; err != nil {
			return err
		}
		if len(owners) == 0 {
			return apperror.NotFound("report", report.ID)
		}
		// the owner never changes
		report.OwnerID = owners[0]

		now := time.Now()
		err := tx.Model(&models.Report{}).Where("id = ?", report.ID).Updates(map[string]any{
			"name":           report.Name,
			"description":    report.Description,
			"status":         report.Status,
			"decline_reason": report.DeclineReason,
			"updated_at":     now,
		}).Error
		if err != nil {
			return err
		}
		report.UpdatedAt = now

		return insertAssignments(tx, models.AssignmentsFor(report.ID, report.InspectorIDs()))
	})
	return fail(reportComponent, "update report", err)
}

// MarkDecided only touches rows that are still Pending, so two concurrent
// decisions cannot both succeed.
func (r *reportRepository) MarkDecided(id uint, status models.ReportStatus, declineReason string) (bool, error) {
	res := r.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", id, models.ReportStatusPending).
		Updates(map[string]any{
			"status":         status,
			"decline_reason": declineReason,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, fail(reportComponent, "decide report", res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	if err := r.db.Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fail(reportComponent, "decide report", err)
	}
	if count == 0 {
		return false, apperror.NotFound("report", id)
	}
	return false, nil
}

// Delete removes the report together with its assignments and archive entries
func (r *reportRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&models.ReportInspector{}).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", id).Delete(&models.Archive{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Report{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("report", id)
		}
		return nil
	})
	return fail(reportComponent, "delete report", err)
}

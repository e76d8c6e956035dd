package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

const archiveComponent = "ArchiveRepository"

const archiveQuery = `SELECT ` + archiveColumns + `, ` + userColumns + `
	FROM archive
	LEFT JOIN users ON users.id = archive.inspector_decision_id`

// archiveRepository implements the ArchiveRepository interface
type archiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository creates a new archive repository instance
func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) WithTx(tx *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: tx}
}

func (r *archiveRepository) find(tail string, args ...any) ([]models.Archive, error) {
	var entries []models.Archive
	each := func(row *archiveRow) error {
		entry, ok, err := row.Archive.decode()
		if err != nil || !ok {
			return err
		}
		inspector, ok, err := row.Inspector.decode()
		if err != nil {
			return err
		}
		if ok {
			entry.InspectorDecision = &inspector
		}
		entries = append(entries, entry)
		return nil
	}
	if err := scanRows(r.db, (*archiveRow).targets, each, archiveQuery+tail, args...); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Archive{}
	}
	return entries, nil
}

// FindByID retrieves an archive entry with the deciding inspector
func (r *archiveRepository) FindByID(id uint) (*models.Archive, error) {
	entries, err := r.find(` WHERE archive.id = ?`, id)
	if err != nil {
		return nil, fail(archiveComponent, "find archive entry", err)
	}
	if len(entries) == 0 {
		return nil, apperror.NotFound("archive entry", id)
	}
	return &entries[0], nil
}

// FindAll retrieves every archive entry ordered by ID
func (r *archiveRepository) FindAll() ([]models.Archive, error) {
	entries, err := r.find(` ORDER BY archive.id`)
	if err != nil {
		return nil, fail(archiveComponent, "list archive", err)
	}
	return entries, nil
}

// FindLastByReport returns the most recent decision recorded for the report
func (r *archiveRepository) FindLastByReport(reportID uint) (*models.Archive, error) {
	entries, err := r.find(` WHERE archive.report_id = ? ORDER BY archive.id DESC LIMIT 1`, reportID)
	if err != nil {
		return nil, fail(archiveComponent, "find last decision", err)
	}
	if len(entries) == 0 {
		return nil, apperror.NotFoundBy("archive entry", "report", reportID)
	}
	return &entries[0], nil
}

// FindAllByReport returns the decision history of the report, oldest first
func (r *archiveRepository) FindAllByReport(reportID uint) ([]models.Archive, error) {
	entries, err := r.find(` WHERE archive.report_id = ? ORDER BY archive.id`, reportID)
	if err != nil {
		return nil, fail(archiveComponent, "list report decisions", err)
	}
	return entries, nil
}

// Create stores a new archive entry and sets its ID
func (r *archiveRepository) Create(archive *models.Archive) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(archive).Error
	})
	if err != nil {
		archive.ID = 0
		return fail(archiveComponent, "create archive entry", err)
	}
	return nil
}

// Update rewrites the snapshot columns of an existing entry
func (r *archiveRepository) Update(archive *models.Archive) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Archive{}).Where("id = ?", archive.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFound("archive entry", archive.ID)
		}

		now := time.Now()
		err := tx.Model(&models.Archive{}).Where("id = ?", archive.ID).Updates(map[string]any{
			"name":                  archive.Name,
			"description":           archive.Description,
			"decline_reason":        archive.DeclineReason,
			"status":                archive.Status,
			"report_id":             archive.ReportID,
			"inspector_decision_id": archive.InspectorDecisionID,
			"updated_at":            now,
		}).Error
		if err != nil {
			return err
		}
		archive.UpdatedAt = now
		return nil
	})
	return fail(archiveComponent, "update archive entry", err)
}

// Delete removes an archive entry
func (r *archiveRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Archive{}, id)
	if res.Error != nil {
		return fail(archiveComponent, "delete archive entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("archive entry", id)
	}
	return nil
}

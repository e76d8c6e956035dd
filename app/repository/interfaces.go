package repository

import (
	"gorm.io/gorm"

	"github.com/ManuelReschke/ReviewDesk/app/models"
)

// Lookups by identity return an error matching apperror.ErrNotFound when no
// row exists. Storage failures surface as *apperror.PersistenceError.

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindAllByRole(role models.Role) ([]models.User, error)
	FindAll() ([]models.User, error)
	// Create inserts the user and its ReportsInspected assignments.
	Create(user *models.User) error
	// Update rewrites the user row and replaces its inspected-report set.
	Update(user *models.User) error
	// Delete marks the user Deleted; the row is kept.
	Delete(id uint) error
	WithTx(tx *gorm.DB) UserRepository
}

// ReportRepository defines the interface for report-related database operations
type ReportRepository interface {
	FindByID(id uint) (*models.Report, error)
	FindAll() ([]models.Report, error)
	FindByOwnerWhereNameLike(ownerID uint, name string) ([]models.Report, error)
	FindAllByInspectorAndStatusWhereNameLike(inspectorID uint, status models.ReportStatus, name string) ([]models.Report, error)
	// Create inserts the report and its inspector assignments in one
	// transaction and sets report.ID.
	Create(report *models.Report) error
	// Update rewrites name, description, status and decline reason and
	// replaces the inspector set. The owner is never changed.
	Update(report *models.Report) error
	// MarkDecided moves a Pending report to status. It returns false when the
	// report exists but is no longer Pending.
	MarkDecided(id uint, status models.ReportStatus, declineReason string) (bool, error)
	// Delete removes assignments, archive entries and the report.
	Delete(id uint) error
	WithTx(tx *gorm.DB) ReportRepository
}

// ArchiveRepository defines the interface for archive-related database operations
type ArchiveRepository interface {
	FindByID(id uint) (*models.Archive, error)
	FindAll() ([]models.Archive, error)
	// FindLastByReport returns the archive entry with the highest identity
	// for the report.
	FindLastByReport(reportID uint) (*models.Archive, error)
	FindAllByReport(reportID uint) ([]models.Archive, error)
	Create(archive *models.Archive) error
	Update(archive *models.Archive) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) ArchiveRepository
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Report  ReportRepository
	Archive ArchiveRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Report:  NewReportRepository(db),
		Archive: NewArchiveRepository(db),
	}
}

// WithTx returns repositories bound to tx so several of them can take part in
// one transaction.
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return &Repositories{
		User:    r.User.WithTx(tx),
		Report:  r.Report.WithTx(tx),
		Archive: r.Archive.WithTx(tx),
	}
}

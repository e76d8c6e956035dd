package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory owns the database handle and hands out repositories bound to it.
// It is created once at startup and passed to whoever needs storage access.
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns the shared set of repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetReportRepository returns the report repository instance
func (f *Factory) GetReportRepository() ReportRepository {
	return f.GetRepositories().Report
}

// GetArchiveRepository returns the archive repository instance
func (f *Factory) GetArchiveRepository() ArchiveRepository {
	return f.GetRepositories().Archive
}

// Transaction runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (f *Factory) Transaction(fn func(repos *Repositories) error) error {
	return f.db.Transaction(func(tx *gorm.DB) error {
		return fn(f.GetRepositories().WithTx(tx))
	})
}

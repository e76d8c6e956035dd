package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

const userComponent = "UserRepository"

// A report row joins a user either as its owner or through an assignment;
// userGraph tells the two apart.
const userGraphQuery = `SELECT ` + userColumns + `, ` + assignmentColumns + `, ` + reportColumns + `
	FROM users
	LEFT JOIN report_inspectors ON report_inspectors.user_id = users.id
	LEFT JOIN reports ON reports.owner_id = users.id OR reports.id = report_inspectors.report_id`

const userGraphOrder = ` ORDER BY users.id, reports.id`

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) find(where string, args ...any) ([]models.User, error) {
	ug := newUserGraph()
	err := scanRows(r.db, (*joinRow).userFirstTargets, ug.add, userGraphQuery+where+userGraphOrder, args...)
	if err != nil {
		return nil, err
	}
	return ug.users(), nil
}

func (r *userRepository) findOne(op, field string, key any, where string) (*models.User, error) {
	users, err := r.find(where, key)
	if err != nil {
		return nil, fail(userComponent, op, err)
	}
	if len(users) == 0 {
		return nil, apperror.NotFoundBy("user", field, key)
	}
	return &users[0], nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(id uint) (*models.User, error) {
	return r.findOne("find user", "id", id, ` WHERE users.id = ?`)
}

// FindByUsername retrieves a user by their username
func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	return r.findOne("find user", "username", username, ` WHERE users.username = ?`)
}

// FindByEmail retrieves a user by their email address
func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	return r.findOne("find user", "email", email, ` WHERE users.email = ?`)
}

// FindAllByRole lists users with the given role, deleted accounts included
func (r *userRepository) FindAllByRole(role models.Role) ([]models.User, error) {
	users, err := r.find(` WHERE users.role = ?`, role)
	if err != nil {
		return nil, fail(userComponent, "list users by role", err)
	}
	return users, nil
}

// FindAll retrieves every user ordered by ID
func (r *userRepository) FindAll() ([]models.User, error) {
	users, err := r.find(``)
	if err != nil {
		return nil, fail(userComponent, "list users", err)
	}
	return users, nil
}

// Create creates a new user together with its inspected-report assignments
func (r *userRepository) Create(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		return insertAssignments(tx, models.InspectionsFor(user.ID, user.InspectedReportIDs()))
	})
	if err != nil {
		user.ID = 0
		return fail(userComponent, "create user", err)
	}
	return nil
}

// Update writes the user row and replaces its inspected-report set
func (r *userRepository) Update(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFound("user", user.ID)
		}

		now := time.Now()
		err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
			"username":   user.Username,
			"email":      user.Email,
			"password":   user.Password,
			"role":       user.Role,
			"status":     user.Status,
			"updated_at": now,
		}).Error
		if err != nil {
			return err
		}
		user.UpdatedAt = now

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.ReportInspector{}).Error; err != nil {
			return err
		}
		return insertAssignments(tx, models.InspectionsFor(user.ID, user.InspectedReportIDs()))
	})
	return fail(userComponent, "update user", err)
}

// Delete marks the user as deleted. Owned reports and assignments stay.
func (r *userRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFound("user", id)
		}
		return tx.Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
			"status":     models.UserStatusDeleted,
			"updated_at": time.Now(),
		}).Error
	})
	return fail(userComponent, "delete user", err)
}

package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;type:varchar(150);not null" json:"username" validate:"required,min=3,max=150"`
	Email     string     `gorm:"uniqueIndex;type:varchar(200);not null" json:"email" validate:"required,email,max=200"`
	Password  string     `gorm:"type:varchar(255);not null" json:"-" validate:"required,min=6"`
	Role      Role       `gorm:"type:varchar(20);not null" json:"role" validate:"oneof=Owner Inspector Admin"`
	Status    UserStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status" validate:"oneof=Active Deleted"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Filled by the user repository from join queries. The reports are
	// snapshots without their own inspector lists.
	ReportsOwned     []Report `gorm:"-" json:"reports_owned,omitempty"`
	ReportsInspected []Report `gorm:"-" json:"reports_inspected,omitempty"`
}

func (u *User) Validate() error {
	return validate.Struct(u)
}

// CreateUser builds an active account with a hashed password.
func CreateUser(username, email, password string, role Role) (*User, error) {
	u := &User{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
		Status:   UserStatusActive,
	}

	// validate the plain password length before hashing
	if err := u.Validate(); err != nil {
		return nil, err
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Password = pw

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// IsActive reports whether the account has not been deleted
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Inspects reports whether reportID is in the user's inspected set.
func (u *User) Inspects(reportID uint) bool {
	for _, r := range u.ReportsInspected {
		if r.ID == reportID {
			return true
		}
	}
	return false
}

// InspectedReportIDs returns the identities of ReportsInspected.
func (u *User) InspectedReportIDs() []uint {
	ids := make([]uint, 0, len(u.ReportsInspected))
	for _, r := range u.ReportsInspected {
		ids = append(ids, r.ID)
	}
	return ids
}

package repository

import (
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

// fail converts an error from a repository operation into the caller-facing
// kind. Errors that already carry a kind pass through; anything else is a
// storage failure, logged here once with its cause.
func fail(component, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperror.ErrNotFound) ||
		errors.Is(err, apperror.ErrValidation) ||
		errors.Is(err, apperror.ErrAuthorizationDenied) ||
		errors.Is(err, apperror.ErrPersistence) {
		return err
	}
	log.Errorf("[%s] %s failed: %v", component, op, err)
	return apperror.Persistence(op, err)
}

// insertAssignments batch-inserts assignment rows in one statement.
func insertAssignments(tx *gorm.DB, rows []models.ReportInspector) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit("Report", "User").Create(&rows).Error
}

// Package workflow moves reports through review: owners submit and edit
// pending reports, assigned inspectors accept or decline them, and every
// decision is archived in the same transaction as the status change.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/app/repository"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

// ErrReportDecided is returned when a report that is no longer Pending is
// decided, edited or reassigned again. It matches apperror.ErrValidation.
var ErrReportDecided = apperror.Validation("status", "report has already been decided")

// Engine enforces the review state machine and its authorization rules.
type Engine struct {
	repos *repository.Factory
}

// NewEngine creates an engine that runs every operation on repositories from f.
func NewEngine(f *repository.Factory) *Engine {
	return &Engine{repos: f}
}

// SubmitReport creates a pending report owned by ownerID.
func (e *Engine) SubmitReport(ownerID uint, name, description string, inspectorIDs []uint) (*models.Report, error) {
	report := models.NewReport(ownerID, name, description, inspectorIDs)
	if err := report.Validate(); err != nil {
		return nil, invalid(err)
	}

	err := e.repos.Transaction(func(repos *repository.Repositories) error {
		owner, err := activeUser(repos, ownerID)
		if err != nil {
			return err
		}
		if owner.Role != models.RoleOwner && !owner.IsAdmin() {
			return apperror.Denied("only owners can submit reports")
		}
		if err := checkInspectors(repos, inspectorIDs); err != nil {
			return err
		}
		return repos.Report.Create(report)
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Workflow] Report %d submitted by user %d with %d inspectors", report.ID, ownerID, len(inspectorIDs))
	return e.repos.GetReportRepository().FindByID(report.ID)
}

// EditReport changes name and description of a pending report.
func (e *Engine) EditReport(actorID, reportID uint, name, description string) (*models.Report, error) {
	var report *models.Report
	err := e.repos.Transaction(func(repos *repository.Repositories) error {
		var err error
		report, err = ownedPendingReport(repos, actorID, reportID)
		if err != nil {
			return err
		}
		report.Name = strings.TrimSpace(name)
		report.Description = description
		if err := report.Validate(); err != nil {
			return invalid(err)
		}
		return repos.Report.Update(report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ReassignInspectors replaces the inspector set of a pending report.
func (e *Engine) ReassignInspectors(actorID, reportID uint, inspectorIDs []uint) (*models.Report, error) {
	var report *models.Report
	err := e.repos.Transaction(func(repos *repository.Repositories) error {
		var err error
		report, err = ownedPendingReport(repos, actorID, reportID)
		if err != nil {
			return err
		}
		if err := checkInspectors(repos, inspectorIDs); err != nil {
			return err
		}
		report.SetInspectorIDs(inspectorIDs)
		if err := repos.Report.Update(report); err != nil {
			return err
		}
		report, err = repos.Report.FindByID(reportID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Workflow] Report %d reassigned to %d inspectors", reportID, len(inspectorIDs))
	return report, nil
}

// Accept decides the report as Accepted on behalf of an assigned inspector.
func (e *Engine) Accept(actorID, reportID uint) (*models.Archive, error) {
	return e.decide(actorID, reportID, models.ReportStatusAccepted, "")
}

// Decline decides the report as Declined. A non-blank reason is required.
func (e *Engine) Decline(actorID, reportID uint, reason string) (*models.Archive, error) {
	return e.decide(actorID, reportID, models.ReportStatusDeclined, strings.TrimSpace(reason))
}

func (e *Engine) decide(actorID, reportID uint, status models.ReportStatus, reason string) (*models.Archive, error) {
	var entry *models.Archive
	err := e.repos.Transaction(func(repos *repository.Repositories) error {
		report, err := repos.Report.FindByID(reportID)
		if err != nil {
			return err
		}

		actor, err := repos.User.FindByID(actorID)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Denied("unknown user")
		}
		if err != nil {
			return err
		}
		if !actor.IsActive() || !report.HasInspector(actorID) {
			return apperror.Denied("user is not an inspector of this report")
		}
		if status == models.ReportStatusDeclined && reason == "" {
			return apperror.Validation("decline_reason", "must not be empty")
		}
		if report.Status.Decided() {
			return ErrReportDecided
		}

		changed, err := repos.Report.MarkDecided(reportID, status, reason)
		if err != nil {
			return err
		}
		if !changed {
			return ErrReportDecided
		}

		report.Status = status
		report.DeclineReason = reason
		entry = models.NewArchive(report, actorID)
		if err := repos.Archive.Create(entry); err != nil {
			return err
		}
		entry.InspectorDecision = actor
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("[Workflow] Report %d %s by inspector %d", reportID, status, actorID)
	return entry, nil
}

// RemoveReport deletes a report with its assignments and decision history.
// Owners may remove their own reports, admins any report.
func (e *Engine) RemoveReport(actorID, reportID uint) error {
	err := e.repos.Transaction(func(repos *repository.Repositories) error {
		report, err := repos.Report.FindByID(reportID)
		if err != nil {
			return err
		}
		actor, err := activeUser(repos, actorID)
		if err != nil {
			return err
		}
		if report.OwnerID != actorID && !actor.IsAdmin() {
			return apperror.Denied("only the owner can remove a report")
		}
		return repos.Report.Delete(reportID)
	})
	if err != nil {
		return err
	}

	log.Infof("[Workflow] Report %d removed by user %d", reportID, actorID)
	return nil
}

// LastDecision returns the most recent archive entry of the report. The owner,
// the assigned inspectors and admins may read it.
func (e *Engine) LastDecision(actorID, reportID uint) (*models.Archive, error) {
	if err := e.canView(actorID, reportID); err != nil {
		return nil, err
	}
	return e.repos.GetArchiveRepository().FindLastByReport(reportID)
}

// Decisions returns the full decision history of the report, oldest first.
func (e *Engine) Decisions(actorID, reportID uint) ([]models.Archive, error) {
	if err := e.canView(actorID, reportID); err != nil {
		return nil, err
	}
	return e.repos.GetArchiveRepository().FindAllByReport(reportID)
}

// OwnerReports lists the actor's own reports filtered by name.
func (e *Engine) OwnerReports(actorID uint, name string) ([]models.Report, error) {
	return e.repos.GetReportRepository().FindByOwnerWhereNameLike(actorID, name)
}

// InspectionQueue lists reports assigned to the actor with the given status.
func (e *Engine) InspectionQueue(actorID uint, status models.ReportStatus, name string) ([]models.Report, error) {
	if !status.Valid() {
		return nil, apperror.Validation("status", fmt.Sprintf("unknown report status %q", status))
	}
	return e.repos.GetReportRepository().FindAllByInspectorAndStatusWhereNameLike(actorID, status, name)
}

// AvailableInspectors lists the active users that can be assigned to reports.
func (e *Engine) AvailableInspectors() ([]models.User, error) {
	users, err := e.repos.GetUserRepository().FindAllByRole(models.RoleInspector)
	if err != nil {
		return nil, err
	}
	active := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.IsActive() {
			active = append(active, u)
		}
	}
	return active, nil
}

func (e *Engine) canView(actorID, reportID uint) error {
	repos := e.repos.GetRepositories()
	report, err := repos.Report.FindByID(reportID)
	if err != nil {
		return err
	}
	actor, err := activeUser(repos, actorID)
	if err != nil {
		return err
	}
	if report.OwnerID == actorID || report.HasInspector(actorID) {
		return nil
	}
	if !actor.IsAdmin() {
		return apperror.Denied("report belongs to another user")
	}
	return nil
}

// activeUser loads the acting user. Unknown and deleted accounts are denied.
func activeUser(repos *repository.Repositories, id uint) (*models.User, error) {
	u, err := repos.User.FindByID(id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Denied("unknown user")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, apperror.Denied("account has been deleted")
	}
	return u, nil
}

func ownedPendingReport(repos *repository.Repositories, actorID, reportID uint) (*models.Report, error) {
	report, err := repos.Report.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if _, err := activeUser(repos, actorID); err != nil {
		return nil, err
	}
	if report.OwnerID != actorID {
		return nil, apperror.Denied("only the owner can change a report")
	}
	if report.Status.Decided() {
		return nil, ErrReportDecided
	}
	return report, nil
}

// checkInspectors accepts only distinct, active users with the Inspector role.
func checkInspectors(repos *repository.Repositories, ids []uint) error {
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperror.Validation("inspectors", fmt.Sprintf("user %d is listed twice", id))
		}
		seen[id] = true

		u, err := repos.User.FindByID(id)
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.Validation("inspectors", fmt.Sprintf("user %d does not exist", id))
		}
		if err != nil {
			return err
		}
		if u.Role != models.RoleInspector || !u.IsActive() {
			return apperror.Validation("inspectors", fmt.Sprintf("user %d is not an active inspector", id))
		}
	}
	return nil
}

// invalid turns validator output into a ValidationError for the first field.
func invalid(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperror.Validation(strings.ToLower(fe.Field()), "failed "+fe.Tag()+" check")
	}
	return apperror.Validation("", err.Error())
}

package repository

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"

	"github.com/ManuelReschke/ReviewDesk/app/models"
)

// Column lists for the join queries. Each list is scanned positionally by the
// targets method of the matching *Cols type, so the order must stay in sync.
const (
	userColumns = `users.id AS u_id, users.username AS u_username, users.email AS u_email,
		users.password AS u_password, users.role AS u_role, users.status AS u_status,
		users.created_at AS u_created_at, users.updated_at AS u_updated_at`

	reportColumns = `reports.id AS r_id, reports.name AS r_name, reports.description AS r_description,
		reports.status AS r_status, reports.decline_reason AS r_decline_reason, reports.owner_id AS r_owner_id,
		reports.created_at AS r_created_at, reports.updated_at AS r_updated_at`

	assignmentColumns = `report_inspectors.report_id AS ri_report_id, report_inspectors.user_id AS ri_user_id`

	archiveColumns = `archive.id AS a_id, archive.name AS a_name, archive.description AS a_description,
		archive.decline_reason AS a_decline_reason, archive.status AS a_status, archive.report_id AS a_report_id,
		archive.inspector_decision_id AS a_inspector_decision_id, archive.created_at AS a_created_at,
		archive.updated_at AS a_updated_at`
)

// All columns are nullable: any side of an outer join may be missing.

type userCols struct {
	ID        sql.NullInt64
	Username  sql.NullString
	Email     sql.NullString
	Password  sql.NullString
	Role      sql.NullString
	Status    sql.NullString
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

func (c *userCols) targets() []any {
	return []any{&c.ID, &c.Username, &c.Email, &c.Password, &c.Role, &c.Status, &c.CreatedAt, &c.UpdatedAt}
}

// decode returns the user in the row. ok is false when the join matched no
// user; err is set only for values that cannot be decoded.
func (c *userCols) decode() (u models.User, ok bool, err error) {
	if !c.ID.Valid || !c.Username.Valid || !c.Role.Valid || !c.Status.Valid {
		return models.User{}, false, nil
	}
	role, err := models.ParseRole(c.Role.String)
	if err != nil {
		return models.User{}, false, err
	}
	status, err := models.ParseUserStatus(c.Status.String)
	if err != nil {
		return models.User{}, false, err
	}
	return models.User{
		ID:        uint(c.ID.Int64),
		Username:  c.Username.String,
		Email:     c.Email.String,
		Password:  c.Password.String,
		Role:      role,
		Status:    status,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}, true, nil
}

type reportCols struct {
	ID            sql.NullInt64
	Name          sql.NullString
	Description   sql.NullString
	Status        sql.NullString
	DeclineReason sql.NullString
	OwnerID       sql.NullInt64
	CreatedAt     sql.NullTime
	UpdatedAt     sql.NullTime
}

func (c *reportCols) targets() []any {
	return []any{&c.ID, &c.Name, &c.Description, &c.Status, &c.DeclineReason, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt}
}

func (c *reportCols) decode() (models.Report, bool, error) {
	if !c.ID.Valid || !c.Name.Valid || !c.Status.Valid || !c.OwnerID.Valid {
		return models.Report{}, false, nil
	}
	status, err := models.ParseReportStatus(c.Status.String)
	if err != nil {
		return models.Report{}, false, err
	}
	return models.Report{
		ID:            uint(c.ID.Int64),
		Name:          c.Name.String,
		Description:   c.Description.String,
		Status:        status,
		DeclineReason: c.DeclineReason.String,
		OwnerID:       uint(c.OwnerID.Int64),
		CreatedAt:     c.CreatedAt.Time,
		UpdatedAt:     c.UpdatedAt.Time,
		Inspectors:    []models.User{},
	}, true, nil
}

type assignmentCols struct {
	ReportID sql.NullInt64
	UserID   sql.NullInt64
}

func (c *assignmentCols) targets() []any {
	return []any{&c.ReportID, &c.UserID}
}

type archiveCols struct {
	ID                  sql.NullInt64
	Name                sql.NullString
	Description         sql.NullString
	DeclineReason       sql.NullString
	Status              sql.NullString
	ReportID            sql.NullInt64
	InspectorDecisionID sql.NullInt64
	CreatedAt           sql.NullTime
	UpdatedAt           sql.NullTime
}

func (c *archiveCols) targets() []any {
	return []any{&c.ID, &c.Name, &c.Description, &c.DeclineReason, &c.Status, &c.ReportID,
		&c.InspectorDecisionID, &c.CreatedAt, &c.UpdatedAt}
}

func (c *archiveCols) decode() (models.Archive, bool, error) {
	if !c.ID.Valid || !c.Status.Valid || !c.ReportID.Valid || !c.InspectorDecisionID.Valid {
		return models.Archive{}, false, nil
	}
	status, err := models.ParseReportStatus(c.Status.String)
	if err != nil {
		return models.Archive{}, false, err
	}
	return models.Archive{
		ID:                  uint(c.ID.Int64),
		Name:                c.Name.String,
		Description:         c.Description.String,
		DeclineReason:       c.DeclineReason.String,
		Status:              status,
		ReportID:            uint(c.ReportID.Int64),
		InspectorDecisionID: uint(c.InspectorDecisionID.Int64),
		CreatedAt:           c.CreatedAt.Time,
		UpdatedAt:           c.UpdatedAt.Time,
	}, true, nil
}

// joinRow is one row of a users/report_inspectors/reports join.
type joinRow struct {
	Report     reportCols
	Assignment assignmentCols
	User       userCols
}

// reportFirstTargets matches "SELECT reportColumns, assignmentColumns, userColumns".
func (r *joinRow) reportFirstTargets() []any {
	t := r.Report.targets()
	t = append(t, r.Assignment.targets()...)
	return append(t, r.User.targets()...)
}

// userFirstTargets matches "SELECT userColumns, assignmentColumns, reportColumns".
func (r *joinRow) userFirstTargets() []any {
	t := r.User.targets()
	t = append(t, r.Assignment.targets()...)
	return append(t, r.Report.targets()...)
}

// assigned reports whether the assignment columns link exactly the report and
// the user present in this row.
func (r *joinRow) assigned() bool {
	a := r.Assignment
	return a.ReportID.Valid && a.UserID.Valid &&
		r.Report.ID.Valid && r.User.ID.Valid &&
		a.ReportID.Int64 == r.Report.ID.Int64 &&
		a.UserID.Int64 == r.User.ID.Int64
}

// owned reports whether the row's report is owned by the row's user.
func (r *joinRow) owned() bool {
	return r.Report.OwnerID.Valid && r.User.ID.Valid && r.Report.OwnerID.Int64 == r.User.ID.Int64
}

type archiveRow struct {
	Archive   archiveCols
	Inspector userCols
}

func (r *archiveRow) targets() []any {
	return append(r.Archive.targets(), r.Inspector.targets()...)
}

// scanRows runs query and hands every row to each. The row value is fresh per
// call so NULLs never leak between rows.
func scanRows[R any](db *gorm.DB, targets func(*R) []any, each func(*R) error, query string, args ...any) error {
	rows, err := db.Raw(query, args...).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row R
		if err := rows.Scan(targets(&row)...); err != nil {
			return err
		}
		if err := each(&row); err != nil {
			return err
		}
	}
	return rows.Err()
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern matching s as a literal substring.
// Queries pair it with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

package repository

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

func nullInt(v int64) sql.NullInt64 { return sql.NullInt64{Int64: v, Valid: true} }

func nullStr(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func userColsFor(id int64, name string, role models.Role) userCols {
	now := sql.NullTime{Time: time.Now(), Valid: true}
	return userCols{
		ID:        nullInt(id),
		Username:  nullStr(name),
		Email:     nullStr(name + "@example.com"),
		Password:  nullStr("hash"),
		Role:      nullStr(string(role)),
		Status:    nullStr(string(models.UserStatusActive)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func reportColsFor(id, owner int64, name string) reportCols {
	return reportCols{
		ID:      nullInt(id),
		Name:    nullStr(name),
		Status:  nullStr(string(models.ReportStatusPending)),
		OwnerID: nullInt(owner),
	}
}

func assignment(reportID, userID int64) assignmentCols {
	return assignmentCols{ReportID: nullInt(reportID), UserID: nullInt(userID)}
}

func TestUserColsDecodeEmpty(t *testing.T) {
	var c userCols
	u, ok, err := c.decode()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.User{}, u)
}

func TestUserColsDecodeUnknownRole(t *testing.T) {
	c := userColsFor(1, "alice", models.Role("Root"))
	_, ok, err := c.decode()
	assert.False(t, ok)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestReportColsDecodeUnknownStatus(t *testing.T) {
	c := reportColsFor(1, 1, "r")
	c.Status = nullStr("Archived")
	_, _, err := c.decode()
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestReportColsDecodeStartsWithEmptyInspectors(t *testing.T) {
	c := reportColsFor(4, 2, "quarterly")
	c.DeclineReason = sql.NullString{}
	r, ok, err := c.decode()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint(4), r.ID)
	assert.Equal(t, uint(2), r.OwnerID)
	assert.Equal(t, "", r.DeclineReason)
	assert.NotNil(t, r.Inspectors)
	assert.Empty(t, r.Inspectors)
}

func TestReportGraphDeduplicates(t *testing.T) {
	rg := newReportGraph()
	rows := []joinRow{
		{Report: reportColsFor(1, 9, "one"), Assignment: assignment(1, 2), User: userColsFor(2, "a", models.RoleInspector)},
		{Report: reportColsFor(1, 9, "one"), Assignment: assignment(1, 3), User: userColsFor(3, "b", models.RoleInspector)},
		// a repeated row must not attach the same inspector twice
		{Report: reportColsFor(1, 9, "one"), Assignment: assignment(1, 3), User: userColsFor(3, "b", models.RoleInspector)},
		{Report: reportColsFor(5, 9, "five")},
	}
	for i := range rows {
		require.NoError(t, rg.add(&rows[i]))
	}

	reports := rg.reports()
	require.Len(t, reports, 2)
	assert.Equal(t, uint(1), reports[0].ID)
	assert.Equal(t, []uint{2, 3}, reports[0].InspectorIDs())
	assert.Equal(t, uint(5), reports[1].ID)
	assert.Empty(t, reports[1].Inspectors)
}

func TestReportGraphFirstSeenWins(t *testing.T) {
	rg := newReportGraph()
	first := joinRow{Report: reportColsFor(1, 9, "original")}
	second := joinRow{Report: reportColsFor(1, 9, "changed")}
	require.NoError(t, rg.add(&first))
	require.NoError(t, rg.add(&second))

	reports := rg.reports()
	require.Len(t, reports, 1)
	assert.Equal(t, "original", reports[0].Name)
}

func TestReportGraphSkipsRowWithoutParent(t *testing.T) {
	rg := newReportGraph()
	row := joinRow{User: userColsFor(2, "a", models.RoleInspector)}
	require.NoError(t, rg.add(&row))
	assert.Empty(t, rg.reports())
}

func TestReportGraphPropagatesDecodeError(t *testing.T) {
	rg := newReportGraph()
	row := joinRow{
		Report:     reportColsFor(1, 9, "one"),
		Assignment: assignment(1, 2),
		User:       userColsFor(2, "a", models.Role("Root")),
	}
	assert.True(t, errors.Is(rg.add(&row), apperror.ErrValidation))
}

func TestUserGraphSeparatesOwnedAndInspected(t *testing.T) {
	ug := newUserGraph()
	// user 2 owns report 10 and inspects reports 20 and 30; the OR join
	// pairs every assignment with the owned report as well
	rows := []joinRow{
		{User: userColsFor(2, "a", models.RoleInspector), Assignment: assignment(20, 2), Report: reportColsFor(10, 2, "mine")},
		{User: userColsFor(2, "a", models.RoleInspector), Assignment: assignment(20, 2), Report: reportColsFor(20, 7, "theirs")},
		{User: userColsFor(2, "a", models.RoleInspector), Assignment: assignment(30, 2), Report: reportColsFor(10, 2, "mine")},
		{User: userColsFor(2, "a", models.RoleInspector), Assignment: assignment(30, 2), Report: reportColsFor(30, 7, "other")},
		{User: userColsFor(3, "b", models.RoleOwner)},
	}
	for i := range rows {
		require.NoError(t, ug.add(&rows[i]))
	}

	users := ug.users()
	require.Len(t, users, 2)

	a := users[0]
	require.Len(t, a.ReportsOwned, 1)
	assert.Equal(t, uint(10), a.ReportsOwned[0].ID)
	assert.Equal(t, []uint{20, 30}, a.InspectedReportIDs())

	b := users[1]
	assert.Empty(t, b.ReportsOwned)
	assert.Empty(t, b.ReportsInspected)
}

func TestUserGraphOwnerInspectingOwnReport(t *testing.T) {
	ug := newUserGraph()
	row := joinRow{User: userColsFor(2, "a", models.RoleInspector), Assignment: assignment(10, 2), Report: reportColsFor(10, 2, "mine")}
	require.NoError(t, ug.add(&row))

	users := ug.users()
	require.Len(t, users, 1)
	assert.Len(t, users[0].ReportsOwned, 1)
	assert.Len(t, users[0].ReportsInspected, 1)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%%", containsPattern(""))
	assert.Equal(t, "%Q3!_report!%!!%", containsPattern("Q3_report%!"))
}

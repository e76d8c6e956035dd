package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ReviewDesk/internal/pkg/usercontext"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/workflow"
)

type reportRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description"`
	InspectorIDs []uint `json:"inspector_ids"`
}

type updateReportRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

type changeInspectorsRequest struct {
	InspectorIDs []uint `json:"inspector_ids"`
}

// ReportController serves the owner's side of the review workflow.
type ReportController struct {
	engine *workflow.Engine
}

func NewReportController(engine *workflow.Engine) *ReportController {
	return &ReportController{engine: engine}
}

// HandleOwnerHome lists the user's reports, optionally filtered by ?name=
func (rc *ReportController) HandleOwnerHome(c *fiber.Ctx) error {
	reports, err := rc.engine.OwnerReports(usercontext.GetUserID(c), c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// HandleAdd submits a new report
func (rc *ReportController) HandleAdd(c *fiber.Ctx) error {
	var req reportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	report, err := rc.engine.SubmitReport(usercontext.GetUserID(c), req.Name, req.Description, req.InspectorIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleUpdate changes name and description of a pending report
func (rc *ReportController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req updateReportRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	report, err := rc.engine.EditReport(usercontext.GetUserID(c), id, req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// HandleChangeInspectors replaces the inspectors of a pending report
func (rc *ReportController) HandleChangeInspectors(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req changeInspectorsRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	report, err := rc.engine.ReassignInspectors(usercontext.GetUserID(c), id, req.InspectorIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// HandleDelete removes a report with its history
func (rc *ReportController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := rc.engine.RemoveReport(usercontext.GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleArchive returns the latest decision and the full history of a report
func (rc *ReportController) HandleArchive(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	userID := usercontext.GetUserID(c)

	last, err := rc.engine.LastDecision(userID, id)
	if err != nil {
		return respondError(c, err)
	}
	history, err := rc.engine.Decisions(userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"last": last, "history": history})
}

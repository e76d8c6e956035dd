package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/usercontext"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/workflow"
)

type declineRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// InspectorController serves the inspector's side of the review workflow.
type InspectorController struct {
	engine *workflow.Engine
}

func NewInspectorController(engine *workflow.Engine) *InspectorController {
	return &InspectorController{engine: engine}
}

// HandleInspectorHome lists assigned reports. ?status= defaults to Pending.
func (ic *InspectorController) HandleInspectorHome(c *fiber.Ctx) error {
	status := models.ReportStatus(c.Query("status", string(models.ReportStatusPending)))
	reports, err := ic.engine.InspectionQueue(usercontext.GetUserID(c), status, c.Query("name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// HandleAccept accepts a pending report
func (ic *InspectorController) HandleAccept(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	entry, err := ic.engine.Accept(usercontext.GetUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// HandleDecline declines a pending report with a reason
func (ic *InspectorController) HandleDecline(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req declineRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	entry, err := ic.engine.Decline(usercontext.GetUserID(c), id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// HandleInspectors lists the users that can be assigned to a report
func (ic *InspectorController) HandleInspectors(c *fiber.Ctx) error {
	users, err := ic.engine.AvailableInspectors()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"inspectors": users})
}

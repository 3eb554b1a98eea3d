// controllers/reminder.go
package controllers

import (
	"net/http"
	"time"

	"github.com/WideDream/sto-mana/services"
	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	Reminders *services.ReminderService
	Now       func() time.Time
}

func NewReminderController(reminders *services.ReminderService) *ReminderController {
	return &ReminderController{Reminders: reminders, Now: time.Now}
}

// GetReminderLogs returns the latest reminder attempts
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	logs, err := rc.Reminders.ListReminderLogs(c.Request.Context(), queryLimit(c, 50))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch reminder logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

// RunReminders sends overdue reminders now instead of waiting for the schedule
func (rc *ReminderController) RunReminders(c *gin.Context) {
	run, err := rc.Reminders.SendOverdueReminders(c.Request.Context(), rc.Now())
	if err != nil {
		respondServiceError(c, err, "Failed to send reminders")
		return
	}
	c.JSON(http.StatusOK, run)
}

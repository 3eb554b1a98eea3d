// models/reminder_log.go
package models

import (
	"time"
)

// Reminder delivery outcomes.
const (
	ReminderSent    = "sent"
	ReminderFailed  = "failed"
	ReminderSkipped = "skipped"
)

type ReminderLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   uint      `gorm:"index;not null" json:"customerId"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`
	Message      string    `gorm:"type:text" json:"message"`
	Amount       float64   `json:"amount"`
	RecordCount  int       `json:"recordCount"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed, skipped
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // sms
	ExternalID   string    `gorm:"type:varchar(64)" json:"externalId"`
	SentAt       time.Time `json:"sentAt"`
}

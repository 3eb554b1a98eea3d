// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/WideDream/sto-mana/models"
	"github.com/WideDream/sto-mana/utils"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const reminderChannel = "sms"

// MessageSender delivers a text message and returns the provider's message id.
type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ReminderRun summarizes one pass over the overdue records.
type ReminderRun struct {
	Customers int `json:"customers"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// ReminderService texts customers whose records are overdue.
type ReminderService struct {
	db       *gorm.DB
	reports  *ReportService
	sender   MessageSender
	template string
	log      *zap.Logger
	cron     *cron.Cron
}

// NewReminderService builds the service. sender may be nil, in which case
// every reminder is logged as skipped.
func NewReminderService(db *gorm.DB, reports *ReportService, sender MessageSender, template string, log *zap.Logger) *ReminderService {
	return &ReminderService{
		db:       db,
		reports:  reports,
		sender:   sender,
		template: template,
		log:      log,
	}
}

// StartScheduler runs SendOverdueReminders on the given cron schedule.
func (s *ReminderService) StartScheduler(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		run, err := s.SendOverdueReminders(context.Background(), time.Now())
		if err != nil {
			s.log.Error("overdue reminders failed", zap.Error(err))
			return
		}
		s.log.Info("overdue reminders processed",
			zap.Int("customers", run.Customers),
			zap.Int("sent", run.Sent),
			zap.Int("failed", run.Failed),
			zap.Int("skipped", run.Skipped))
	})
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	c.Start()
	s.cron = c
	s.log.Info("reminder scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

type overdueGroup struct {
	customerID uint
	name       string
	amount     float64
	count      int
}

// SendOverdueReminders sends one message per customer with overdue records
// and logs every attempt.
func (s *ReminderService) SendOverdueReminders(ctx context.Context, today time.Time) (ReminderRun, error) {
	var run ReminderRun

	rows, err := s.reports.OverdueRecords(ctx, today)
	if err != nil {
		return run, fmt.Errorf("load overdue records: %w", err)
	}

	var order []uint
	groups := make(map[uint]*overdueGroup)
	for _, r := range rows {
		if r.CustomerID == nil {
			continue
		}
		g, ok := groups[*r.CustomerID]
		if !ok {
			g = &overdueGroup{customerID: *r.CustomerID, name: r.FullName}
			groups[*r.CustomerID] = g
			order = append(order, *r.CustomerID)
		}
		g.amount += r.Loan
		g.count++
	}
	if len(order) == 0 {
		return run, nil
	}

	var customers []models.Customer
	if err := s.db.WithContext(ctx).Where("id IN ?", order).Find(&customers).Error; err != nil {
		return run, fmt.Errorf("load customers: %w", err)
	}
	phones := make(map[uint]string, len(customers))
	for _, c := range customers {
		phones[c.ID] = c.Phone
	}

	for _, id := range order {
		g := groups[id]
		run.Customers++

		phone := utils.NormalizePhone(phones[id])
		entry := models.ReminderLog{
			CustomerID:  id,
			Phone:       phone,
			Message:     s.render(g),
			Amount:      g.amount,
			RecordCount: g.count,
			Channel:     reminderChannel,
			SentAt:      time.Now(),
		}

		switch {
		case !utils.ValidatePhone(phone):
			entry.Status = models.ReminderSkipped
			entry.ErrorMessage = "no valid phone number"
			run.Skipped++
		case s.sender == nil:
			entry.Status = models.ReminderSkipped
			entry.ErrorMessage = "no message sender configured"
			run.Skipped++
		default:
			sid, err := s.sender.Send(ctx, phone, entry.Message)
			if err != nil {
				s.log.Warn("send reminder failed", zap.Uint("customer_id", id), zap.Error(err))
				entry.Status = models.ReminderFailed
				entry.ErrorMessage = err.Error()
				run.Failed++
			} else {
				entry.Status = models.ReminderSent
				entry.ExternalID = sid
				run.Sent++
			}
		}

		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			s.log.Error("log reminder failed", zap.Uint("customer_id", id), zap.Error(err))
		}
	}
	return run, nil
}

// ListReminderLogs returns the most recent reminder attempts first.
func (s *ReminderService) ListReminderLogs(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	if limit <= 0 {
		limit = 50
	}
	logs := []models.ReminderLog{}
	err := s.db.WithContext(ctx).Order("sent_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (s *ReminderService) render(g *overdueGroup) string {
	return strings.NewReplacer(
		"{name}", g.name,
		"{amount}", utils.FormatRWF(g.amount),
		"{count}", strconv.Itoa(g.count),
	).Replace(s.template)
}

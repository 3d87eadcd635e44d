package reminder

import (
	"fmt"
	"time"

	"healthcare_booking/internal/domain/appointment/repository"
	"healthcare_booking/internal/pkg/mailer"
	"healthcare_booking/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// 提前通知窗口：扫描未来24小时内开始的已确认预约
const reminderWindow = 24 * time.Hour

// Scheduler 预约提醒调度器
// 周期扫描即将开始且未提醒的已确认预约，发送提醒邮件并打标，
// 打标在发送之后，进程崩溃最坏情况是重复提醒而不是漏提醒
type Scheduler struct {
	cron   *cron.Cron
	repo   repository.AppointmentRepository
	mailer *mailer.Mailer
}

func NewScheduler(repo repository.AppointmentRepository, m *mailer.Mailer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		repo:   repo,
		mailer: m,
	}
}

// Start 注册扫描任务并启动调度
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 10m", s.scan); err != nil {
		return err
	}
	s.cron.Start()
	logger.Log.Info("Appointment reminder scheduler started")
	return nil
}

// Stop 停止调度，等待进行中的任务结束
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) scan() {
	targets, err := s.repo.GetDueForReminder(time.Now().Add(reminderWindow))
	if err != nil {
		logger.Log.Error("Reminder scan failed", zap.Error(err))
		return
	}

	for _, target := range targets {
		body := fmt.Sprintf(
			"<p>Dear %s,</p><p>This is a reminder for your appointment <b>%s</b> starting at <b>%s</b>.</p>",
			target.UserName,
			target.AppointmentID,
			target.StartTime.Format("2006-01-02 15:04"),
		)
		if err := s.mailer.Send(target.UserEmail, "Appointment reminder", body); err != nil {
			logger.Log.Warn("Failed to send reminder email",
				zap.String("appointment_id", target.AppointmentID),
				zap.Error(err))
			continue
		}
		if err := s.repo.MarkReminderSent(target.AppointmentID); err != nil {
			logger.Log.Error("Failed to mark reminder as sent",
				zap.String("appointment_id", target.AppointmentID),
				zap.Error(err))
		}
	}

	if len(targets) > 0 {
		logger.Log.Info("Reminder scan completed", zap.Int("processed", len(targets)))
	}
}

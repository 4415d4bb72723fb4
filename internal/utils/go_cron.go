package utils

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/cliniccore/clinic-appointment-service/internal/service"
)

// StartCronScheduler schedules the daily reminder job for unpaid
// appointments. The returned cron keeps running in the background.
func StartCronScheduler(appointments service.AppointmentService) *cron.Cron {
	scheduler := cron.New()
	_, err := scheduler.AddFunc("0 9 * * *", appointments.SendDailyReminders)
	if err != nil {
		log.Fatalf("Failed to schedule reminder job: %v", err)
	}
	scheduler.Start()
	return scheduler
}

package domain

import (
	"time"

	"gorm.io/gorm"
)

// Status is the appointment lifecycle state. Cancelled and Completed
// are terminal.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
)

// CanTransitionTo reports whether the state machine allows moving from
// s to next. Cancellation is allowed from Paid as well as Pending; the
// payment record is left untouched (no refund handling here).
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusPaid || next == StatusCancelled
	case StatusPaid:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// PaymentMethod is recorded for audit only; no settlement system is
// ever called.
type PaymentMethod string

const (
	MethodAlipay    PaymentMethod = "alipay"
	MethodWechatPay PaymentMethod = "wechat_pay"
	MethodBankCard  PaymentMethod = "bank_card"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case MethodAlipay, MethodWechatPay, MethodBankCard:
		return PaymentMethod(s), true
	}
	return "", false
}

type Patient struct {
	gorm.Model
	PatientId string `gorm:"uniqueIndex"`
	Name      string
	Phone     string
	Email     string
}

type Doctor struct {
	gorm.Model
	DoctorId   int `gorm:"uniqueIndex"`
	Name       string
	Department string
	Schedule   string
	Fee        float64
}

type Appointment struct {
	gorm.Model
	AppointmentId int `gorm:"uniqueIndex"`
	PatientId     string
	DoctorId      int
	ScheduledTime time.Time
	Fee           float64
	Status        Status
	PaymentMethod PaymentMethod
	PaymentRef    string
}

// ConfirmationEvent is the payload handed to the notification
// dispatcher after a successful payment, and reused for reminders.
type ConfirmationEvent struct {
	AppointmentId   int
	PatientName     string
	Email           string
	Phone           string
	DoctorName      string
	Department      string
	AppointmentTime time.Time
	Fee             float64
}

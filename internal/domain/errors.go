package domain

import "errors"

// Operation errors. Every failing operation aborts with no mutation;
// checks run in the order existence, ownership, state, amount.
var (
	ErrUnknownPatient         = errors.New("patient not found")
	ErrUnknownDoctor          = errors.New("doctor not found")
	ErrUnknownAppointment     = errors.New("appointment not found")
	ErrOwnershipViolation     = errors.New("appointment belongs to another patient")
	ErrInvalidStateTransition = errors.New("appointment status does not allow this operation")
	ErrAmountMismatch         = errors.New("payment amount does not match the appointment fee")
)

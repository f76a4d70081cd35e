package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Valid reports whether the status is one of the four lifecycle statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusScheduled,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

type AppointmentMode string

const (
	AppointmentModeOnline  AppointmentMode = "ONLINE"
	AppointmentModeOffline AppointmentMode = "OFFLINE"
)

// Appointment mirrors the remote service's appointment record. DoctorID is
// nil until staff assigns a doctor; status and assignment are independent
// fields, assigning never flips the status by itself.
type Appointment struct {
	ID                  int64             `json:"id"`
	PatientID           int64             `json:"patientId"`
	PatientName         string            `json:"patientName"`
	DoctorID            *int64            `json:"doctorId,omitempty"`
	DoctorName          *string           `json:"doctorName,omitempty"`
	Mode                AppointmentMode   `json:"mode,omitempty"`
	AppointmentDateTime time.Time         `json:"appointmentDateTime"`
	ProblemDescription  string            `json:"problemDescription"`
	Status              AppointmentStatus `json:"status"`
	Reason              string            `json:"reason,omitempty"`
}

// BookingRequest is the public booking form. Validation happens in the
// lifecycle package so every violation comes back as a per-field message;
// the date and time fields are then combined into a single instant.
type BookingRequest struct {
	PatientName        string `json:"patientName"`
	PatientEmail       string `json:"patientEmail"`
	PatientNumber      string `json:"patientNumber"`
	Mode               string `json:"mode"`
	ProblemDescription string `json:"problemDescription"`
	AppointmentDate    string `json:"appointmentDate"`
	AppointmentTime    string `json:"appointmentTime"`
}

// BookAppointmentRequest is the wire form sent to the remote service.
type BookAppointmentRequest struct {
	PatientName         string `json:"patientName"`
	PatientEmail        string `json:"patientEmail"`
	PatientNumber       string `json:"patientNumber"`
	Mode                string `json:"mode"`
	ProblemDescription  string `json:"problemDescription"`
	AppointmentDateTime string `json:"appointmentDateTime"`
}

type AssignDoctorRequest struct {
	AppointmentID int64 `json:"appointmentId" binding:"required"`
	DoctorID      int64 `json:"doctorId" binding:"required"`
}

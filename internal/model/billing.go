package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// Bill mirrors the remote billing record. The total is computed remotely as
// consultation fee + lab fee + medicine fee; at most one bill exists per
// appointment.
type Bill struct {
	BillingID       int64         `json:"billingId"`
	AppointmentID   int64         `json:"appointmentId"`
	PatientID       int64         `json:"patientId"`
	DoctorID        int64         `json:"doctorId"`
	BillingDate     time.Time     `json:"billingDate"`
	ConsultationFee float64       `json:"consultationFee"`
	LabFee          float64       `json:"labFee"`
	MedicineFee     float64       `json:"medicineFee"`
	TotalAmount     float64       `json:"totalAmount"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
}

type GenerateBillRequest struct {
	AppointmentID int64   `json:"appointmentId" binding:"required"`
	PatientID     int64   `json:"patientId" binding:"required"`
	DoctorID      int64   `json:"doctorId" binding:"required"`
	LabFee        float64 `json:"labFee" binding:"min=0"`
	MedicineFee   float64 `json:"medicineFee" binding:"min=0"`
}

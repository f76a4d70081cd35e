package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mediflow/hms-gateway/internal/model"
)

// BookAppointment creates a PENDING appointment from the public booking form.
// No credential is required.
func (c *Client) BookAppointment(ctx context.Context, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	var apt model.Appointment
	if err := c.do(ctx, "book_appointment", http.MethodPost, "/api/appointments/book", nil, req, &apt, ""); err != nil {
		return nil, err
	}
	return &apt, nil
}

// ListAppointments fetches every appointment visible to the caller.
func (c *Client) ListAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	var apts []model.Appointment
	if err := c.do(ctx, "list_appointments", http.MethodGet, "/api/appointments", nil, nil, &apts, token); err != nil {
		return nil, err
	}
	return apts, nil
}

// ListAppointmentsByStatus fetches appointments filtered to one status.
func (c *Client) ListAppointmentsByStatus(ctx context.Context, token string, status model.AppointmentStatus) ([]model.Appointment, error) {
	var apts []model.Appointment
	path := fmt.Sprintf("/api/appointments/%s", status)
	if err := c.do(ctx, "list_appointments_by_status", http.MethodGet, path, nil, nil, &apts, token); err != nil {
		return nil, err
	}
	return apts, nil
}

// AssignDoctor attaches a doctor to an appointment. This does not change the
// appointment status; marking it SCHEDULED is a separate call.
func (c *Client) AssignDoctor(ctx context.Context, token string, req *model.AssignDoctorRequest) (*model.Appointment, error) {
	var apt model.Appointment
	if err := c.do(ctx, "assign_doctor", http.MethodPost, "/api/staff/assign/doctor", nil, req, &apt, token); err != nil {
		return nil, err
	}
	return &apt, nil
}

// UpdateAppointmentStatus issues a staff status transition.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, token string, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	var apt model.Appointment
	path := fmt.Sprintf("/api/staff/appointments/%d/status", id)
	query := url.Values{"status": {string(status)}}
	if err := c.do(ctx, "update_appointment_status", http.MethodPut, path, query, nil, &apt, token); err != nil {
		return nil, err
	}
	return &apt, nil
}

// CompleteAppointment marks one of the calling doctor's appointments
// COMPLETED. The remote service rejects appointments belonging to another
// doctor.
func (c *Client) CompleteAppointment(ctx context.Context, token string, id int64) (*model.Appointment, error) {
	var apt model.Appointment
	path := fmt.Sprintf("/api/doctor/appointments/%d/complete", id)
	if err := c.do(ctx, "complete_appointment", http.MethodPut, path, nil, nil, &apt, token); err != nil {
		return nil, err
	}
	return &apt, nil
}

// ListDoctorAppointments fetches the worklist scoped to the calling doctor.
func (c *Client) ListDoctorAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	var apts []model.Appointment
	if err := c.do(ctx, "list_doctor_appointments", http.MethodGet, "/api/doctor/appointments", nil, nil, &apts, token); err != nil {
		return nil, err
	}
	return apts, nil
}

// ListDoctorScheduledAppointments fetches only the calling doctor's
// SCHEDULED appointments.
func (c *Client) ListDoctorScheduledAppointments(ctx context.Context, token string) ([]model.Appointment, error) {
	var apts []model.Appointment
	if err := c.do(ctx, "list_doctor_scheduled", http.MethodGet, "/api/doctor/appointments/scheduled", nil, nil, &apts, token); err != nil {
		return nil, err
	}
	return apts, nil
}

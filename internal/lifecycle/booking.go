package lifecycle

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mediflow/hms-gateway/internal/model"
)

// Booking slots run on a fixed half-hour grid.
const (
	slotOpenHour  = 9
	slotCloseHour = 17
	slotStep      = 30 * time.Minute
	dateLayout    = "2006-01-02"
	timeLayout    = "15:04"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// FieldErrors maps form field names to user-visible validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// TimeSlots returns the bookable half-hour slots, 09:00 through 17:00
// inclusive.
func TimeSlots() []string {
	var slots []string
	day := time.Date(2000, 1, 1, slotOpenHour, 0, 0, 0, time.UTC)
	last := time.Date(2000, 1, 1, slotCloseHour, 0, 0, 0, time.UTC)
	for t := day; !t.After(last); t = t.Add(slotStep) {
		slots = append(slots, t.Format(timeLayout))
	}
	return slots
}

// BookingValidator gates booking requests before the state machine is
// engaged. Field constraints use go-playground/validator; the date and slot
// rules need the clock, so they run as explicit checks.
type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	v := validator.New()
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		for _, slot := range TimeSlots() {
			if slot == fl.Field().String() {
				return true
			}
		}
		return false
	})
	return &BookingValidator{validate: v}
}

type bookingRules struct {
	PatientName        string `validate:"required,min=3"`
	PatientEmail       string `validate:"required,email"`
	PatientNumber      string `validate:"required,phone10"`
	Mode               string `validate:"required,oneof=ONLINE OFFLINE"`
	ProblemDescription string `validate:"required,min=10"`
	AppointmentTime    string `validate:"required,timeslot"`
}

var bookingMessages = map[string]string{
	"PatientName":        "name must be at least 3 characters",
	"PatientEmail":       "invalid email address",
	"PatientNumber":      "phone number must be exactly 10 digits",
	"Mode":               "mode must be ONLINE or OFFLINE",
	"ProblemDescription": "please provide more details about your problem",
	"AppointmentTime":    "time slot must be on the half-hour grid between 09:00 and 17:00",
}

// Validate checks every booking constraint and, when all pass, combines the
// date and time fields into the appointment instant.
func (bv *BookingValidator) Validate(req *model.BookingRequest, now time.Time) (time.Time, error) {
	fieldErrs := FieldErrors{}

	rules := bookingRules{
		PatientName:        req.PatientName,
		PatientEmail:       req.PatientEmail,
		PatientNumber:      req.PatientNumber,
		Mode:               req.Mode,
		ProblemDescription: req.ProblemDescription,
		AppointmentTime:    req.AppointmentTime,
	}
	if err := bv.validate.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return time.Time{}, fmt.Errorf("booking validation: %w", err)
		}
		for _, fe := range verrs {
			fieldErrs[fe.Field()] = bookingMessages[fe.Field()]
		}
	}

	date, err := time.ParseInLocation(dateLayout, req.AppointmentDate, now.Location())
	if err != nil {
		fieldErrs["AppointmentDate"] = "invalid date"
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			fieldErrs["AppointmentDate"] = "appointments are only available on weekdays"
		} else if date.Before(today) {
			fieldErrs["AppointmentDate"] = "date cannot be in the past"
		}
	}

	if len(fieldErrs) > 0 {
		return time.Time{}, fieldErrs
	}

	slot, _ := time.Parse(timeLayout, req.AppointmentTime)
	return time.Date(date.Year(), date.Month(), date.Day(),
		slot.Hour(), slot.Minute(), 0, 0, now.Location()), nil
}

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mediflow/hms-gateway/internal/model"
)

// ListDoctors fetches the doctor directory, used by staff to populate
// assignment pickers.
func (c *Client) ListDoctors(ctx context.Context, token string) ([]model.Doctor, error) {
	var doctors []model.Doctor
	if err := c.do(ctx, "list_doctors", http.MethodGet, "/api/doctor", nil, nil, &doctors, token); err != nil {
		return nil, err
	}
	return doctors, nil
}

// RegisterDoctor creates a doctor account and directory entry.
func (c *Client) RegisterDoctor(ctx context.Context, token string, req *model.RegisterDoctorRequest) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := c.do(ctx, "register_doctor", http.MethodPost, "/api/register/doctor", nil, req, &doctor, token); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// ListStaff fetches the staff directory.
func (c *Client) ListStaff(ctx context.Context, token string) ([]model.Staff, error) {
	var staff []model.Staff
	if err := c.do(ctx, "list_staff", http.MethodGet, "/api/staff", nil, nil, &staff, token); err != nil {
		return nil, err
	}
	return staff, nil
}

// RegisterStaff creates a staff account and directory entry.
func (c *Client) RegisterStaff(ctx context.Context, token string, req *model.RegisterStaffRequest) (*model.Staff, error) {
	var member model.Staff
	if err := c.do(ctx, "register_staff", http.MethodPost, "/api/register/staff", nil, req, &member, token); err != nil {
		return nil, err
	}
	return &member, nil
}

// ListSpecialities fetches all specialities.
func (c *Client) ListSpecialities(ctx context.Context, token string) ([]model.Speciality, error) {
	var specialities []model.Speciality
	if err := c.do(ctx, "list_specialities", http.MethodGet, "/speciality", nil, nil, &specialities, token); err != nil {
		return nil, err
	}
	return specialities, nil
}

// GetSpeciality fetches one speciality.
func (c *Client) GetSpeciality(ctx context.Context, token string, id int64) (*model.Speciality, error) {
	var speciality model.Speciality
	path := fmt.Sprintf("/speciality/%d", id)
	if err := c.do(ctx, "get_speciality", http.MethodGet, path, nil, nil, &speciality, token); err != nil {
		return nil, err
	}
	return &speciality, nil
}

// AddSpeciality creates a speciality by name.
func (c *Client) AddSpeciality(ctx context.Context, token, name string) (*model.Speciality, error) {
	var speciality model.Speciality
	path := fmt.Sprintf("/speciality/add/%s", url.PathEscape(name))
	if err := c.do(ctx, "add_speciality", http.MethodPost, path, nil, nil, &speciality, token); err != nil {
		return nil, err
	}
	return &speciality, nil
}

// UpdateSpeciality renames a speciality.
func (c *Client) UpdateSpeciality(ctx context.Context, token string, id int64, name string) (*model.Speciality, error) {
	var speciality model.Speciality
	path := fmt.Sprintf("/speciality/%d/update", id)
	query := url.Values{"name": {name}}
	if err := c.do(ctx, "update_speciality", http.MethodPut, path, query, nil, &speciality, token); err != nil {
		return nil, err
	}
	return &speciality, nil
}

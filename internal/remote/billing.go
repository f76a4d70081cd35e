package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mediflow/hms-gateway/internal/model"
)

// GenerateBill creates the bill for a completed appointment. The remote
// service enforces at most one bill per appointment; a second attempt comes
// back as a conflict.
func (c *Client) GenerateBill(ctx context.Context, token string, req *model.GenerateBillRequest) (*model.Bill, error) {
	query := url.Values{
		"appointmentId": {strconv.FormatInt(req.AppointmentID, 10)},
		"patientId":     {strconv.FormatInt(req.PatientID, 10)},
		"doctorId":      {strconv.FormatInt(req.DoctorID, 10)},
		"labFee":        {strconv.FormatFloat(req.LabFee, 'f', 2, 64)},
		"medicineFee":   {strconv.FormatFloat(req.MedicineFee, 'f', 2, 64)},
	}
	var bill model.Bill
	if err := c.do(ctx, "generate_bill", http.MethodPost, "/billing/generate", query, nil, &bill, token); err != nil {
		return nil, err
	}
	return &bill, nil
}

// GetBill fetches one billing record.
func (c *Client) GetBill(ctx context.Context, token string, billingID int64) (*model.Bill, error) {
	var bill model.Bill
	path := fmt.Sprintf("/billing/%d", billingID)
	if err := c.do(ctx, "get_bill", http.MethodGet, path, nil, nil, &bill, token); err != nil {
		return nil, err
	}
	return &bill, nil
}

// MarkBillPaid flips a bill's payment status to PAID.
func (c *Client) MarkBillPaid(ctx context.Context, token string, billingID int64) (*model.Bill, error) {
	var bill model.Bill
	path := fmt.Sprintf("/billing/%d/pay", billingID)
	if err := c.do(ctx, "mark_bill_paid", http.MethodPut, path, nil, nil, &bill, token); err != nil {
		return nil, err
	}
	return &bill, nil
}

// DownloadInvoice streams the invoice PDF for a bill.
func (c *Client) DownloadInvoice(ctx context.Context, token string, billingID int64) ([]byte, string, error) {
	path := fmt.Sprintf("/billing/%d/download-invoice", billingID)
	return c.download(ctx, "download_invoice", path, token)
}

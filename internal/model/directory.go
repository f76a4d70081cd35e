package model

// Doctor is a directory entry read by staff to populate assignment pickers
// and by doctors for their own profile.
type Doctor struct {
	DoctorID        int64   `json:"doctorId"`
	FullName        string  `json:"fullName"`
	Specialization  string  `json:"specialization"`
	PhoneNumber     string  `json:"phoneNumber"`
	Email           string  `json:"email"`
	ConsultationFee float64 `json:"consultationFee"`
}

type Staff struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Department  string `json:"department"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

type Speciality struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type RegisterDoctorRequest struct {
	Username        string  `json:"username" binding:"required,min=3"`
	Password        string  `json:"password" binding:"required,min=8"`
	Email           string  `json:"email" binding:"required,email"`
	FullName        string  `json:"fullName" binding:"required,min=3"`
	Specialization  string  `json:"specialization" binding:"required"`
	Phone           string  `json:"phone" binding:"required"`
	ConsultationFee float64 `json:"consultationFee" binding:"min=0"`
}

type RegisterStaffRequest struct {
	Username   string `json:"username" binding:"required,min=3"`
	Password   string `json:"password" binding:"required,min=8"`
	Email      string `json:"email" binding:"required,email"`
	FullName   string `json:"fullName" binding:"required,min=3"`
	Department string `json:"department" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

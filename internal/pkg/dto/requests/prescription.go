package requests

type ListPrescriptions struct {
	Status     string `validate:"omitempty,oneof=pending verified rejected"`
	Pagination Pagination
}

type ReviewPrescription struct {
	PrescriptionID string `json:"-"`
	ReviewerID     string `json:"-"`
	Status         string `json:"status" validate:"required,review_status"`
	Reason         string `json:"reason" validate:"required_if=Status rejected,max=500"`
}

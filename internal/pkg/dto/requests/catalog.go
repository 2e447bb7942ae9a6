package requests

type CreateCatalogItem struct {
	Name                 string `json:"name" validate:"required,max=200"`
	Kind                 string `json:"kind" validate:"required,service_kind"`
	Category             string `json:"category" validate:"required,max=100"`
	PrescriptionRequired bool   `json:"prescriptionRequired"`
	Strength             string `json:"strength" validate:"omitempty,max=50"`
	DosageForm           string `json:"dosageForm" validate:"omitempty,max=50"`
	Description          string `json:"description" validate:"omitempty,max=2000"`
}

type SearchCatalog struct {
	Kind  string `validate:"omitempty,service_kind"`
	Query string `validate:"omitempty,max=100"`
}

type FindOfferings struct {
	ItemID    string   `validate:"required,uuid"`
	Latitude  *float64 `validate:"omitempty,latitude"`
	Longitude *float64 `validate:"omitempty,longitude"`
	RadiusKm  float64  `validate:"omitempty,gt=0,lte=500"`
}

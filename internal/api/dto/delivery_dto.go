package dto

// DeliveryPersonRequest payload for POST /api/delivery-persons.
type DeliveryPersonRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	IsAvailable *bool  `json:"is_available"`
}

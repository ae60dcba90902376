package models

// ReserveRequest is the typed booking payload accepted at the HTTP boundary.
// Quantity carries no binding rule so that a zero or negative value reaches the
// reservation engine and is reported as an invalid quantity.
type ReserveRequest struct {
	ExperienceID  string `json:"experienceId" binding:"required"`
	Date          string `json:"date" binding:"required"`
	SlotLabel     string `json:"slotLabel" binding:"required"`
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerPhone string `json:"customerPhone" binding:"required"`
	Quantity      int    `json:"quantity"`
}

func (r ReserveRequest) Customer() CustomerDetails {
	return CustomerDetails{
		Name:  r.CustomerName,
		Email: r.CustomerEmail,
		Phone: r.CustomerPhone,
	}
}

// PromoValidationRequest mirrors the checkout page's promo preview call.
type PromoValidationRequest struct {
	PromoCode   string  `json:"promoCode"`
	TotalAmount float64 `json:"totalAmount"`
}

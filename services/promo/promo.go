package promo

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrCodeRequired  = errors.New("Promo code is required")
	ErrInvalidAmount = errors.New("Valid total amount is required")
	ErrInvalidCode   = errors.New("Invalid promo code")
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Code is a promotional discount definition.
type Code struct {
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
}

// Quote is the priced outcome of applying a code to an amount.
type Quote struct {
	Promo          Code    `json:"promo"`
	OriginalAmount float64 `json:"originalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"`
}

// PromoService previews discounts. It never touches inventory or bookings.
type PromoService interface {
	Validate(code string, totalAmount float64) (*Quote, error)
}

type DefaultPromoService struct {
	codes map[string]Code
}

// DefaultCodes are the codes offered at checkout.
var DefaultCodes = []Code{
	{Code: "SAVE10", Description: "10% discount on total amount", Type: DiscountPercentage, Value: 10},
	{Code: "FLAT100", Description: "₹100 flat discount", Type: DiscountFixed, Value: 100},
}

func NewPromoService(codes ...Code) *DefaultPromoService {
	if len(codes) == 0 {
		codes = DefaultCodes
	}
	m := make(map[string]Code, len(codes))
	for _, c := range codes {
		c.Code = strings.ToUpper(c.Code)
		m[c.Code] = c
	}
	return &DefaultPromoService{codes: m}
}

func (s *DefaultPromoService) Validate(code string, totalAmount float64) (*Quote, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if totalAmount <= 0 || math.IsNaN(totalAmount) || math.IsInf(totalAmount, 0) {
		return nil, ErrInvalidAmount
	}

	promo, ok := s.codes[strings.ToUpper(code)]
	if !ok {
		return nil, ErrInvalidCode
	}

	var discount float64
	switch promo.Type {
	case DiscountPercentage:
		discount = totalAmount * promo.Value / 100
	case DiscountFixed:
		discount = math.Min(promo.Value, totalAmount)
	}

	return &Quote{
		Promo:          promo,
		OriginalAmount: totalAmount,
		DiscountAmount: discount,
		FinalAmount:    math.Max(totalAmount-discount, 0),
	}, nil
}

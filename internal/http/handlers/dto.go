package handlers

import (
	"time"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/service/delivery"
	"fuel-delivery-service/internal/service/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userDTO   `json:"user"`
}

type createDeliveryRequest struct {
	DriverID     string    `json:"driverId"`
	ClientID     string    `json:"clientId,omitempty"`
	FuelType     string    `json:"fuelType"`
	Amount       float64   `json:"amount"`
	Address      string    `json:"address"`
	DeliveryDate time.Time `json:"deliveryDate"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type deliveryDTO struct {
	ID              string     `json:"id"`
	DriverID        string     `json:"driverId"`
	ClientID        string     `json:"clientId"`
	FuelType        string     `json:"fuelType"`
	Amount          float64    `json:"amount"`
	Price           float64    `json:"price"`
	Address         string     `json:"address"`
	Status          string     `json:"status"`
	StatusUpdatedBy *string    `json:"statusUpdatedBy"`
	StatusChangedAt *time.Time `json:"statusChangedAt"`
	DeliveryDate    time.Time  `json:"deliveryDate"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type updateRateRequest struct {
	RatePerLiter float64 `json:"ratePerLiter"`
}

type fuelPriceDTO struct {
	FuelType     string    `json:"fuelType"`
	RatePerLiter float64   `json:"ratePerLiter"`
	UpdatedBy    *string   `json:"updatedBy"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type quoteDTO struct {
	FuelType string  `json:"fuelType"`
	Amount   float64 `json:"amount"`
	Price    float64 `json:"price"`
}

func userToResponse(u domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func usersToResponse(list []domain.User) []userDTO {
	out := make([]userDTO, 0, len(list))
	for _, u := range list {
		out = append(out, userToResponse(u))
	}
	return out
}

func (r registerRequest) toInput() user.RegisterInput {
	return user.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
		Name:     r.Name,
		Role:     domain.Role(r.Role),
	}
}

func (r createDeliveryRequest) toInput() delivery.CreateInput {
	return delivery.CreateInput{
		DriverID:     r.DriverID,
		ClientID:     r.ClientID,
		FuelType:     domain.FuelType(r.FuelType),
		Amount:       r.Amount,
		Address:      r.Address,
		DeliveryDate: r.DeliveryDate,
	}
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	return deliveryDTO{
		ID:              d.ID,
		DriverID:        d.DriverID,
		ClientID:        d.ClientID,
		FuelType:        string(d.FuelType),
		Amount:          d.Amount,
		Price:           d.Price,
		Address:         d.Address,
		Status:          string(d.Status),
		StatusUpdatedBy: d.StatusUpdatedBy,
		StatusChangedAt: d.StatusChangedAt,
		DeliveryDate:    d.DeliveryDate,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func priceToResponse(p domain.FuelPrice) fuelPriceDTO {
	return fuelPriceDTO{
		FuelType:     string(p.FuelType),
		RatePerLiter: p.RatePerLiter,
		UpdatedBy:    p.UpdatedBy,
		UpdatedAt:    p.UpdatedAt,
	}
}

func pricesToResponse(list []domain.FuelPrice) []fuelPriceDTO {
	out := make([]fuelPriceDTO, 0, len(list))
	for _, p := range list {
		out = append(out, priceToResponse(p))
	}
	return out
}

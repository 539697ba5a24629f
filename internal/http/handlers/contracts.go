package handlers

import (
	"context"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/service/delivery"
	"fuel-delivery-service/internal/service/pricing"
	"fuel-delivery-service/internal/service/user"
)

type userUsecase interface {
	Register(ctx context.Context, in user.RegisterInput) (domain.User, error)
	CreateUser(ctx context.Context, actor domain.Actor, in user.RegisterInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (user.LoginResult, error)
	Get(ctx context.Context, id string) (domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// NewUserUsecase wires a user Service into a userUsecase.
func NewUserUsecase(svc *user.Service) userUsecase {
	return svc
}

type deliveryUsecase interface {
	Create(ctx context.Context, actor domain.Actor, in delivery.CreateInput) (domain.Delivery, error)
	Get(ctx context.Context, actor domain.Actor, id string) (domain.Delivery, error)
	List(ctx context.Context, actor domain.Actor, f domain.DeliveryFilter) ([]domain.Delivery, error)
	Transition(ctx context.Context, id string, to domain.DeliveryStatus, actor domain.Actor) (domain.Delivery, error)
}

// NewDeliveryUsecase wires a delivery Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type pricingUsecase interface {
	List(ctx context.Context) ([]domain.FuelPrice, error)
	Quote(ctx context.Context, fuelType domain.FuelType, amount float64) (float64, error)
	UpdateRate(ctx context.Context, actor domain.Actor, fuelType domain.FuelType, rate float64) (domain.FuelPrice, error)
}

// NewPricingUsecase wires a pricing Service into a pricingUsecase.
func NewPricingUsecase(svc *pricing.Service) pricingUsecase {
	return svc
}

package domain_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
)

var created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func validParams() domain.NewDeliveryParams {
	return domain.NewDeliveryParams{
		DriverID:     "driver1",
		ClientID:     "client1",
		FuelType:     domain.FuelType95,
		Amount:       50,
		Price:        7500,
		Address:      "123 Main St",
		DeliveryDate: created.Add(48 * time.Hour),
	}
}

func TestNewDelivery_StartsPending(t *testing.T) {
	t.Parallel()

	d, err := domain.NewDelivery(validParams(), created)
	require.NoError(t, err)

	require.Equal(t, domain.StatusPending, d.Status)
	require.Nil(t, d.StatusUpdatedBy)
	require.Nil(t, d.StatusChangedAt)
	require.Equal(t, "driver1", d.DriverID)
	require.Equal(t, "client1", d.ClientID)
	require.Equal(t, 7500.0, d.Price)
	require.True(t, d.CreatedAt.Equal(created))
	require.True(t, d.UpdatedAt.Equal(created))
}

func TestNewDelivery_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		field string
		mod   func(p *domain.NewDeliveryParams)
	}{
		{"unknown fuel type", "fuelType", func(p *domain.NewDeliveryParams) { p.FuelType = "97" }},
		{"empty fuel type", "fuelType", func(p *domain.NewDeliveryParams) { p.FuelType = "" }},
		{"missing driver", "driverId", func(p *domain.NewDeliveryParams) { p.DriverID = "  " }},
		{"missing client", "clientId", func(p *domain.NewDeliveryParams) { p.ClientID = "" }},
		{"zero amount", "amount", func(p *domain.NewDeliveryParams) { p.Amount = 0 }},
		{"negative amount", "amount", func(p *domain.NewDeliveryParams) { p.Amount = -1 }},
		{"nan amount", "amount", func(p *domain.NewDeliveryParams) { p.Amount = math.NaN() }},
		{"amount below a milliliter", "amount", func(p *domain.NewDeliveryParams) { p.Amount = 0.0004 }},
		{"amount above max", "amount", func(p *domain.NewDeliveryParams) { p.Amount = 5e9 }},
		{"price above max", "price", func(p *domain.NewDeliveryParams) { p.Price = domain.MaxPrice + 1 }},
		{"negative price", "price", func(p *domain.NewDeliveryParams) { p.Price = -0.01 }},
		{"infinite price", "price", func(p *domain.NewDeliveryParams) { p.Price = math.Inf(1) }},
		{"empty address", "address", func(p *domain.NewDeliveryParams) { p.Address = "\t" }},
		{"missing date", "deliveryDate", func(p *domain.NewDeliveryParams) { p.DeliveryDate = time.Time{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			tc.mod(&p)

			_, err := domain.NewDelivery(p, created)
			require.ErrorIs(t, err, apperr.ErrValidation)

			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestNewDelivery_RoundsAmount(t *testing.T) {
	t.Parallel()

	p := validParams()
	p.Amount = 50.12345
	d, err := domain.NewDelivery(p, created)
	require.NoError(t, err)
	require.Equal(t, 50.123, d.Amount)

	p.Amount = domain.MaxAmount
	d, err = domain.NewDelivery(p, created)
	require.NoError(t, err)
	require.Equal(t, float64(domain.MaxAmount), d.Amount)
}

func TestNewDelivery_ZeroPriceAllowed(t *testing.T) {
	t.Parallel()

	p := validParams()
	p.Price = 0
	_, err := domain.NewDelivery(p, created)
	require.NoError(t, err)
}

func TestTransition_CompleteThenCancelFails(t *testing.T) {
	t.Parallel()

	d, err := domain.NewDelivery(validParams(), created)
	require.NoError(t, err)

	changed := created.Add(time.Hour)
	done, err := d.Transition(domain.StatusCompleted, domain.Actor{ID: "driver1", Role: domain.RoleDriver}, changed)
	require.NoError(t, err)

	require.Equal(t, domain.StatusCompleted, done.Status)
	require.NotNil(t, done.StatusUpdatedBy)
	require.Equal(t, "driver1", *done.StatusUpdatedBy)
	require.NotNil(t, done.StatusChangedAt)
	require.False(t, done.StatusChangedAt.Before(done.CreatedAt))
	require.True(t, done.UpdatedAt.Equal(changed))

	// the source value is untouched
	require.Equal(t, domain.StatusPending, d.Status)
	require.Nil(t, d.StatusUpdatedBy)

	again, err := done.Transition(domain.StatusCancelled, domain.Actor{ID: "driver1"}, changed.Add(time.Minute))
	require.Error(t, err)
	require.Equal(t, domain.Delivery{}, again)

	var te *apperr.TransitionError
	require.ErrorAs(t, err, &te)
	require.Equal(t, apperr.InvalidTransition, te.Kind)
	require.Equal(t, domain.StatusCompleted, done.Status)
	require.Equal(t, "driver1", *done.StatusUpdatedBy)
}

func TestTransition_Matrix(t *testing.T) {
	t.Parallel()

	statuses := []domain.DeliveryStatus{domain.StatusPending, domain.StatusCompleted, domain.StatusCancelled}
	actor := domain.Actor{ID: "owner1", Role: domain.RoleOwner}

	for _, from := range statuses {
		for _, to := range statuses {
			d := domain.Delivery{ID: "d1", Status: from, CreatedAt: created}
			_, err := d.Transition(to, actor, created.Add(time.Minute))

			allowed := from == domain.StatusPending && to != domain.StatusPending
			if allowed {
				require.NoErrorf(t, err, "%s -> %s", from, to)
				continue
			}
			require.ErrorIsf(t, err, apperr.ErrInvalidTransition, "%s -> %s", from, to)
		}
	}
}

func TestTransition_ExactlyOneTerminalReachable(t *testing.T) {
	t.Parallel()

	d, err := domain.NewDelivery(validParams(), created)
	require.NoError(t, err)

	cancelled, err := d.Transition(domain.StatusCancelled, domain.Actor{ID: "admin1"}, created)
	require.NoError(t, err)

	for _, to := range []domain.DeliveryStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusPending} {
		_, err := cancelled.Transition(to, domain.Actor{ID: "admin1"}, created)
		require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	}
}

func TestTransition_RejectsUnknownStatusAndMissingActor(t *testing.T) {
	t.Parallel()

	d, err := domain.NewDelivery(validParams(), created)
	require.NoError(t, err)

	_, err = d.Transition("Shipped", domain.Actor{ID: "driver1"}, created)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = d.Transition(domain.StatusCompleted, domain.Actor{}, created)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseDeliveryStatus(t *testing.T) {
	t.Parallel()

	s, ok := domain.ParseDeliveryStatus(" completed ")
	require.True(t, ok)
	require.Equal(t, domain.StatusCompleted, s)

	s, ok = domain.ParseDeliveryStatus("CANCELED")
	require.True(t, ok)
	require.Equal(t, domain.StatusCancelled, s)

	_, ok = domain.ParseDeliveryStatus("delivered")
	require.False(t, ok)
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	require.False(t, domain.StatusPending.Terminal())
	require.True(t, domain.StatusCompleted.Terminal())
	require.True(t, domain.StatusCancelled.Terminal())
	require.False(t, domain.DeliveryStatus("bogus").Terminal())
}

func TestRole_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, domain.RoleFinanceManager.Valid())
	require.False(t, domain.Role("courier").Valid())
	require.True(t, domain.RoleDriver.SelfService())
	require.False(t, domain.RoleAdmin.SelfService())
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	require.True(t, domain.ValidateEmail("owner@fuel.example"))
	require.False(t, domain.ValidateEmail("owner@"))
	require.False(t, domain.ValidateEmail("not an email"))
}

package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, tenant domain.Tenant, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInputDTO{
		ItemID:      in.ItemID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Price:       in.Price,
		InvoiceURL:  in.InvoiceURL,
		Destination: in.Destination,
	}
	if in.OffDate != nil && *in.OffDate != "" {
		d, _, err := dto.ParseDate(*in.OffDate)
		if err != nil {
			return nil, domain.NewValidationError("offDate", "formato esperado YYYY-MM-DD o RFC3339")
		}
		input.OffDate = &d
	}
	mov, err := uc.RegisterMovement(ctx, tenant, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResponse(mov), nil
}

// ToMovementResponse convierte la entidad en su representación JSON.
func ToMovementResponse(m *entity.Movement) *dto.MovementResponse {
	out := &dto.MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		RestaurantID: m.RestaurantID,
		Type:         string(m.Type),
		Quantity:     m.Quantity,
		EntryDate:    m.EntryDate,
		Price:        m.Price,
		InvoiceURL:   m.InvoiceURL,
	}
	if m.OffDate != nil {
		s := m.OffDate.Format(dto.DateLayout)
		out.OffDate = &s
	}
	if m.Destination != nil {
		s := string(*m.Destination)
		out.Destination = &s
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

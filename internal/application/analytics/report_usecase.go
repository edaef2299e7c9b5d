// Package analytics contiene los casos de uso de lectura: el reporte de movimientos
// de stock y las métricas del tablero.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/application/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	domaininv "github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

// NonPerishable etiqueta de una entrada sin fecha de vencimiento.
const NonPerishable = "Non-perishable"

const noValue = "-"

// ReportUseCase arma la vista de movimientos uniendo el libro con los ítems.
type ReportUseCase struct {
	itemRepo     repository.InventoryItemRepository
	movementRepo repository.MovementRepository
	policy       domaininv.AvailabilityPolicy
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	itemRepo repository.InventoryItemRepository,
	movementRepo repository.MovementRepository,
	policy domaininv.AvailabilityPolicy,
) *ReportUseCase {
	return &ReportUseCase{itemRepo: itemRepo, movementRepo: movementRepo, policy: policy}
}

// reportFilter filtros ya validados.
type reportFilter struct {
	items        repository.ItemFilter
	movements    repository.MovementFilter
	availability string
}

// ListStockMovements devuelve los movimientos del restaurante que cumplen todos los filtros,
// ordenados por fecha de registro descendente (en empate, id descendente).
// Un movimiento cuyo ítem no está en el conjunto filtrado se descarta.
func (uc *ReportUseCase) ListStockMovements(ctx context.Context, tenant domain.Tenant, q dto.StockMovementsQuery) ([]dto.MovementViewDTO, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	f, err := parseReportFilter(q)
	if err != nil {
		return nil, err
	}

	// ── Ítems y movimientos en paralelo ───────────────────────────────────────
	type itemsResult struct {
		items []*entity.InventoryItem
		err   error
	}
	type movementsResult struct {
		movements []*entity.Movement
		err       error
	}
	itemsCh := make(chan itemsResult, 1)
	movsCh := make(chan movementsResult, 1)

	go func() {
		items, err := uc.itemRepo.List(ctx, tenant.RestaurantID, f.items)
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		movs, err := uc.movementRepo.List(ctx, tenant.RestaurantID, f.movements)
		movsCh <- movementsResult{movs, err}
	}()

	items := <-itemsCh
	movs := <-movsCh
	if items.err != nil {
		return nil, fmt.Errorf("reporte: ítems: %w", items.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("reporte: movimientos: %w", movs.err)
	}

	byID := make(map[int64]*entity.InventoryItem, len(items.items))
	for _, it := range items.items {
		byID[it.ID] = it
	}

	out := make([]dto.MovementViewDTO, 0, len(movs.movements))
	for _, m := range movs.movements {
		item, ok := byID[m.ItemID]
		if !ok {
			continue
		}
		view := uc.toView(m, item)
		if f.availability != "" && view.Availability.Status != f.availability {
			continue
		}
		out = append(out, view)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (uc *ReportUseCase) toView(m *entity.Movement, item *entity.InventoryItem) dto.MovementViewDTO {
	view := dto.MovementViewDTO{
		ID:           m.ID,
		ItemID:       m.ItemID,
		ItemName:     item.Name,
		Category:     string(item.Category),
		Price:        noValue,
		Quantity:     m.Quantity,
		Date:         m.EntryDate,
		Destination:  noValue,
		Type:         string(m.Type),
		Availability: uc.policy.Of(item.Quantity),
	}
	if m.Price != nil {
		view.Price = m.Price.StringFixed(2)
	}
	if m.Destination != nil {
		view.Destination = string(*m.Destination)
	}
	switch {
	case m.OffDate != nil:
		view.DisplayDate = m.OffDate.Format(dto.DateLayout)
	case m.Type == entity.MovementTypeIN:
		view.DisplayDate = NonPerishable
	default:
		view.DisplayDate = m.EntryDate.Format(dto.DateLayout)
	}
	return view
}

func parseReportFilter(q dto.StockMovementsQuery) (reportFilter, error) {
	var f reportFilter
	var err error

	f.items, err = inventory.ItemFilterFromQuery(0, q.Produto, q.Categoria)
	if err != nil {
		return f, err
	}
	if q.ItemID < 0 {
		return f, domain.NewValidationError("itemId", "inválido")
	}
	if q.ItemID > 0 {
		id := q.ItemID
		f.movements.ItemID = &id
	}

	if s := strings.TrimSpace(q.Status); s != "" {
		t := entity.MovementType(strings.ToUpper(s))
		if !t.Valid() {
			return f, domain.NewValidationError("status", "debe ser IN u OUT")
		}
		f.movements.Type = t
	}

	if s := strings.TrimSpace(q.DataInicio); s != "" {
		from, _, err := dto.ParseDate(s)
		if err != nil {
			return f, domain.NewValidationError("dataInicio", "formato esperado YYYY-MM-DD o RFC3339")
		}
		f.movements.From = &from
	}
	if s := strings.TrimSpace(q.DataFim); s != "" {
		to, dateOnly, err := dto.ParseDate(s)
		if err != nil {
			return f, domain.NewValidationError("dataFim", "formato esperado YYYY-MM-DD o RFC3339")
		}
		// Una fecha sin hora cubre el día completo
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		f.movements.To = &to
	}
	if f.movements.From != nil && f.movements.To != nil && f.movements.From.After(*f.movements.To) {
		return f, domain.NewValidationError("dataInicio", "posterior a dataFim")
	}

	if s := strings.TrimSpace(q.Disponibilidade); s != "" {
		status, ok := domaininv.ParseStatus(s)
		if !ok {
			return f, domain.NewValidationError("disponibilidade", "debe ser In Stock, Low Stock u Out of Stock")
		}
		f.availability = status
	}
	return f, nil
}

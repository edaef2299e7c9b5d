package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	domaininv "github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-inventory-api/pkg/logger"
)

// MetricsCache guarda las métricas calculadas por restaurante.
type MetricsCache interface {
	Get(restaurantID string) (dto.MetricsDTO, bool)
	Set(restaurantID string, m dto.MetricsDTO)
}

// MetricsUseCase calcula las métricas del tablero a partir de los ítems y del libro.
//
// Fuente de datos: InventoryItemRepository (ítems) y AnalyticsRepository (salidas por ítem).
// Con caché, un acierto evita ambas consultas; las mutaciones invalidan la entrada.
type MetricsUseCase struct {
	itemRepo      repository.InventoryItemRepository
	analyticsRepo repository.AnalyticsRepository
	policy        domaininv.AvailabilityPolicy
	cache         MetricsCache
	log           *logger.Logger
}

// NewMetricsUseCase construye el caso de uso. cache puede ser nil (siempre recalcula).
func NewMetricsUseCase(
	itemRepo repository.InventoryItemRepository,
	analyticsRepo repository.AnalyticsRepository,
	policy domaininv.AvailabilityPolicy,
	cache MetricsCache,
	log *logger.Logger,
) *MetricsUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MetricsUseCase{
		itemRepo:      itemRepo,
		analyticsRepo: analyticsRepo,
		policy:        policy,
		cache:         cache,
		log:           log.Named("metrics"),
	}
}

// GetMetrics devuelve total de ítems, ítems con stock bajo y los ítems con mayor y
// menor salida acumulada. Sin salidas registradas ambos extremos son {"-", 0}.
//
// Dos llamadas en paralelo:
//  1. List(todos los ítems)     → totalProducts, lowStock, nombres
//  2. ExitTotalsByItem          → highestExit, lowestExit
func (uc *MetricsUseCase) GetMetrics(ctx context.Context, tenant domain.Tenant) (*dto.MetricsDTO, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if m, ok := uc.cache.Get(tenant.RestaurantID); ok {
			uc.log.Debug().Str("restaurant_id", tenant.RestaurantID).Msg("métricas desde caché")
			return &m, nil
		}
	}

	type itemsResult struct {
		items []*entity.InventoryItem
		err   error
	}
	type exitsResult struct {
		totals []repository.ItemExitTotal
		err    error
	}
	itemsCh := make(chan itemsResult, 1)
	exitsCh := make(chan exitsResult, 1)

	go func() {
		items, err := uc.itemRepo.List(ctx, tenant.RestaurantID, repository.ItemFilter{})
		itemsCh <- itemsResult{items, err}
	}()
	go func() {
		totals, err := uc.analyticsRepo.ExitTotalsByItem(ctx, tenant.RestaurantID)
		exitsCh <- exitsResult{totals, err}
	}()

	items := <-itemsCh
	exits := <-exitsCh
	if items.err != nil {
		return nil, fmt.Errorf("métricas: ítems: %w", items.err)
	}
	if exits.err != nil {
		return nil, fmt.Errorf("métricas: salidas: %w", exits.err)
	}

	m := computeMetrics(items.items, exits.totals, uc.policy)
	if uc.cache != nil {
		uc.cache.Set(tenant.RestaurantID, m)
	}
	return &m, nil
}

func computeMetrics(items []*entity.InventoryItem, totals []repository.ItemExitTotal, policy domaininv.AvailabilityPolicy) dto.MetricsDTO {
	exitByItem := make(map[int64]int64, len(totals))
	for _, t := range totals {
		exitByItem[t.ItemID] = t.Total
	}

	sorted := make([]*entity.InventoryItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	m := dto.MetricsDTO{
		TotalProducts: len(sorted),
		HighestExit:   dto.ExitMetricDTO{Name: noValue},
		LowestExit:    dto.ExitMetricDTO{Name: noValue},
		LowStockItems: []dto.LowStockItemDTO{},
	}
	seen := false
	for _, it := range sorted {
		if policy.IsLowStock(it.Quantity) {
			m.LowStockItems = append(m.LowStockItems, dto.LowStockItemDTO{Name: it.Name, Quantity: it.Quantity})
		}
		total, ok := exitByItem[it.ID]
		if !ok || total <= 0 {
			continue
		}
		// Comparaciones estrictas: ante empate gana el primero por id
		if !seen || total > m.HighestExit.Quantity {
			m.HighestExit = dto.ExitMetricDTO{Name: it.Name, Quantity: total}
		}
		if !seen || total < m.LowestExit.Quantity {
			m.LowestExit = dto.ExitMetricDTO{Name: it.Name, Quantity: total}
		}
		seen = true
	}

	sort.SliceStable(m.LowStockItems, func(i, j int) bool {
		a, b := m.LowStockItems[i], m.LowStockItems[j]
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return a.Name < b.Name
	})
	m.LowStock = len(m.LowStockItems)
	return m
}

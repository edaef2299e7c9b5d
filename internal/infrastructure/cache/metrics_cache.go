// Package cache implementa el caché en proceso de métricas por restaurante.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
)

// DefaultSize cantidad máxima de restaurantes con métricas en caché.
const DefaultSize = 1024

// MetricsCache caché LRU con expiración por TTL. Con ttl <= 0 queda deshabilitado:
// Get nunca acierta y Set no guarda nada.
type MetricsCache struct {
	lru *expirable.LRU[string, dto.MetricsDTO]
}

// NewMetricsCache crea el caché. size <= 0 usa DefaultSize.
func NewMetricsCache(size int, ttl time.Duration) *MetricsCache {
	if ttl <= 0 {
		return &MetricsCache{}
	}
	if size <= 0 {
		size = DefaultSize
	}
	return &MetricsCache{lru: expirable.NewLRU[string, dto.MetricsDTO](size, nil, ttl)}
}

// Enabled indica si el caché guarda entradas.
func (c *MetricsCache) Enabled() bool { return c.lru != nil }

// Get devuelve una copia de las métricas del restaurante, si siguen vigentes.
func (c *MetricsCache) Get(restaurantID string) (dto.MetricsDTO, bool) {
	if c.lru == nil {
		return dto.MetricsDTO{}, false
	}
	m, ok := c.lru.Get(restaurantID)
	if !ok {
		return dto.MetricsDTO{}, false
	}
	return clone(m), true
}

// Set guarda una copia de las métricas.
func (c *MetricsCache) Set(restaurantID string, m dto.MetricsDTO) {
	if c.lru == nil {
		return
	}
	c.lru.Add(restaurantID, clone(m))
}

// Invalidate descarta las métricas del restaurante tras una mutación.
func (c *MetricsCache) Invalidate(restaurantID string) {
	if c.lru == nil {
		return
	}
	c.lru.Remove(restaurantID)
}

// Len entradas vigentes.
func (c *MetricsCache) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

func clone(m dto.MetricsDTO) dto.MetricsDTO {
	items := make([]dto.LowStockItemDTO, len(m.LowStockItems))
	copy(items, m.LowStockItems)
	m.LowStockItems = items
	return m
}

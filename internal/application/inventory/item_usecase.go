package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/dto"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-inventory-api/pkg/logger"
)

// ItemUseCase casos de uso de ítems de inventario. La cantidad solo cambia vía movimientos:
// el alta con cantidad inicial registra además una entrada (IN) en la misma transacción.
type ItemUseCase struct {
	txRunner    TxRunner
	repo        repository.InventoryItemRepository
	invalidator MetricsInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// NewItemUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewItemUseCase(txRunner TxRunner, repo repository.InventoryItemRepository, opts ...Option) *ItemUseCase {
	o := buildOptions(opts)
	return &ItemUseCase{
		txRunner:    txRunner,
		repo:        repo,
		invalidator: o.invalidator,
		log:         o.log.Named("items"),
		now:         o.now,
	}
}

// AddItem crea un ítem. Rechaza nombres duplicados en el restaurante (sin distinguir
// mayúsculas ni espacios); la restricción única en BD cubre la carrera entre dos altas.
func (uc *ItemUseCase) AddItem(ctx context.Context, tenant domain.Tenant, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	name := inventory.CleanName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	category, ok := entity.ParseCategory(in.Category)
	if !ok {
		return nil, domain.NewValidationError("category", "categoría desconocida")
	}
	var initial int64
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.NewValidationError("quantity", "no puede ser negativa")
		}
		if *in.Quantity > maxQuantity {
			return nil, domain.NewValidationError("quantity", "excede el máximo permitido")
		}
		initial = *in.Quantity
	}

	key := inventory.NameKey(name)
	existing, err := uc.repo.GetByNameKey(ctx, tenant.RestaurantID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now().UTC()
	item := &entity.InventoryItem{
		RestaurantID: tenant.RestaurantID,
		Name:         name,
		NameKey:      key,
		Category:     category,
		Quantity:     initial,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(
		ctx context.Context,
		itemRepo repository.InventoryItemRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if initial == 0 {
			return nil
		}
		// La cantidad inicial queda en el libro para que Σ IN − Σ OUT == quantity desde el alta
		return movRepo.Create(ctx, &entity.Movement{
			ItemID:       item.ID,
			RestaurantID: tenant.RestaurantID,
			Type:         entity.MovementTypeIN,
			Quantity:     initial,
			EntryDate:    now,
			CreatedBy:    tenant.UserID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidator.Invalidate(tenant.RestaurantID)
	uc.log.Info().
		Str("restaurant_id", tenant.RestaurantID).
		Int64("item_id", item.ID).
		Str("category", string(category)).
		Int64("quantity", initial).
		Msg("ítem creado")
	return ToItemResponse(item), nil
}

// GetByID obtiene un ítem del restaurante; ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, tenant domain.Tenant, id int64) (*dto.ItemResponse, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, tenant.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return ToItemResponse(item), nil
}

// List lista los ítems del restaurante que cumplen todos los filtros dados.
func (uc *ItemUseCase) List(ctx context.Context, tenant domain.Tenant, q dto.ItemQuery) ([]dto.ItemResponse, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	filter, err := ItemFilterFromQuery(q.ID, q.Name, q.Category)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, tenant.RestaurantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(list))
	for _, item := range list {
		out = append(out, *ToItemResponse(item))
	}
	return out, nil
}

// UpdateMeta edita nombre y/o categoría. Nunca modifica la cantidad.
func (uc *ItemUseCase) UpdateMeta(ctx context.Context, tenant domain.Tenant, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	item, err := uc.repo.GetByID(ctx, tenant.RestaurantID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		name := inventory.CleanName(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		key := inventory.NameKey(name)
		if key != item.NameKey {
			other, err := uc.repo.GetByNameKey(ctx, tenant.RestaurantID, key)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != item.ID {
				return nil, domain.ErrDuplicate
			}
		}
		item.Name = name
		item.NameKey = key
	}
	if in.Category != nil {
		category, ok := entity.ParseCategory(*in.Category)
		if !ok {
			return nil, domain.NewValidationError("category", "categoría desconocida")
		}
		item.Category = category
	}
	item.UpdatedAt = uc.now().UTC()
	if err := uc.repo.UpdateMeta(ctx, item); err != nil {
		return nil, err
	}
	uc.invalidator.Invalidate(tenant.RestaurantID)
	return ToItemResponse(item), nil
}

// ItemFilterFromQuery traduce los filtros crudos de la API al filtro del repositorio.
func ItemFilterFromQuery(id int64, name, category string) (repository.ItemFilter, error) {
	var f repository.ItemFilter
	if id < 0 {
		return f, domain.NewValidationError("id", "inválido")
	}
	if id > 0 {
		f.ID = &id
	}
	f.Name = inventory.CleanName(name)
	if category != "" {
		c, ok := entity.ParseCategory(category)
		if !ok {
			return f, domain.NewValidationError("category", "categoría desconocida")
		}
		f.Category = c
	}
	return f, nil
}

// ToItemResponse convierte la entidad en su representación JSON.
func ToItemResponse(item *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           item.ID,
		RestaurantID: item.RestaurantID,
		Name:         item.Name,
		Category:     string(item.Category),
		Quantity:     item.Quantity,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-inventory-api/pkg/logger"
)

// MovementPolicy reglas configurables para salidas sin destino.
type MovementPolicy struct {
	DefaultDestination entity.Destination // se usa si la salida no trae destino
	RequireDestination bool               // si es true, una salida sin destino es inválida
}

// DefaultMovementPolicy salidas sin destino van a cocina.
func DefaultMovementPolicy() MovementPolicy {
	return MovementPolicy{DefaultDestination: entity.DestinationKitchen}
}

// RegisterMovementUseCase es el único camino por el que cambia la cantidad de un ítem.
// Cada movimiento se aplica en una transacción con bloqueo de fila (SELECT FOR UPDATE):
// se actualiza la cantidad del ítem y se inserta el asiento, o no se hace nada.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	policy      MovementPolicy
	invalidator MetricsInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*options)

type options struct {
	invalidator MetricsInvalidator
	log         *logger.Logger
	now         func() time.Time
}

// WithInvalidator registra el caché de métricas a invalidar tras cada mutación.
func WithInvalidator(inv MetricsInvalidator) Option {
	return func(o *options) {
		if inv != nil {
			o.invalidator = inv
		}
	}
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{invalidator: noopInvalidator{}, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRegisterMovementUseCase construye el motor de movimientos.
func NewRegisterMovementUseCase(txRunner TxRunner, policy MovementPolicy, opts ...Option) *RegisterMovementUseCase {
	o := buildOptions(opts)
	if !policy.DefaultDestination.Valid() {
		policy.DefaultDestination = entity.DestinationKitchen
	}
	return &RegisterMovementUseCase{
		txRunner:    txRunner,
		policy:      policy,
		invalidator: o.invalidator,
		log:         o.log.Named("movements"),
		now:         o.now,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// IN: Price (>= 0), InvoiceURL y OffDate (vencimiento) opcionales.
// OUT: OffDate (por defecto hoy) y Destination (por defecto según MovementPolicy).
type MovementInputDTO struct {
	ItemID      int64
	Type        string
	Quantity    decimal.Decimal
	Price       *decimal.Decimal
	InvoiceURL  *string
	OffDate     *time.Time
	Destination *string
}

// RegisterMovement valida la entrada, bloquea el ítem, verifica que una salida no deje
// stock negativo, actualiza la cantidad e inserta el movimiento en la misma transacción.
// No reintenta: un reintento interno podría aplicar el movimiento dos veces.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, tenant domain.Tenant, input MovementInputDTO) (*entity.Movement, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	mov, err := uc.buildMovement(tenant, input)
	if err != nil {
		return nil, err
	}

	var before, after int64
	err = uc.txRunner.Run(ctx, func(
		ctx context.Context,
		itemRepo repository.InventoryItemRepository,
		movRepo repository.MovementRepository,
	) error {
		// Bloquea la fila del ítem: dos salidas concurrentes no pueden leer la misma cantidad
		item, err := itemRepo.GetForUpdate(ctx, tenant.RestaurantID, mov.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		before = item.Quantity
		after, err = inventory.ApplyMovement(item.Quantity, mov.Type, mov.Quantity)
		if err != nil {
			return err
		}
		if err := itemRepo.UpdateQuantity(ctx, tenant.RestaurantID, item.ID, after); err != nil {
			return err
		}
		mov.EntryDate = uc.now().UTC()
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("restaurant_id", tenant.RestaurantID).
			Int64("item_id", mov.ItemID).
			Str("type", string(mov.Type)).
			Int64("quantity", mov.Quantity).
			Msg("movimiento rechazado")
		return nil, err
	}

	uc.invalidator.Invalidate(tenant.RestaurantID)
	uc.log.Info().
		Str("restaurant_id", tenant.RestaurantID).
		Int64("movement_id", mov.ID).
		Int64("item_id", mov.ItemID).
		Str("type", string(mov.Type)).
		Int64("quantity", mov.Quantity).
		Int64("stock_before", before).
		Int64("stock_after", after).
		Msg("movimiento registrado")
	return mov, nil
}

// buildMovement valida los campos según el tipo y aplica los valores por defecto.
func (uc *RegisterMovementUseCase) buildMovement(tenant domain.Tenant, input MovementInputDTO) (*entity.Movement, error) {
	if input.ItemID <= 0 {
		return nil, domain.NewValidationError("itemId", "es requerido")
	}
	movType := entity.MovementType(strings.ToUpper(strings.TrimSpace(input.Type)))
	if !movType.Valid() {
		return nil, domain.NewValidationError("type", "debe ser IN u OUT")
	}
	if !input.Quantity.IsInteger() {
		return nil, domain.NewValidationError("quantity", "debe ser un número entero")
	}
	if !input.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if !input.Quantity.LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
		return nil, domain.NewValidationError("quantity", "excede el máximo permitido")
	}

	mov := &entity.Movement{
		ItemID:       input.ItemID,
		RestaurantID: tenant.RestaurantID,
		Type:         movType,
		Quantity:     input.Quantity.IntPart(),
		CreatedBy:    tenant.UserID,
	}
	if input.OffDate != nil {
		d := truncateToDate(*input.OffDate)
		mov.OffDate = &d
	}

	switch movType {
	case entity.MovementTypeIN:
		if input.Destination != nil && *input.Destination != "" {
			return nil, domain.NewValidationError("destination", "solo aplica a salidas")
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				return nil, domain.NewValidationError("price", "no puede ser negativo")
			}
			p := input.Price.Round(2)
			mov.Price = &p
		}
		if input.InvoiceURL != nil {
			if u := strings.TrimSpace(*input.InvoiceURL); u != "" {
				mov.InvoiceURL = &u
			}
		}
	case entity.MovementTypeOUT:
		if input.Price != nil {
			return nil, domain.NewValidationError("price", "solo aplica a entradas")
		}
		if input.InvoiceURL != nil && *input.InvoiceURL != "" {
			return nil, domain.NewValidationError("invoiceUrl", "solo aplica a entradas")
		}
		dest, err := uc.resolveDestination(input.Destination)
		if err != nil {
			return nil, err
		}
		mov.Destination = &dest
		if mov.OffDate == nil {
			today := truncateToDate(uc.now())
			mov.OffDate = &today
		}
	}
	return mov, nil
}

func (uc *RegisterMovementUseCase) resolveDestination(raw *string) (entity.Destination, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		if uc.policy.RequireDestination {
			return "", domain.NewValidationError("destination", "es requerido para salidas")
		}
		return uc.policy.DefaultDestination, nil
	}
	dest := entity.Destination(strings.ToUpper(strings.TrimSpace(*raw)))
	if !dest.Valid() {
		return "", domain.NewValidationError("destination", "debe ser KITCHEN, DELIVERY, WASTE u OTHER")
	}
	return dest, nil
}

// maxQuantity límite por movimiento; evita desbordar BIGINT al sumar.
const maxQuantity = 1_000_000_000

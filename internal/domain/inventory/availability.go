package inventory

// DefaultLowStockThreshold cantidad máxima (inclusive) considerada "stock bajo".
const DefaultLowStockThreshold = 20

// Etiquetas de disponibilidad (derivadas, nunca persistidas).
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
	StatusUnknown    = "Unknown"
)

// Indicadores para la UI, uno por estado.
const (
	IndicatorSuccess = "success"
	IndicatorWarning = "warning"
	IndicatorError   = "error"
	IndicatorNeutral = "neutral"
)

// Availability estado de disponibilidad de un ítem.
type Availability struct {
	Status    string `json:"status"`
	Indicator string `json:"indicator"`
}

// UnknownAvailability se usa cuando el ítem del movimiento no existe.
var UnknownAvailability = Availability{Status: StatusUnknown, Indicator: IndicatorNeutral}

// AvailabilityPolicy calcula la disponibilidad a partir de la cantidad actual.
//
//	quantity > LowStockThreshold       -> In Stock
//	0 < quantity <= LowStockThreshold  -> Low Stock
//	quantity <= 0                      -> Out of Stock
type AvailabilityPolicy struct {
	LowStockThreshold int64
}

// NewAvailabilityPolicy construye la política; un umbral negativo se trata como 0.
func NewAvailabilityPolicy(threshold int64) AvailabilityPolicy {
	if threshold < 0 {
		threshold = 0
	}
	return AvailabilityPolicy{LowStockThreshold: threshold}
}

// Of devuelve la disponibilidad para la cantidad dada.
func (p AvailabilityPolicy) Of(quantity int64) Availability {
	switch {
	case quantity > p.LowStockThreshold:
		return Availability{Status: StatusInStock, Indicator: IndicatorSuccess}
	case quantity > 0:
		return Availability{Status: StatusLowStock, Indicator: IndicatorWarning}
	default:
		return Availability{Status: StatusOutOfStock, Indicator: IndicatorError}
	}
}

// IsLowStock indica si la cantidad está en el rango (0, umbral].
func (p AvailabilityPolicy) IsLowStock(quantity int64) bool {
	return quantity > 0 && quantity <= p.LowStockThreshold
}

// ParseStatus valida una etiqueta de disponibilidad recibida como filtro.
func ParseStatus(s string) (string, bool) {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return s, true
	}
	return "", false
}

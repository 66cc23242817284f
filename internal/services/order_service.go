package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/yeny-crm/internal/models"
)

// OrderService is the core of the application: it validates pedido
// payloads, enforces the lifecycle state machine and scopes every read
// and write to the caller's role before touching the store.
type OrderService struct {
	store *OrderStore
}

// NewOrderService constructs an OrderService over the given database.
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{store: NewOrderStore(db)}
}

// ProductPayload is one inbound line item.
type ProductPayload struct {
	Name        string
	Description string
	Quantity    int
	Image       string
}

// PhonePayload is one inbound customer phone contact.
type PhonePayload struct {
	Number string
	Type   models.TipoTelefono
}

// OrderPayload carries every caller-mutable field of a pedido. The same
// payload is validated for create and for full replace.
type OrderPayload struct {
	Products            []ProductPayload
	CustomerName        string
	Phones              []PhonePayload
	Address             string
	ShipmentType        models.TipoEnvio
	TotalPrice          float64
	Deposit             float64
	Seller              string
	SellerEmail         string
	DesiredDeliveryDate *time.Time
	Observation         string
}

func validatePayload(p *OrderPayload) error {
	if len(p.Products) == 0 {
		return newValidationError("productos", "el pedido debe incluir al menos un producto")
	}
	for i, product := range p.Products {
		if strings.TrimSpace(product.Name) == "" {
			return newValidationError("productos", "el producto %d debe tener un nombre", i+1)
		}
		if product.Quantity <= 0 {
			return newValidationError("productos", "el producto %d debe tener una cantidad mayor a cero", i+1)
		}
	}
	if strings.TrimSpace(p.CustomerName) == "" {
		return newValidationError("nombreCliente", "el nombre del cliente es obligatorio")
	}
	if len(p.Phones) == 0 {
		return newValidationError("numerosTelefonicos", "el pedido debe incluir al menos un número telefónico")
	}
	for i, phone := range p.Phones {
		if strings.TrimSpace(phone.Number) == "" {
			return newValidationError("numerosTelefonicos", "el número telefónico %d está vacío", i+1)
		}
		if !phone.Type.IsValid() {
			return newValidationError("numerosTelefonicos", "el número telefónico %d tiene un tipo inválido", i+1)
		}
	}
	if strings.TrimSpace(p.Address) == "" {
		return newValidationError("direccionDetallada", "la dirección detallada es obligatoria")
	}
	if !p.ShipmentType.IsValid() {
		return newValidationError("tipoEnvio", "tipo de envío inválido")
	}
	if p.TotalPrice <= 0 {
		return newValidationError("precioTotal", "el precio total debe ser mayor a cero")
	}
	if p.Deposit < 0 {
		return newValidationError("abonodinero", "el abono no puede ser negativo")
	}
	if p.Deposit > p.TotalPrice {
		return newValidationError("abonodinero", "el abono no puede ser mayor al precio total")
	}
	if len([]rune(p.Observation)) > maxObservationLen {
		return newValidationError("observacionEntrega", "la observación no puede exceder %d caracteres", maxObservationLen)
	}
	return nil
}

const maxObservationLen = 500

// Create validates the payload and persists a new pedido in estado
// pendiente with a server-assigned creation time. Only vendedoras create
// pedidos; the owner label falls back to the caller's email or name when
// the payload does not carry one.
func (s *OrderService) Create(payload *OrderPayload, caller Identity) (*models.Order, error) {
	switch caller.Role {
	case models.RoleVendedora:
		// only vendedoras place pedidos; administradoras manage them
	default:
		return nil, ErrForbidden
	}

	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	seller := payload.Seller
	if seller == "" {
		seller = caller.Email
	}
	if seller == "" {
		seller = caller.Name
	}
	sellerEmail := payload.SellerEmail
	if sellerEmail == "" {
		sellerEmail = caller.Email
	}

	order := &models.Order{
		CustomerName:        payload.CustomerName,
		Address:             payload.Address,
		ShipmentType:        payload.ShipmentType,
		TotalPrice:          payload.TotalPrice,
		Deposit:             payload.Deposit,
		Seller:              seller,
		SellerEmail:         sellerEmail,
		DesiredDeliveryDate: payload.DesiredDeliveryDate,
		Status:              models.EstadoPendiente,
	}
	order.Products = buildProducts(payload.Products)
	order.Phones = buildPhones(payload.Phones)

	if err := s.store.Insert(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get resolves a single pedido for the caller. Administradoras see any
// pedido; vendedoras only their own, with foreign pedidos reported as
// not found.
func (s *OrderService) Get(id uuid.UUID, caller Identity) (*models.Order, error) {
	order, err := s.findScoped(id, caller)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// UpdateStatus advances the lifecycle of a pedido. Administradora only.
// The target must be a known estado and the pedido must not already be
// in a terminal state. The observation is persisted only when the target
// is entregado or devolucion.
func (s *OrderService) UpdateStatus(id uuid.UUID, target models.Estado, observation string, caller Identity) (*models.Order, error) {
	if caller.Role != models.RoleAdministradora {
		return nil, ErrForbidden
	}

	if !target.IsValid() {
		return nil, newValidationError("estado", "estado inválido. estados válidos: %s", joinEstados())
	}
	if len([]rune(observation)) > maxObservationLen {
		return nil, newValidationError("observacionEntrega", "la observación no puede exceder %d caracteres", maxObservationLen)
	}

	order, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}

	if !models.CanTransition(order.Status, target) {
		return nil, newValidationError("estado", "el pedido ya está en estado %s y no admite más cambios", order.Status)
	}

	withObservation := target.IsTerminal() && observation != ""
	updated, err := s.store.UpdateStatus(id, target, observation, withObservation)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Replace overwrites every caller-mutable field of a pedido after
// re-validating the payload as in Create. Allowed for administradoras
// and for the owning vendedora. Estado and fecha de creación are never
// touched by this operation.
func (s *OrderService) Replace(id uuid.UUID, payload *OrderPayload, caller Identity) (*models.Order, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	order, err := s.findScoped(id, caller)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status.IsTerminal() {
		return nil, newValidationError("estado", "el pedido ya está en estado %s y no puede modificarse", order.Status)
	}

	order.CustomerName = payload.CustomerName
	order.Address = payload.Address
	order.ShipmentType = payload.ShipmentType
	order.TotalPrice = payload.TotalPrice
	order.Deposit = payload.Deposit
	if payload.Seller != "" {
		order.Seller = payload.Seller
	}
	if payload.SellerEmail != "" {
		order.SellerEmail = payload.SellerEmail
	}
	order.DesiredDeliveryDate = payload.DesiredDeliveryDate
	order.Observation = payload.Observation
	order.Products = buildProducts(payload.Products)
	order.Phones = buildPhones(payload.Phones)

	return s.store.Replace(order)
}

// List returns one page of pedidos visible to the caller, newest first,
// along with the total count for the caller's full scope. No upper
// bound is placed on limit.
func (s *OrderService) List(caller Identity, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	keys, err := s.scopeKeys(caller)
	if err != nil {
		return nil, 0, err
	}
	if keys != nil && len(keys) == 0 {
		return []models.Order{}, 0, nil
	}

	skip := (page - 1) * limit
	return s.store.ListPage(keys, skip, limit)
}

// ListRecent returns the caller-visible pedidos of the last three
// months, newest first. This feeds the download screens, which always
// export a full quarter.
func (s *OrderService) ListRecent(caller Identity) ([]models.Order, error) {
	keys, err := s.scopeKeys(caller)
	if err != nil {
		return nil, err
	}
	if keys != nil && len(keys) == 0 {
		return []models.Order{}, nil
	}

	since := time.Now().AddDate(0, -3, 0)
	return s.store.ListSince(keys, since)
}

// scopeKeys translates the caller into a store filter: nil for the
// unrestricted administradora scope, the caller's owner keys for a
// vendedora, ErrForbidden for anything else.
func (s *OrderService) scopeKeys(caller Identity) ([]string, error) {
	switch caller.Role {
	case models.RoleAdministradora:
		return nil, nil
	case models.RoleVendedora:
		return caller.OwnerKeys(), nil
	default:
		return nil, ErrForbidden
	}
}

func (s *OrderService) findScoped(id uuid.UUID, caller Identity) (*models.Order, error) {
	switch caller.Role {
	case models.RoleAdministradora:
		return s.store.FindByID(id)
	case models.RoleVendedora:
		return s.store.FindByIDScoped(id, caller.OwnerKeys())
	default:
		return nil, ErrForbidden
	}
}

func buildProducts(in []ProductPayload) []models.OrderProduct {
	out := make([]models.OrderProduct, 0, len(in))
	for _, p := range in {
		out = append(out, models.OrderProduct{
			Name:        p.Name,
			Description: p.Description,
			Quantity:    p.Quantity,
			Image:       p.Image,
		})
	}
	return out
}

func buildPhones(in []PhonePayload) []models.PhoneContact {
	out := make([]models.PhoneContact, 0, len(in))
	for _, p := range in {
		out = append(out, models.PhoneContact{
			Number: p.Number,
			Type:   p.Type,
		})
	}
	return out
}

func joinEstados() string {
	values := models.Estados()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

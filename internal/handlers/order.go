package handlers

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/yeny-crm/internal/middleware"
	"github.com/example/yeny-crm/internal/models"
	"github.com/example/yeny-crm/internal/services"
	"github.com/example/yeny-crm/internal/utils"
)

// OrderHandler manages pedido endpoints. All domain decisions live in
// the order service; the handler only parses, delegates and renders.
type OrderHandler struct {
	svc *services.OrderService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{svc: services.NewOrderService(db)}
}

type pedidoProductoRequest struct {
	NombreProducto      string `json:"nombreProducto"`
	DescripcionProducto string `json:"descripcionProducto"`
	Cantidades          int    `json:"cantidades"`
	Imagen              string `json:"imagen"`
}

type pedidoTelefonoRequest struct {
	Numero string `json:"numero"`
	Tipo   string `json:"tipo"`
}

type pedidoRequest struct {
	Productos           []pedidoProductoRequest `json:"productos"`
	NombreCliente       string                  `json:"nombreCliente"`
	NumerosTelefonicos  []pedidoTelefonoRequest `json:"numerosTelefonicos"`
	DireccionDetallada  string                  `json:"direccionDetallada"`
	TipoEnvio           string                  `json:"tipoEnvio"`
	PrecioTotal         float64                 `json:"precioTotal"`
	Abonodinero         float64                 `json:"abonodinero"`
	Vendedora           string                  `json:"vendedora"`
	CorreoVendedora     string                  `json:"correoVendedora"`
	FechaEntregaDeseada *time.Time              `json:"fechaEntregaDeseada"`
	ObservacionEntrega  string                  `json:"observacionEntrega"`
}

func (r *pedidoRequest) toPayload() *services.OrderPayload {
	payload := &services.OrderPayload{
		CustomerName:        r.NombreCliente,
		Address:             r.DireccionDetallada,
		ShipmentType:        models.TipoEnvio(r.TipoEnvio),
		TotalPrice:          r.PrecioTotal,
		Deposit:             r.Abonodinero,
		Seller:              r.Vendedora,
		SellerEmail:         r.CorreoVendedora,
		DesiredDeliveryDate: r.FechaEntregaDeseada,
		Observation:         r.ObservacionEntrega,
	}
	for _, p := range r.Productos {
		payload.Products = append(payload.Products, services.ProductPayload{
			Name:        p.NombreProducto,
			Description: p.DescripcionProducto,
			Quantity:    p.Cantidades,
			Image:       p.Imagen,
		})
	}
	for _, t := range r.NumerosTelefonicos {
		payload.Phones = append(payload.Phones, services.PhonePayload{
			Number: t.Numero,
			Type:   models.TipoTelefono(t.Tipo),
		})
	}
	return payload
}

// CreateOrder lets a vendedora place a new pedido.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req pedidoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.svc.Create(req.toPayload(), identity)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Pedido creado exitosamente",
		"pedidoId": order.ID,
	})
}

// ListOrders returns one page of pedidos in the caller's scope.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.svc.List(identity, pg.Page, pg.Limit)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"pedidos":    orders,
		"total":      total,
		"totalPages": int(math.Ceil(float64(total) / float64(pg.Limit))),
		"page":       pg.Page,
	})
}

// ListRecentOrders returns the caller's pedidos of the last three
// months, the range the download screens work with.
func (h *OrderHandler) ListRecentOrders(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.svc.ListRecent(identity)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{"pedidos": orders})
}

// GetOrder returns a single pedido visible to the caller.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID de pedido inválido")
	}

	order, err := h.svc.Get(id, identity)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{"pedido": order})
}

type estadoRequest struct {
	Estado             string `json:"estado"`
	ObservacionEntrega string `json:"observacionEntrega"`
}

// UpdateOrderStatus advances the lifecycle of a pedido. Administradora
// only; the service enforces the transition rules.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID de pedido inválido")
	}

	var req estadoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.svc.UpdateStatus(id, models.Estado(req.Estado), req.ObservacionEntrega, identity)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Estado actualizado correctamente",
		"pedido":  order,
	})
}

// ReplaceOrder overwrites the mutable fields of a pedido for its owner
// or an administradora.
func (h *OrderHandler) ReplaceOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID de pedido inválido")
	}

	var req pedidoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.svc.Replace(id, req.toPayload(), identity)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(fiber.Map{
		"message": "Pedido actualizado exitosamente",
		"pedido":  order,
	})
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoEnvio is the shipment class of a pedido.
type TipoEnvio string

const (
	EnvioNacional TipoEnvio = "nacional"
	EnvioBogota   TipoEnvio = "bogota"
)

// IsValid reports whether the shipment class is a known value.
func (t TipoEnvio) IsValid() bool {
	return t == EnvioNacional || t == EnvioBogota
}

// TipoTelefono classifies a customer phone contact.
type TipoTelefono string

const (
	TelefonoPrincipal  TipoTelefono = "principal"
	TelefonoSecundario TipoTelefono = "secundario"
	TelefonoTrabajo    TipoTelefono = "trabajo"
	TelefonoCasa       TipoTelefono = "casa"
	TelefonoEmergencia TipoTelefono = "emergencia"
)

// IsValid reports whether the phone type is a known value.
func (t TipoTelefono) IsValid() bool {
	switch t {
	case TelefonoPrincipal, TelefonoSecundario, TelefonoTrabajo, TelefonoCasa, TelefonoEmergencia:
		return true
	}
	return false
}

// Order is a pedido: a customer purchase tracked through the delivery
// lifecycle. It is owned by the vendedora that created it, matched by
// either the vendedora label or correo_vendedora (historical records were
// tagged inconsistently, so both are owner keys). Orders are never
// deleted; they only move forward through Estado.
type Order struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Products            []OrderProduct `gorm:"constraint:OnDelete:CASCADE" json:"productos"`
	CustomerName        string         `gorm:"column:nombre_cliente" json:"nombreCliente"`
	Phones              []PhoneContact `gorm:"constraint:OnDelete:CASCADE" json:"numerosTelefonicos"`
	Address             string         `gorm:"column:direccion_detallada" json:"direccionDetallada"`
	ShipmentType        TipoEnvio      `gorm:"column:tipo_envio" json:"tipoEnvio"`
	TotalPrice          float64        `gorm:"column:precio_total" json:"precioTotal"`
	Deposit             float64        `gorm:"column:abonodinero" json:"abonodinero"`
	Seller              string         `gorm:"column:vendedora;index" json:"vendedora"`
	SellerEmail         string         `gorm:"column:correo_vendedora;index" json:"correoVendedora,omitempty"`
	CreatedAt           time.Time      `gorm:"column:fecha_creacion" json:"fechaCreacion"`
	DesiredDeliveryDate *time.Time     `gorm:"column:fecha_entrega_deseada" json:"fechaEntregaDeseada,omitempty"`
	Status              Estado         `gorm:"column:estado;index" json:"estado"`
	Observation         string         `gorm:"column:observacion_entrega" json:"observacionEntrega,omitempty"`
}

// TableName keeps the collection name of the original system.
func (Order) TableName() string { return "pedidos" }

// BeforeCreate assigns the order id.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderProduct is one line item of a pedido. Products are free text, not
// catalog references: the garments are made to order.
type OrderProduct struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Name        string    `gorm:"column:nombre_producto" json:"nombreProducto"`
	Description string    `gorm:"column:descripcion_producto" json:"descripcionProducto"`
	Quantity    int       `gorm:"column:cantidades" json:"cantidades"`
	Image       string    `gorm:"column:imagen" json:"imagen,omitempty"`
}

// TableName keeps line items next to their pedidos.
func (OrderProduct) TableName() string { return "pedido_productos" }

// PhoneContact is one customer phone number on a pedido.
type PhoneContact struct {
	BaseModel
	OrderID uuid.UUID    `gorm:"type:uuid;index" json:"-"`
	Number  string       `gorm:"column:numero" json:"numero"`
	Type    TipoTelefono `gorm:"column:tipo" json:"tipo"`
}

// TableName keeps phone contacts next to their pedidos.
func (PhoneContact) TableName() string { return "pedido_telefonos" }

package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/yeny-crm/internal/models"
)

var (
	vendedoraAna = Identity{
		UserID: uuid.New(),
		Email:  "a@x.com",
		Name:   "Ana",
		Role:   models.RoleVendedora,
	}
	vendedoraBeatriz = Identity{
		UserID: uuid.New(),
		Email:  "b@x.com",
		Name:   "Beatriz",
		Role:   models.RoleVendedora,
	}
	administradora = Identity{
		UserID: uuid.New(),
		Email:  "admin@x.com",
		Name:   "Yeny",
		Role:   models.RoleAdministradora,
	}
	sinRol = Identity{
		UserID: uuid.New(),
		Email:  "nadie@x.com",
		Role:   models.Role("visitante"),
	}
)

func newTestService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Order{}, &models.OrderProduct{}, &models.PhoneContact{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return NewOrderService(db), db
}

func validPayload() *OrderPayload {
	return &OrderPayload{
		Products: []ProductPayload{
			{Name: "Blusa manga larga", Description: "Talla M, azul", Quantity: 2},
		},
		CustomerName: "María Pérez",
		Phones: []PhonePayload{
			{Number: "3001234567", Type: models.TelefonoPrincipal},
		},
		Address:      "Calle 45 #12-34, Bogotá",
		ShipmentType: models.EnvioBogota,
		TotalPrice:   100000,
		Deposit:      50000,
	}
}

func TestCreateAssignsPendingStateAndCreationTime(t *testing.T) {
	svc, _ := newTestService(t)

	before := time.Now().Add(-time.Second)
	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, models.EstadoPendiente, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.True(t, order.CreatedAt.After(before))

	// Owner defaults come from the caller when the payload has none.
	assert.Equal(t, "a@x.com", order.Seller)
	assert.Equal(t, "a@x.com", order.SellerEmail)
}

func TestCreateKeepsExplicitSellerLabel(t *testing.T) {
	svc, _ := newTestService(t)

	payload := validPayload()
	payload.Seller = "Ana"

	order, err := svc.Create(payload, vendedoraAna)
	require.NoError(t, err)
	assert.Equal(t, "Ana", order.Seller)
	assert.Equal(t, "a@x.com", order.SellerEmail)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *OrderPayload)
		field   string
		message string
	}{
		{
			name:    "zero products",
			mutate:  func(p *OrderPayload) { p.Products = nil },
			field:   "productos",
			message: "el pedido debe incluir al menos un producto",
		},
		{
			name: "product without name is reported 1-indexed",
			mutate: func(p *OrderPayload) {
				p.Products = append(p.Products, ProductPayload{Name: "  ", Quantity: 1})
			},
			field:   "productos",
			message: "el producto 2 debe tener un nombre",
		},
		{
			name: "product with zero quantity",
			mutate: func(p *OrderPayload) {
				p.Products[0].Quantity = 0
			},
			field:   "productos",
			message: "el producto 1 debe tener una cantidad mayor a cero",
		},
		{
			name:    "missing customer name",
			mutate:  func(p *OrderPayload) { p.CustomerName = "" },
			field:   "nombreCliente",
			message: "el nombre del cliente es obligatorio",
		},
		{
			name:    "zero phone contacts",
			mutate:  func(p *OrderPayload) { p.Phones = nil },
			field:   "numerosTelefonicos",
			message: "el pedido debe incluir al menos un número telefónico",
		},
		{
			name: "phone with unknown type",
			mutate: func(p *OrderPayload) {
				p.Phones[0].Type = "celular"
			},
			field:   "numerosTelefonicos",
			message: "el número telefónico 1 tiene un tipo inválido",
		},
		{
			name:    "missing address",
			mutate:  func(p *OrderPayload) { p.Address = "" },
			field:   "direccionDetallada",
			message: "la dirección detallada es obligatoria",
		},
		{
			name:    "unknown shipment type",
			mutate:  func(p *OrderPayload) { p.ShipmentType = "internacional" },
			field:   "tipoEnvio",
			message: "tipo de envío inválido",
		},
		{
			name:    "zero total price",
			mutate:  func(p *OrderPayload) { p.TotalPrice = 0 },
			field:   "precioTotal",
			message: "el precio total debe ser mayor a cero",
		},
		{
			name:    "negative deposit",
			mutate:  func(p *OrderPayload) { p.Deposit = -1 },
			field:   "abonodinero",
			message: "el abono no puede ser negativo",
		},
		{
			name: "deposit exceeds total",
			mutate: func(p *OrderPayload) {
				p.TotalPrice = 100000
				p.Deposit = 120000
			},
			field:   "abonodinero",
			message: "el abono no puede ser mayor al precio total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newTestService(t)

			payload := validPayload()
			tt.mutate(payload)

			_, err := svc.Create(payload, vendedoraAna)
			require.Error(t, err)

			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)

			// Validation precedes persistence: nothing was written.
			var count int64
			db.Model(&models.Order{}).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestCreateIsVendedoraOnly(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(validPayload(), administradora)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Create(validPayload(), sinRol)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetScopesToOwner(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	// Owner sees it.
	got, err := svc.Get(order.ID, vendedoraAna)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, got.Products, 1)
	assert.Len(t, got.Phones, 1)

	// Another vendedora gets NotFound, never Forbidden: existence must
	// not leak.
	_, err = svc.Get(order.ID, vendedoraBeatriz)
	assert.ErrorIs(t, err, ErrNotFound)

	// Administradora sees everything.
	got, err = svc.Get(order.ID, administradora)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Unknown roles are rejected outright.
	_, err = svc.Get(order.ID, sinRol)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetMatchesDisplayNameOwnerKey(t *testing.T) {
	svc, db := newTestService(t)

	// Historical pedido tagged with the display name only.
	legacy := &models.Order{
		CustomerName: "Cliente",
		Address:      "Cra 7 #1-2",
		ShipmentType: models.EnvioNacional,
		TotalPrice:   80000,
		Seller:       "Ana",
		Status:       models.EstadoPendiente,
	}
	require.NoError(t, db.Create(legacy).Error)

	got, err := svc.Get(legacy.ID, vendedoraAna)
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, got.ID)

	_, err = svc.Get(legacy.ID, vendedoraBeatriz)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(uuid.New(), administradora)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.EstadoFabricando, "", vendedoraAna)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusStoresObservationOnDelivery(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	// pendiente -> entregado directly is part of the accepted contract.
	updated, err := svc.UpdateStatus(order.ID, models.EstadoEntregado, "entregado en la puerta", administradora)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoEntregado, updated.Status)
	assert.Equal(t, "entregado en la puerta", updated.Observation)
}

func TestUpdateStatusTerminalLock(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.EstadoEntregado, "", administradora)
	require.NoError(t, err)

	// No transition leaves a terminal state, not even re-setting it.
	for _, target := range models.Estados() {
		_, err = svc.UpdateStatus(order.ID, target, "", administradora)
		require.Error(t, err, "target %s", target)
		_, ok := AsValidationError(err)
		assert.True(t, ok, "target %s: expected ValidationError, got %v", target, err)
	}

	got, err := svc.Get(order.ID, administradora)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoEntregado, got.Status)
}

func TestUpdateStatusIgnoresObservationForNonTerminalTargets(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(order.ID, models.EstadoFabricando, "no debería guardarse", administradora)
	require.NoError(t, err)
	assert.Equal(t, models.EstadoFabricando, updated.Status)
	assert.Empty(t, updated.Observation)
}

func TestUpdateStatusRejectsUnknownTarget(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.Estado("cancelado"), "", administradora)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "estado", ve.Field)
}

func TestUpdateStatusRejectsLongObservation(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	long := make([]rune, 501)
	for i := range long {
		long[i] = 'x'
	}

	_, err = svc.UpdateStatus(order.ID, models.EstadoEntregado, string(long), administradora)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "observacionEntrega", ve.Field)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStatus(uuid.New(), models.EstadoEnviado, "", administradora)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceByOwnerKeepsStateAndCreationTime(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.EstadoFabricando, "", administradora)
	require.NoError(t, err)

	replacement := validPayload()
	replacement.CustomerName = "Carmen Ruiz"
	replacement.TotalPrice = 150000
	replacement.Deposit = 150000
	replacement.Products = []ProductPayload{
		{Name: "Falda plisada", Quantity: 1},
		{Name: "Pañoleta", Quantity: 3},
	}
	replacement.Phones = []PhonePayload{
		{Number: "6015551234", Type: models.TelefonoCasa},
		{Number: "3109876543", Type: models.TelefonoTrabajo},
	}

	updated, err := svc.Replace(order.ID, replacement, vendedoraAna)
	require.NoError(t, err)

	assert.Equal(t, "Carmen Ruiz", updated.CustomerName)
	assert.Equal(t, float64(150000), updated.TotalPrice)
	assert.Len(t, updated.Products, 2)
	assert.Len(t, updated.Phones, 2)

	// Replace never touches the lifecycle or the creation stamp.
	assert.Equal(t, models.EstadoFabricando, updated.Status)
	assert.Equal(t, order.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestReplaceForeignOrderIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	_, err = svc.Replace(order.ID, validPayload(), vendedoraBeatriz)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceValidatesBeforePersisting(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	bad := validPayload()
	bad.Deposit = bad.TotalPrice + 1

	_, err = svc.Replace(order.ID, bad, vendedoraAna)
	_, ok := AsValidationError(err)
	require.True(t, ok)

	got, err := svc.Get(order.ID, vendedoraAna)
	require.NoError(t, err)
	assert.Equal(t, validPayload().CustomerName, got.CustomerName)
}

func TestReplaceTerminalOrderIsRejected(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.EstadoDevolucion, "", administradora)
	require.NoError(t, err)

	_, err = svc.Replace(order.ID, validPayload(), administradora)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "estado", ve.Field)
}

// seedOrders creates n pedidos for the identity with strictly increasing
// creation times so list ordering is deterministic.
func seedOrders(t *testing.T, svc *OrderService, db *gorm.DB, owner Identity, n int, base time.Time) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		payload := validPayload()
		payload.CustomerName = fmt.Sprintf("Cliente %d de %s", i+1, owner.Name)

		order, err := svc.Create(payload, owner)
		require.NoError(t, err)

		stamp := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("fecha_creacion", stamp).Error)

		ids = append(ids, order.ID)
	}
	return ids
}

func TestListPaginatesNewestFirstWithScopedTotal(t *testing.T) {
	svc, db := newTestService(t)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	anaIDs := seedOrders(t, svc, db, vendedoraAna, 25, base)
	seedOrders(t, svc, db, vendedoraBeatriz, 3, base.Add(48*time.Hour))

	// Page 2 of 20 holds Ana's 21st..25th most recent pedidos, and the
	// total is her full scoped count regardless of the page.
	orders, total, err := svc.List(vendedoraAna, 2, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, orders, 5)

	// Newest first: page 2 starts at the 21st most recent, which is the
	// 5th oldest seeded order.
	assert.Equal(t, anaIDs[4], orders[0].ID)
	assert.Equal(t, anaIDs[0], orders[4].ID)

	orders, total, err = svc.List(vendedoraAna, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, orders, 20)
	assert.Equal(t, anaIDs[24], orders[0].ID)
}

func TestListAdminSeesAllOrders(t *testing.T) {
	svc, db := newTestService(t)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	seedOrders(t, svc, db, vendedoraAna, 4, base)
	beatrizIDs := seedOrders(t, svc, db, vendedoraBeatriz, 2, base.Add(24*time.Hour))

	orders, total, err := svc.List(administradora, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, orders, 6)
	assert.Equal(t, beatrizIDs[1], orders[0].ID)
}

func TestListNormalizesPageAndLimit(t *testing.T) {
	svc, db := newTestService(t)

	seedOrders(t, svc, db, vendedoraAna, 3, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))

	orders, total, err := svc.List(vendedoraAna, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, orders, 3)
}

func TestListForbiddenRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.List(sinRol, 1, 20)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListRecentReturnsLastThreeMonths(t *testing.T) {
	svc, db := newTestService(t)

	fresh, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)

	stale, err := svc.Create(validPayload(), vendedoraAna)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", stale.ID).
		Update("fecha_creacion", time.Now().AddDate(0, -5, 0)).Error)

	orders, err := svc.ListRecent(vendedoraAna)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, fresh.ID, orders[0].ID)

	// The administradora scope covers the same window, unfiltered.
	orders, err = svc.ListRecent(administradora)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/yeny-crm/internal/models"
)

const ownerScope = "(vendedora IN ? OR correo_vendedora IN ?)"

// OrderStore is the persistence layer for pedidos. Every method is a
// single-row operation; callers get no cross-operation ordering
// guarantee beyond what the database gives a lone statement.
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore constructs an OrderStore.
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Insert persists a new pedido with its line items and phone contacts.
func (s *OrderStore) Insert(order *models.Order) error {
	return s.db.Create(order).Error
}

// FindByID resolves a pedido by id. Returns (nil, nil) when no row
// matches.
func (s *OrderStore) FindByID(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.preloaded().First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDScoped resolves a pedido by id only if one of ownerKeys
// matches its vendedora or correo_vendedora. Returns (nil, nil) both
// when the pedido does not exist and when it belongs to someone else.
func (s *OrderStore) FindByIDScoped(id uuid.UUID, ownerKeys []string) (*models.Order, error) {
	if len(ownerKeys) == 0 {
		return nil, nil
	}

	var order models.Order
	err := s.preloaded().
		Where("id = ?", id).
		Where(ownerScope, ownerKeys, ownerKeys).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListPage returns one page of pedidos, newest first, plus the total
// count for the same scope. A nil ownerKeys means unscoped (all
// pedidos). Count and fetch are two statements, not a snapshot;
// concurrent writes may skew the total slightly.
func (s *OrderStore) ListPage(ownerKeys []string, skip, limit int) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{})
	if ownerKeys != nil {
		query = query.Where(ownerScope, ownerKeys, ownerKeys)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("Products").Preload("Phones").
		Order("fecha_creacion desc").
		Limit(limit).Offset(skip).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListSince returns all pedidos created at or after since, newest
// first. A nil ownerKeys means unscoped.
func (s *OrderStore) ListSince(ownerKeys []string, since time.Time) ([]models.Order, error) {
	query := s.preloaded().Where("fecha_creacion >= ?", since)
	if ownerKeys != nil {
		query = query.Where(ownerScope, ownerKeys, ownerKeys)
	}

	var orders []models.Order
	if err := query.Order("fecha_creacion desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the estado of a pedido, and the delivery observation
// when withObservation is true. Returns (nil, nil) when the id does not
// resolve.
func (s *OrderStore) UpdateStatus(id uuid.UUID, estado models.Estado, observation string, withObservation bool) (*models.Order, error) {
	fields := map[string]any{"estado": estado}
	if withObservation {
		fields["observacion_entrega"] = observation
	}

	result := s.db.Model(&models.Order{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return s.FindByID(id)
}

// Replace overwrites the mutable fields of a pedido, including its line
// items and phone contacts. The order passed in must be a loaded record
// with the replacement associations already assigned.
func (s *OrderStore) Replace(order *models.Order) (*models.Order, error) {
	if err := s.db.Where("order_id = ?", order.ID).Delete(&models.OrderProduct{}).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("order_id = ?", order.ID).Delete(&models.PhoneContact{}).Error; err != nil {
		return nil, err
	}
	if err := s.db.Save(order).Error; err != nil {
		return nil, err
	}
	return s.FindByID(order.ID)
}

func (s *OrderStore) preloaded() *gorm.DB {
	return s.db.Preload("Products").Preload("Phones")
}

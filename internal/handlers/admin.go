package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/yeny-crm/internal/middleware"
	"github.com/example/yeny-crm/internal/models"
	"github.com/example/yeny-crm/internal/services"
	"github.com/example/yeny-crm/internal/utils"
)

// AdminHandler manages the administradora-only user endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

func requireAdmin(c *fiber.Ctx) (services.Identity, error) {
	identity, ok := middleware.GetCurrentIdentity(c)
	if !ok {
		return services.Identity{}, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if identity.Role != models.RoleAdministradora {
		return services.Identity{}, fiber.NewError(fiber.StatusForbidden, "No tienes permisos para acceder a esta información")
	}
	return identity, nil
}

// ListUsers returns every account. The password hash is excluded both by
// the column selection and by the model's JSON tags.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	var users []models.User
	if err := h.db.
		Select("id, name, email, role, is_active, last_login_at, created_at, updated_at").
		Order("created_at desc").
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"usuarios": users,
	})
}

type createUserRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser lets an administradora create an account with either role.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Nombre == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Todos los campos son requeridos")
	}

	role := models.Role(req.Role)
	if !role.IsValid() {
		return fiber.NewError(fiber.StatusBadRequest, "Rol inválido")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "El email ya está registrado")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:         req.Nombre,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuario creado exitosamente",
		"usuario": user,
	})
}

// DeleteUser hard-deletes an account. An administradora can never delete
// her own account.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	identity, err := requireAdmin(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID de usuario inválido")
	}

	if id == identity.UserID {
		return fiber.NewError(fiber.StatusBadRequest, "No puedes eliminarte a ti mismo")
	}

	result := h.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Usuario eliminado exitosamente",
	})
}

type toggleActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// ToggleUserActive flips the active flag that gates vendedora logins.
func (h *AdminHandler) ToggleUserActive(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID de usuario inválido")
	}

	var req toggleActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result := h.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", req.IsActive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Usuario no encontrado")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Estado del usuario actualizado",
	})
}

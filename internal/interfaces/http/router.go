package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Roles con acceso a la integración contable.
const (
	RoleAdmin  = "admin"
	RoleOffice = "buero"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SyncRunner         SyncRunner
	AccountingSettings repository.AccountingSettingsRepository
	JWTSecret          string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Contabilidad: disparo y estado para admin y oficina; la API key solo admin.
	acc := protected.Group("/accounting")
	h := NewAccountingHandler(deps.SyncRunner, deps.AccountingSettings)
	acc.Post("/sync", RequireRole(RoleAdmin, RoleOffice), h.TriggerSync)
	acc.Get("/sync", RequireRole(RoleAdmin, RoleOffice), h.SyncStatus)
	acc.Get("/settings", RequireRole(RoleAdmin), h.GetSettings)
	acc.Put("/settings", RequireRole(RoleAdmin), h.SaveSettings)
}

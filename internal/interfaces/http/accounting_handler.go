package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/accounting"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// SyncRunner contrato mínimo del handler sobre *accounting.Runner.
type SyncRunner interface {
	Run(ctx context.Context) (*accounting.Report, error)
	Start() error
	Status() (running bool, startedAt time.Time, last *accounting.RunState)
}

// AccountingHandler endpoints de sincronización con el sistema contable.
type AccountingHandler struct {
	runner   SyncRunner
	settings repository.AccountingSettingsRepository
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(runner SyncRunner, settings repository.AccountingSettingsRepository) *AccountingHandler {
	return &AccountingHandler{runner: runner, settings: settings}
}

// TriggerSync godoc
// @Summary      Lanzar sincronización contable
// @Description  Importa contactos, exporta clientes nuevos e importa facturas con su PDF.
//               Por defecto responde 202 y sigue en segundo plano; con wait=true espera el resultado.
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Param        wait  query  bool  false  "Esperar a que termine la sincronización"
// @Success      200   {object}  dto.SyncStatusResponse
// @Success      202   {object}  dto.MessageResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/accounting/sync [post]
func (h *AccountingHandler) TriggerSync(c *fiber.Ctx) error {
	// La credencial se comprueba aquí para que el 412 llegue también en modo asíncrono.
	s, err := h.settings.Get(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if !s.HasCredential() {
		return accountingError(c, domain.ErrAccountingNotConfigured)
	}

	if c.QueryBool("wait", false) {
		report, err := h.runner.Run(c.UserContext())
		if err != nil {
			return accountingError(c, err)
		}
		return c.JSON(reportResponse(report))
	}

	if err := h.runner.Start(); err != nil {
		return accountingError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{Message: "sincronización iniciada"})
}

// SyncStatus godoc
// @Summary      Estado de la sincronización contable
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/accounting/sync [get]
func (h *AccountingHandler) SyncStatus(c *fiber.Ctx) error {
	running, startedAt, last := h.runner.Status()

	out := dto.SyncStatusResponse{Running: running}
	if running {
		out.StartedAt = timePtr(startedAt)
	}
	if last != nil && !running {
		out = reportResponse(last.Report)
		out.StartedAt = timePtr(last.StartedAt)
		out.FinishedAt = timePtr(last.FinishedAt)
		if last.Err != nil {
			out.Error = last.Err.Error()
		}
	}

	s, err := h.settings.Get(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if s != nil {
		out.LastSyncAt = s.LastSyncAt
	}
	return c.JSON(out)
}

// GetSettings godoc
// @Summary      Configuración contable (sin exponer la API key)
// @Tags         accounting
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AccountingSettingsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/accounting/settings [get]
func (h *AccountingHandler) GetSettings(c *fiber.Ctx) error {
	s, err := h.settings.Get(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.AccountingSettingsResponse{Configured: s.HasCredential()}
	if s != nil {
		out.LastSyncAt = s.LastSyncAt
	}
	return c.JSON(out)
}

// SaveSettings godoc
// @Summary      Guardar la API key del sistema contable
// @Tags         accounting
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveAccountingSettingsRequest  true  "api_key"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/accounting/settings [put]
func (h *AccountingHandler) SaveSettings(c *fiber.Ctx) error {
	var in dto.SaveAccountingSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	key := strings.TrimSpace(in.APIKey)
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "api_key es requerido"})
	}
	if err := h.settings.SaveAPIKey(c.UserContext(), key); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "configuración guardada"})
}

func accountingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountingNotConfigured):
		return c.Status(fiber.StatusPreconditionFailed).JSON(dto.ErrorResponse{Code: "ACCOUNTING_NOT_CONFIGURED", Message: "no hay API key del sistema contable configurada"})
	case errors.Is(err, domain.ErrSyncInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: "ya hay una sincronización en curso"})
	case errors.Is(err, domain.ErrAccountingUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ACCOUNTING_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la sincronización superó el tiempo máximo"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func reportResponse(r *accounting.Report) dto.SyncStatusResponse {
	if r == nil {
		return dto.SyncStatusResponse{}
	}
	s := r.Summary
	out := dto.SyncStatusResponse{
		StartedAt:  timePtr(r.StartedAt),
		FinishedAt: timePtr(r.FinishedAt),
		Summary:    s.String(),
		Counts: &dto.SyncCounts{
			SyncedCount:            s.SyncedCount,
			UpdatedCount:           s.UpdatedCount,
			ExportedCount:          s.ExportedCount,
			InvoiceDocumentsSynced: s.InvoiceDocumentsSynced,
			DocumentsDownloaded:    s.DocumentsDownloaded,
			FailedCount:            r.FailedCount(),
		},
	}
	if r.VoucherListErr != nil {
		out.Error = r.VoucherListErr.Error()
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

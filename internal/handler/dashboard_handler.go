package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/compensation_dashboard/internal/domain"
	"github.com/locvowork/compensation_dashboard/internal/service"
	"github.com/locvowork/compensation_dashboard/internal/service/serviceutils"
)

type DashboardHandler struct {
	svc            *service.DashboardService
	missingMessage string
}

// NewDashboardHandler serves the dashboard API. missingMessage is shown while no dataset is loaded.
func NewDashboardHandler(svc *service.DashboardService, missingMessage string) *DashboardHandler {
	return &DashboardHandler{svc: svc, missingMessage: missingMessage}
}

// fail maps service errors onto HTTP statuses.
func (h *DashboardHandler) fail(c echo.Context, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoData):
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, h.missingMessage, err)
	case service.IsClientError(err):
		return serviceutils.ResponseError(c, http.StatusBadRequest, message, err)
	}
	return serviceutils.ResponseError(c, http.StatusInternalServerError, message, err)
}

func (h *DashboardHandler) OptionsHandler(c echo.Context) error {
	year, err := parseYear(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid year", err)
	}

	opts, err := h.svc.Options(c.Request().Context(), year)
	if err != nil {
		return h.fail(c, "Failed to load filter options", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Filter options retrieved successfully", opts)
}

func (h *DashboardHandler) DashboardHandler(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid filter", err)
	}

	d, err := h.svc.Dashboard(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, "Failed to compute dashboard", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dashboard computed successfully", d)
}

func (h *DashboardHandler) EmployeesHandler(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid filter", err)
	}

	view, err := h.svc.Employees(c.Request().Context(), q)
	if err != nil {
		return h.fail(c, "Failed to list employees", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, fmt.Sprintf("Showing %d employees", view.Len()), EmployeesResponse{
		Year:    view.Year,
		Count:   view.Len(),
		Columns: view.Columns,
		Records: view.Records,
	})
}

func (h *DashboardHandler) PayBandsHandler(c echo.Context) error {
	year, err := parseYear(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid year", err)
	}

	bands, err := h.svc.PayBands(c.Request().Context(), year)
	if err != nil {
		return h.fail(c, "Failed to load pay bands", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Pay bands retrieved successfully", bands)
}

func (h *DashboardHandler) ExportHandler(c echo.Context) error {
	q, err := parseQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid filter", err)
	}
	selected, err := parseSelected(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid selection", err)
	}

	file, err := h.svc.Export(c.Request().Context(), q, selected, c.QueryParam("format"))
	if err != nil {
		return h.fail(c, "Failed to export data", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", file.Name))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}

// HealthHandler reports whether the dataset is loaded. It stays 200 either way so the
// process is not restarted for a missing workbook.
func (h *DashboardHandler) HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"dataset": h.svc.Available(),
	})
}

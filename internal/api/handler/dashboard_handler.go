package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sxc/scholarhub/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Student handles GET /dashboard/student.
//
// @Summary      Student dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  studentDashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /dashboard/student [get]
func (h *DashboardHandler) Student(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	d, err := h.service.Student(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentDashboardResponse{
		TotalDownloads:      d.TotalDownloads,
		RecentResources:     orEmpty(d.RecentResources),
		BookmarkedResources: orEmpty(d.BookmarkedResources),
		TrendingResources:   orEmpty(d.TrendingResources),
	})
}

// Admin handles GET /dashboard/admin.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminDashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	d, err := h.service.Admin(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminDashboardResponse{
		TotalUploads:    d.TotalUploads,
		RecentUploads:   orEmpty(d.RecentUploads),
		PendingRequests: orEmpty(d.PendingRequests),
	})
}

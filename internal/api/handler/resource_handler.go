package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sxc/scholarhub/internal/core/domain"
	"github.com/sxc/scholarhub/internal/core/ports"
)

const fallbackContentType = "application/octet-stream"

// ResourceHandler handles HTTP requests for resource operations.
type ResourceHandler struct {
	service ports.ResourceService
	log     zerolog.Logger
}

func NewResourceHandler(service ports.ResourceService, log zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{service: service, log: log}
}

// List handles GET /resources.
//
// @Summary      List recent resources
// @Tags         resources
// @Produce      json
// @Success      200  {array}   domain.Resource
// @Failure      500  {object}  errorResponse
// @Router       /resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	resources, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orEmpty(resources))
}

// Search handles GET /search. All query parameters are optional and ANDed.
//
// @Summary      Search resources
// @Tags         resources
// @Produce      json
// @Param        q           query     string  false  "Text matched against title, description and subject"
// @Param        department  query     string  false  "Exact department"
// @Param        year        query     string  false  "Exact year"
// @Param        type        query     string  false  "Exact resource type"
// @Success      200         {array}   domain.Resource
// @Failure      500         {object}  errorResponse
// @Router       /search [get]
func (h *ResourceHandler) Search(c echo.Context) error {
	var q searchQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid search query")
	}

	resources, err := h.service.Search(c.Request().Context(), ports.ResourceFilter{
		Text:       q.Q,
		Department: q.Department,
		Year:       q.Year,
		Type:       q.Type,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orEmpty(resources))
}

// Get handles GET /resources/:id.
//
// @Summary      Get a resource
// @Tags         resources
// @Produce      json
// @Param        id   path      string  true  "Resource id"
// @Success      200  {object}  domain.Resource
// @Failure      404  {object}  errorResponse
// @Router       /resources/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	resource, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// Create handles POST /resources.
//
// @Summary      Upload a resource
// @Description  Exactly one of fileContent (data URL or base64) and gdriveLink must be set.
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createResourceRequest  true  "Resource metadata and payload"
// @Success      200   {object}  createResourceResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req createResourceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), user, ports.CreateResourceInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Department:  req.Department,
		Year:        req.Year,
		Semester:    req.Semester,
		Type:        req.Type,
		FileContent: req.FileContent,
		FileName:    req.FileName,
		FileType:    req.FileType,
		GDriveLink:  req.GDriveLink,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createResourceResponse{
		Message: "Resource uploaded successfully",
		ID:      id,
	})
}

// Update handles PATCH /resources/:id. Only editable fields are applied;
// anything else in the body is ignored.
//
// @Summary      Edit a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Resource id"
// @Param        body  body      domain.ResourcePatch  true  "Fields to change"
// @Success      200   {object}  domain.Resource
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /resources/{id} [patch]
func (h *ResourceHandler) Update(c echo.Context) error {
	var patch domain.ResourcePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	resource, err := h.service.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// Delete handles DELETE /resources/:id.
//
// @Summary      Delete a resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /resources/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Resource deleted successfully"})
}

// Download handles GET /resources/:id/download. Errors on this route are
// plain text, not the JSON envelope.
//
// @Summary      Download a resource file
// @Tags         resources
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource id"
// @Success      200  {file}    binary
// @Failure      404  {string}  string
// @Failure      500  {string}  string
// @Router       /resources/{id}/download [get]
func (h *ResourceHandler) Download(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	resource, err := h.service.Download(c.Request().Context(), user, c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrResourceNotFound):
		return c.String(http.StatusNotFound, "Resource not found")
	case errors.Is(err, domain.ErrNoFileContent):
		return c.String(http.StatusNotFound, "No file available for download")
	case err != nil:
		h.log.Error().Err(err).Str("resource_id", c.Param("id")).Msg("download failed")
		return c.String(http.StatusInternalServerError, "Internal server error")
	}

	contentType := resource.FileType
	if contentType == "" {
		contentType = fallbackContentType
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", resource.FileName))
	return c.Blob(http.StatusOK, contentType, resource.FileContent)
}

// ToggleBookmark handles POST /resources/:id/bookmark.
//
// @Summary      Toggle a bookmark
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Resource id"
// @Success      200  {object}  bookmarkResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /resources/{id}/bookmark [post]
func (h *ResourceHandler) ToggleBookmark(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	bookmarked, err := h.service.ToggleBookmark(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	msg := "Bookmark removed"
	if bookmarked {
		msg = "Resource bookmarked"
	}
	return c.JSON(http.StatusOK, bookmarkResponse{IsBookmarked: bookmarked, Message: msg})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mybnb/service-booking/internal/application"
	"github.com/mybnb/service-booking/internal/auth"
	"github.com/mybnb/service-booking/internal/middleware"
	"github.com/mybnb/service-booking/internal/response"
)

// FavoriteHandler handles HTTP requests for saved listings.
type FavoriteHandler struct {
	service *application.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(service *application.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// RegisterRoutes registers all favorite routes on the given router group.
func (h *FavoriteHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager, cookieName string) {
	favorites := r.Group("/api/v1/favorites")
	favorites.Use(middleware.AuthMiddleware(jwtManager, cookieName))
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("/:listingId", h.AddFavorite)
		favorites.DELETE("/:listingId", h.RemoveFavorite)
	}
}

// ListFavorites handles GET /api/v1/favorites.
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.service.GuestFavorites(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddFavorite handles POST /api/v1/favorites/:listingId.
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	if err := h.service.AddFavorite(c.Request.Context(), userID, listingID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"saved": true})
}

// RemoveFavorite handles DELETE /api/v1/favorites/:listingId.
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, err := uuid.Parse(c.Param("listingId"))
	if err != nil {
		response.BadRequest(c, "invalid listing ID")
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), userID, listingID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"saved": false})
}

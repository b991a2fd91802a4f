package user

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/pkg"
)

const failedFetchUsers = "Failed to fetch users"

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Search handles GET /api/users?name=.
// It responds with a bare JSON array of {id, name}, or 500 with
// {"error": "Failed to fetch users"}.
func (h *UserHandler) Search(c *gin.Context) {
	var q SearchUsersQuery
	if !pkg.BindQuery(c, &q) {
		return
	}

	users, err := h.svc.SearchUsers(c.Request.Context(), q.Name)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "search users failed",
			"name", q.Name,
			"error", err,
		)
		pkg.Fail(c, http.StatusInternalServerError, failedFetchUsers)
		return
	}

	c.JSON(http.StatusOK, users)
}

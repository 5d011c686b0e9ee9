package handlers

import (
	"net/http"
	"strconv"

	"resto_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam parses the :id path parameter, responding with 400 on
// failure. The boolean reports whether parsing succeeded.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return 0, false
	}
	return id, true
}

// currentUserID reads the authenticated user ID set by AuthMiddleware.
// Returns nil when the route is reachable without authentication.
func currentUserID(c *gin.Context) *int64 {
	v, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := v.(int64)
	if !ok {
		return nil
	}
	return &id
}

// queryInt64Ptr parses an optional int64 query parameter.
func queryInt64Ptr(c *gin.Context, name string) *int64 {
	s := c.Query(name)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// queryIntPtr parses an optional int query parameter.
func queryIntPtr(c *gin.Context, name string) *int {
	s := c.Query(name)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// queryStringPtr returns a pointer to a non-empty query parameter.
func queryStringPtr(c *gin.Context, name string) *string {
	s := c.Query(name)
	if s == "" {
		return nil
	}
	return &s
}

func respondInternal(c *gin.Context, message string) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, message, "Internal error"))
}

func respondNotFound(c *gin.Context, message string, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, message, err.Error()))
}

func respondConflict(c *gin.Context, message string, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, message, err.Error()))
}

func respondBadRequest(c *gin.Context, message string, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, message, err.Error()))
}

// Package handler holds the HTTP controllers. Every controller turns the
// request into a command or query and hands it to the dispatcher.
package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/middleware"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/api/respond"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
)

const dateLayout = "2006-01-02"

// reply dispatches req and writes its result with status.
func reply[Res any](c *gin.Context, d *dispatch.Dispatcher, status int, req dispatch.Request) {
	res, err := dispatch.Send[Res](c.Request.Context(), d, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(status, res)
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respond.Error(c, apperror.NewBadRequest("%s must be a positive integer", name).WithCode("VALIDATION_ERROR"))
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respond.Error(c, respond.BindError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, v any) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		respond.Error(c, respond.BindError(err))
		return false
	}
	return true
}

// dateQuery parses an optional YYYY-MM-DD query parameter. Missing means zero.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		respond.Error(c, apperror.NewBadRequest("%s must use the format YYYY-MM-DD", name).WithCode("VALIDATION_ERROR"))
		return time.Time{}, false
	}
	return t, true
}

// operatorOrCaller defaults a missing operator id to the authenticated user.
func operatorOrCaller(c *gin.Context, id int) int {
	if id > 0 {
		return id
	}
	return middleware.UserID(c)
}

package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/gin-gonic/gin"
)

// bindOptionalJSON decodes the body into dst; an empty body leaves dst as is.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return invalidInput("malformed JSON body: " + err.Error())
	}
	return nil
}

func (a *api) buildPlan(c *gin.Context) {
	var req contract.BuildPlanRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		a.writeError(c, err)
		return
	}
	resp, err := a.Recovery.BuildPlan(c.Request.Context(), userID(c), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a *api) buildManualPlan(c *gin.Context) {
	var req contract.BuildPlanRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		a.writeError(c, err)
		return
	}
	resp, err := a.Recovery.BuildManualPlan(c.Request.Context(), userID(c), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a *api) applyPlan(c *gin.Context) {
	var req contract.ApplyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.writeError(c, invalidInput("malformed JSON body: "+err.Error()))
		return
	}
	resp, err := a.Recovery.ApplyPlan(c.Request.Context(), userID(c), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *api) getPlan(c *gin.Context) {
	resp, err := a.Recovery.GetPlan(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

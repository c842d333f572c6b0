package api

import (
	"errors"
	"fmt"

	"riskbatch/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (m ApiHandler) batchStatus(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid run id: %w", err), c, 400)
		return
	}

	state, err := m.Tracker.GetRun(runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			returnErrorJsonCode(err, c, 404)
			return
		}
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, state)
}

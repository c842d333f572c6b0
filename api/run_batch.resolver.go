package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"riskbatch/internal/domain"
	"riskbatch/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type runBatchRequest struct {
	JobType string  `json:"jobType"`
	Date    *string `json:"date"`
}

type runBatchResponse struct {
	RunID string `json:"runId"`
}

func (m ApiHandler) runBatch(c *gin.Context) {
	var requestBody runBatchRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJson(err, c)
		return
	}

	date := util.TruncateToDay(time.Now().UTC())
	if requestBody.Date != nil {
		parsed, err := time.Parse(time.DateOnly, *requestBody.Date)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid date %q: %w", *requestBody.Date, err), c, 400)
			return
		}
		date = parsed
	}

	jobType := domain.JobType(requestBody.JobType)
	if jobType == "" {
		jobType = domain.JobTypeDailyRisk
	}

	var runID uuid.UUID
	var err error
	switch jobType {
	case domain.JobTypeDailyRisk:
		// the run outlives the request, so it gets its own context
		runID, err = m.Orchestrator.StartDailyBatchAsync(context.Background(), date)
	case domain.JobTypePriceBackfill:
		runID, err = m.Orchestrator.StartPriceBackfillAsync(context.Background(), date)
	default:
		returnErrorJsonCode(fmt.Errorf("unknown job type %q", requestBody.JobType), c, 400)
		return
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRun) {
			returnErrorJsonCode(err, c, 409)
			return
		}
		if errors.Is(err, domain.ErrMissingConfig) {
			returnErrorJsonCode(err, c, 422)
			return
		}
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, runBatchResponse{RunID: runID.String()})
}

package api

import (
	"database/sql"
	"fmt"

	"riskbatch/internal/app"
	"riskbatch/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ApiHandler struct {
	Db           *sql.DB
	Orchestrator *app.BatchOrchestrator
	Tracker      *app.RunTracker
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "riskbatch"})
	})
	router.POST("/runBatch", m.runBatch)
	router.GET("/batchStatus/:runId", m.batchStatus)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	logger.Error(err)
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.Error(err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

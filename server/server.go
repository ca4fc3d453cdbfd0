// Package server exposes the node's latest readings, forecast and live feed
// over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Uranury/sensornode/collector"
)

// SensorInfo describes one registered sensor for /api/sensors.
type SensorInfo struct {
	GroupID         uint8   `json:"group_id"`
	SensorID        uint8   `json:"sensor_id"`
	Kind            string  `json:"kind"`
	Device          string  `json:"device,omitempty"`
	Threshold       float64 `json:"threshold"`
	ReadingInterval uint8   `json:"reading_interval_s"`
	ForcedInterval  uint8   `json:"forced_interval"`
}

// New returns the router. sensors is fixed at startup since the registry
// never changes after setup.
func New(latest *collector.Latest, hub *collector.Hub, sensors []SensorInfo) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	started := time.Now()
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(started).Round(time.Second).String(),
			"clients": hub.Clients(),
		})
	})

	api := r.Group("/api")
	api.GET("/sensors", func(c *gin.Context) {
		c.JSON(http.StatusOK, sensors)
	})
	api.GET("/readings", func(c *gin.Context) {
		c.JSON(http.StatusOK, latest.Readings())
	})
	api.GET("/forecast", func(c *gin.Context) {
		trend, ok := latest.Trend()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pressure samples yet"})
			return
		}
		c.JSON(http.StatusOK, trend)
	})

	r.GET("/ws", hub.Handle)
	return r
}

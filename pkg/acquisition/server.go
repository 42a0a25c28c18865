package acquisition

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"dass/pkg/apis/response"
	"dass/pkg/runtime"
	"dass/pkg/runtime/constant"
	"dass/pkg/transport"
	v1 "dass/pkg/v1"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

func InstallHandler(group *gin.RouterGroup, mgr *Manager) {
	group.GET("/ports", listPorts(mgr))
	group.POST("/connection", connect(mgr))
	group.GET("/connection", connectionStatus(mgr))
	group.DELETE("/connection", disconnect(mgr))
	group.GET("/scanplan", getScanPlan(mgr))
	group.PUT("/scanplan", replaceScanPlan(mgr))
	group.GET("/channels", listChannels(mgr))
	group.PUT("/channels/:index", updateChannel(mgr))
	group.GET("/channels/:index/series", channelSeries(mgr))
	group.POST("/session", startSession(mgr))
	group.GET("/session", sessionStatus(mgr))
	group.DELETE("/session", stopSession(mgr))
	group.GET("/latest", latestTick(mgr))
}

func listPorts(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &runtime.ResponseModel{Ports: mgr.ListPorts()})
	}
}

func connect(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer c.Request.Body.Close()

		var req v1.ConnectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			klog.V(2).InfoS("Failed to parse connect request", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		if err := mgr.Connect(&req); err != nil {
			var connErr *transport.ConnectionError
			switch {
			case errors.Is(err, constant.ErrConnected):
				c.JSON(http.StatusConflict, response.NewMultiError(response.ErrAlreadyConnected))
			case errors.Is(err, constant.ErrTransportType):
				c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrTransportType(req.TransportType)))
			case errors.As(err, &connErr):
				c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrConnectFailed(connErr.Endpoint, connErr.Cause)))
			default:
				c.Status(http.StatusInternalServerError)
			}
			return
		}

		c.JSON(http.StatusCreated, mgr.ConnectionStatus())
	}
}

func connectionStatus(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.ConnectionStatus())
	}
}

func disconnect(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr.Disconnect()
		c.JSON(http.StatusOK, mgr.ConnectionStatus())
	}
}

func getScanPlan(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &v1.ScanPlan{Bindings: toV1Bindings(mgr.ScanPlan())})
	}
}

func replaceScanPlan(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer c.Request.Body.Close()

		var plan v1.ScanPlan
		if err := c.ShouldBindJSON(&plan); err != nil {
			klog.V(2).InfoS("Failed to parse scan plan", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		if err := mgr.SetScanPlan(toBindings(plan.Bindings)); err != nil {
			if errors.Is(err, constant.ErrSessionRunning) {
				c.JSON(http.StatusConflict, response.NewMultiError(response.ErrSessionRunning))
			} else {
				c.JSON(http.StatusBadRequest, response.NewMultiError(err))
			}
			return
		}

		c.JSON(http.StatusOK, &v1.ScanPlan{Bindings: toV1Bindings(mgr.ScanPlan())})
	}
}

func listChannels(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &runtime.ResponseModel{Channels: mgr.Channels()})
	}
}

func updateChannel(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer c.Request.Body.Close()

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrRequestBody))
			return
		}

		var settings v1.ChannelSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			klog.V(2).InfoS("Failed to parse channel settings", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		updated, err := mgr.UpdateChannel(index, &settings)
		if err != nil {
			if errors.Is(err, constant.ErrNoSuchChannel) {
				c.JSON(http.StatusNotFound, response.NewMultiError(response.ErrChannelIndex(index)))
			} else {
				c.JSON(http.StatusBadRequest, response.NewMultiError(err))
			}
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func channelSeries(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrRequestBody))
			return
		}

		values, err := mgr.BufferSnapshot(index)
		if err != nil {
			c.JSON(http.StatusNotFound, response.NewMultiError(response.ErrChannelIndex(index)))
			return
		}

		c.JSON(http.StatusOK, &runtime.ResponseModel{Series: values})
	}
}

func startSession(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer c.Request.Body.Close()

		var req v1.StartRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			klog.V(2).InfoS("Failed to parse start request", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		status, err := mgr.Start(req.LogFileStem)
		if err != nil {
			if errors.Is(err, constant.ErrAlreadyRunning) {
				c.JSON(http.StatusConflict, response.NewMultiError(response.ErrSessionRunning))
			} else {
				klog.V(2).InfoS("Failed to start session", "err", err)
				c.Status(http.StatusInternalServerError)
			}
			return
		}

		c.JSON(http.StatusCreated, status)
	}
}

func sessionStatus(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.Status())
	}
}

func stopSession(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		mgr.Stop()
		c.JSON(http.StatusOK, mgr.Status())
	}
}

func latestTick(mgr *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &runtime.ResponseModel{Values: mgr.LatestTick()})
	}
}

func toBindings(in []*v1.Binding) []runtime.Binding {
	out := make([]runtime.Binding, 0, len(in))
	for _, b := range in {
		if b == nil {
			continue
		}
		binding := runtime.Binding{
			Name:     b.Name,
			SlaveID:  b.SlaveID,
			DataType: b.DataType,
		}
		if b.Address != nil {
			binding.Address = uint16(*b.Address)
		}
		out = append(out, binding)
	}
	return out
}

func toV1Bindings(in []runtime.Binding) []*v1.Binding {
	out := make([]*v1.Binding, 0, len(in))
	for i := range in {
		address := uint(in[i].Address)
		out = append(out, &v1.Binding{
			Name:     in[i].Name,
			SlaveID:  in[i].SlaveID,
			Address:  &address,
			DataType: in[i].DataType,
		})
	}
	return out
}

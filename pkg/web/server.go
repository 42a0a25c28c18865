package web

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"

	"dass/cmd/dass/config"
	"dass/cmd/dass/options"
	"dass/pkg/acquisition"
	"dass/pkg/apis"
	"dass/pkg/apis/response"
	"dass/pkg/generic"
	"dass/pkg/journal"
	"dass/pkg/profile"
	"dass/pkg/runtime"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

type Server struct {
	*generic.Server
	*config.Config
}

func NewServer(router *gin.Engine, o *options.Options, config *config.Config) (*Server, error) {
	s := &generic.Server{
		Router: router,
		Port:   o.Port,
	}

	server := &Server{
		Server: s,
		Config: config,
	}

	server.InstallHandlers()

	return server, nil
}

func (s *Server) InstallHandlers() {
	v1 := s.Router.Group("/api/v1")
	acquisition.InstallHandler(v1, s.Config.SessionMgr)
	profile.InstallHandler(v1, s.Config.ProfileMgr)
	v1.GET("/events", listEvents(s.Config.Journal))
	v1.GET("/system", getSystemInfo(s.Config.LogDir))
}

func (s *Server) Serve() (func(ctx context.Context), error) {
	var srv *http.Server
	if len(s.Config.CertFile) != 0 && len(s.Config.KeyFile) != 0 {
		x509KeyPair, err := tls.LoadX509KeyPair(s.Config.CertFile, s.Config.KeyFile)
		if err != nil {
			return nil, err
		}
		c := &tls.Config{
			Certificates: []tls.Certificate{x509KeyPair},
		}

		srv = &http.Server{
			Addr:      fmt.Sprintf(":%s", s.Port),
			Handler:   s.Router,
			TLSConfig: c,
		}
		go func() {
			klog.Error(srv.ListenAndServeTLS("", ""))
		}()
	} else {
		srv = &http.Server{
			Addr:    fmt.Sprintf(":%s", s.Port),
			Handler: s.Router,
		}
		go func() {
			klog.Error(srv.ListenAndServe())
		}()
	}

	return func(ctx context.Context) {
		srv.SetKeepAlivesEnabled(false)
		if err := s.Config.SessionMgr.Shutdown(ctx); err != nil {
			klog.Error(err)
		}
		if err := srv.Shutdown(ctx); err != nil {
			klog.Error(err)
		}
	}, nil
}

func listEvents(j *journal.Journal) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v, ok := c.GetQuery(apis.Limit); ok {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrRequestBody))
				return
			}
			limit = parsed
		}
		events, err := j.Recent(limit)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, runtime.ResponseModel{Events: events})
	}
}

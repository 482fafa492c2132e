package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/walker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve walks over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(a),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			a.log.Info("listening", "addr", addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

// walkRequest overrides the loaded preferences for one walk.
type walkRequest struct {
	Start       string   `json:"start" binding:"required"`
	End         string   `json:"end" binding:"required"`
	Algorithm   string   `json:"algorithm" binding:"omitempty,oneof=bfs gbfs"`
	Direction   string   `json:"direction" binding:"omitempty,oneof=uni bi"`
	Heuristics  []string `json:"heuristics" binding:"omitempty,dive,oneof=hamming lcs categories"`
	MaxRequests int      `json:"max_requests" binding:"omitempty,min=1,max=10000"`
}

type walkResponse struct {
	RunID      string   `json:"run_id"`
	Outcome    string   `json:"outcome"`
	Path       []string `json:"path"`
	Meeting    string   `json:"meeting,omitempty"`
	Requests   int64    `json:"requests"`
	Expansions int64    `json:"expansions"`
	DurationMS int64    `json:"duration_ms"`
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/walks", func(c *gin.Context) {
		var req walkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefs, err := req.apply(a.prefs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, err := a.oracle()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		opts := append(walker.FromPreferences(prefs), walker.WithLogger(a.log.Zap()))
		w, err := walker.New(ctx, req.Start, req.End, o, opts...)
		if err != nil {
			var nf *walker.NotFoundError
			if errors.As(err, &nf) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "title": nf.Title})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := w.Walk(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		a.stats.record(req.Start, req.End, prefs, res)

		path := res.Path
		if path == nil {
			path = []string{}
		}
		c.JSON(http.StatusOK, walkResponse{
			RunID:      res.RunID.String(),
			Outcome:    res.Outcome.String(),
			Path:       path,
			Meeting:    res.Meeting,
			Requests:   res.Requests,
			Expansions: res.Expansions,
			DurationMS: res.Duration.Milliseconds(),
		})
	})

	return r
}

// apply returns base with the request's overrides.
func (req walkRequest) apply(base config.Preferences) (config.Preferences, error) {
	p := base
	p.Heuristics = append([]string(nil), base.Heuristics...)
	if req.Algorithm != "" {
		p.Algorithm = req.Algorithm
	}
	if req.Direction != "" {
		p.Direction = req.Direction
	}
	if req.Heuristics != nil {
		p.Heuristics = req.Heuristics
	}
	if req.MaxRequests > 0 {
		p.MaxRequests = req.MaxRequests
	}

	return p, p.Validate()
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var _ Server = (*server)(nil)

type PathAdder interface {
	// AddRoute serves [handler] at /[base][endpoint].
	AddRoute(handler http.Handler, base, endpoint string) error
}

// Server serves the node's HTTP routes.
type Server interface {
	PathAdder
	// Dispatch serves until [Shutdown] is called.
	Dispatch() error
	Shutdown() error
	Addr() net.Addr
}

// HTTPConfig carries the timeouts of the underlying [http.Server].
type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

// Config is everything [New] needs besides the listener.
type Config struct {
	// BaseURL prefixes every route. Empty serves routes from the root.
	BaseURL         string
	HTTP            HTTPConfig
	AllowedOrigins  []string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

type server struct {
	log      logging.Logger
	config   Config
	router   *router
	srv      *http.Server
	listener net.Listener
}

// New wraps the routes with host filtering, CORS and gzip, in that order
// from the inside out, and then with [wrappers].
func New(
	log logging.Logger,
	listener net.Listener,
	config Config,
	wrappers ...Wrapper,
) Server {
	r := newRouter()
	var handler http.Handler = filterInvalidHosts(r, config.AllowedHosts)
	handler = cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowCredentials: true,
	}).Handler(handler)
	handler = gziphandler.GzipHandler(handler)
	for _, wrapper := range wrappers {
		handler = wrapper.WrapHandler(handler)
	}

	log.Info("API created",
		zap.Strings("allowedOrigins", config.AllowedOrigins),
		zap.Strings("allowedHosts", config.AllowedHosts),
	)
	return &server{
		log:    log,
		config: config,
		router: r,
		srv: &http.Server{
			Handler:           handler,
			ReadTimeout:       config.HTTP.ReadTimeout,
			ReadHeaderTimeout: config.HTTP.ReadHeaderTimeout,
			WriteTimeout:      config.HTTP.WriteTimeout,
			IdleTimeout:       config.HTTP.IdleTimeout,
		},
		listener: listener,
	}
}

func (s *server) Dispatch() error {
	s.log.Info("serving API",
		zap.Stringer("address", s.listener.Addr()),
	)
	if err := s.srv.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *server) AddRoute(handler http.Handler, base, endpoint string) error {
	url := fmt.Sprintf("%s/%s", s.config.BaseURL, base)
	s.log.Info("adding route",
		zap.String("url", url),
		zap.String("endpoint", endpoint),
	)
	return s.router.AddRouter(url, endpoint, handler)
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	// Connections still open after the timeout are dropped.
	_ = s.srv.Close()
	return err
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

var (
	errUnknownBaseURL  = errors.New("unknown base url")
	errEndpointExists  = errors.New("endpoint already exists")
	errAlreadyReserved = errors.New("route is reserved")
)

var _ http.Handler = (*router)(nil)

type router struct {
	lock   sync.RWMutex
	router *mux.Router

	reserved map[string]struct{}
	// base url -> endpoint -> handler
	routes map[string]map[string]http.Handler
}

func newRouter() *router {
	return &router{
		router:   mux.NewRouter(),
		reserved: make(map[string]struct{}),
		routes:   make(map[string]map[string]http.Handler),
	}
}

func (r *router) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	r.router.ServeHTTP(writer, request)
}

func (r *router) GetHandler(base, endpoint string) (http.Handler, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	urlBase, exists := r.routes[base]
	if !exists {
		return nil, errUnknownBaseURL
	}
	handler, exists := urlBase[endpoint]
	if !exists {
		return nil, errUnknownBaseURL
	}
	return handler, nil
}

// Reserve prevents [base] from being added later.
func (r *router) Reserve(base string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.reserved[base] = struct{}{}
}

func (r *router) AddRouter(base, endpoint string, handler http.Handler) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.reserved[base]; ok {
		return fmt.Errorf("%w: %s", errAlreadyReserved, base)
	}
	endpoints := r.routes[base]
	if endpoints == nil {
		endpoints = make(map[string]http.Handler)
	}
	url := base + endpoint
	if _, exists := endpoints[endpoint]; exists {
		return fmt.Errorf("%w: %s", errEndpointExists, url)
	}
	endpoints[endpoint] = handler
	r.routes[base] = endpoints
	r.router.Handle(url, handler)
	return nil
}

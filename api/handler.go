// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"net/http"

	"github.com/ava-labs/lbpvm/consts"
	"github.com/ava-labs/lbpvm/server"
)

const (
	Name            = consts.Name
	JSONRPCEndpoint = "/lbpapi"
)

type Handler struct {
	Path    string
	Handler http.Handler
}

// NewHandler serves [s] at [JSONRPCEndpoint].
func NewHandler(s *JSONRPCServer) (Handler, error) {
	h, err := server.NewHandler(s, Name)
	if err != nil {
		return Handler{}, err
	}
	return Handler{Path: JSONRPCEndpoint, Handler: h}, nil
}

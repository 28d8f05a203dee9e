// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package requester

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/lbpvm/server"
)

var errOdd = errors.New("odd value")

type echoService struct{}

type EchoArgs struct {
	Value uint64 `json:"value"`
}

type EchoReply struct {
	Value uint64 `json:"value"`
}

func (*echoService) Echo(_ *http.Request, args *EchoArgs, reply *EchoReply) error {
	if args.Value%2 == 1 {
		return errOdd
	}
	reply.Value = args.Value
	return nil
}

func TestSendRequest(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	h, err := server.NewHandler(&echoService{}, "echo")
	require.NoError(err)
	ts := httptest.NewServer(h)
	defer ts.Close()

	r := New(ts.URL, "echo")
	reply := new(EchoReply)
	require.NoError(r.SendRequest(ctx, "echo", &EchoArgs{Value: 42}, reply))
	require.Equal(uint64(42), reply.Value)

	err = r.SendRequest(ctx, "echo", &EchoArgs{Value: 7}, reply)
	require.ErrorContains(err, errOdd.Error())

	err = New(ts.URL, "missing").SendRequest(ctx, "echo", &EchoArgs{}, reply)
	require.Error(err)
}

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "errors"

var (
	ErrPathTooShort = errors.New("route path needs at least two assets")
	ErrPathTooLong  = errors.New("route path too long")
)

// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import "errors"

var (
	ErrMissingAction = errors.New("missing action")
	ErrActionFailed  = errors.New("action failed")
)

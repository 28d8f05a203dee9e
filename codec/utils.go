// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/lbpvm/consts"

const intLen = 4

func BytesLen(msg []byte) int {
	return intLen + len(msg)
}

func StringLen(msg string) int {
	return consts.Uint16Len + len(msg)
}

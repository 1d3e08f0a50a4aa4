// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/pkg/errors"

// errTooManyTransactions is returned when a decoded block claims more
// transactions than could possibly fit in MaxBlockPayload bytes.
var errTooManyTransactions = errors.New("block transaction count exceeds the maximum possible for the max block payload")

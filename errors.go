// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qcm

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates an iterator has no consumer to yield right now.
//
// ErrWouldBlock is a control flow signal, not a failure. A later traversal
// may observe consumers that became eligible in the meantime.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	it := m.NotifiedIterator()
//	for {
//	    c, err := it.Next()
//	    if qcm.IsWouldBlock(err) {
//	        break // Nothing dispatch-ready
//	    }
//	    deliver(c)
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

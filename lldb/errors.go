// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lldb

import "fmt"

// ErrINVAL reports an invalid argument to a Filer method, carrying the
// offending value alongside a short description of which argument it
// was.
type ErrINVAL struct {
	Arg string
	Val interface{}
}

func (e *ErrINVAL) Error() string {
	return fmt.Sprintf("invalid argument: %s: %v", e.Arg, e.Val)
}

// ErrPERM reports an operation forbidden by a Filer's current state,
// such as Close or EndUpdate while an update is still pending.
type ErrPERM struct {
	Arg string
}

func (e *ErrPERM) Error() string {
	return fmt.Sprintf("operation not permitted: %s", e.Arg)
}

// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package utils holds the small set of invariant-checking panics shared
// across packages, the same role it plays for the teacher's compiler.
package utils

import "fmt"

// Assert panics with a formatted message when cond is false, the shared
// invariant-checking idiom used throughout the compiler.
func Assert(cond bool, format string, msg ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, msg...))
	}
}

// Unimplement marks a reachable-but-unhandled case, e.g. a TokenKind with no
// entry in the name table.
func Unimplement() {
	panic("Not implement yet")
}

// ShouldNotReachHere marks a branch the caller believes is unreachable.
func ShouldNotReachHere() {
	panic("Should not reach here")
}

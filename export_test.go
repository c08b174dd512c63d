// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package ads8681

type BusCloser = busCloser

// SetBusOpener replaces the bus opener used by Open and returns a function
// that restores the original.
func SetBusOpener(f func(Config) (BusCloser, error)) func() {
	old := openBus
	openBus = f
	return func() { openBus = old }
}

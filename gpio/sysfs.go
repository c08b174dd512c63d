// Copyright © 2017 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	// ErrTimeout indicates the exported pin files did not become writable.
	ErrTimeout = errors.New("timeout waiting for export")
)

// Export makes the pin available in sysfs by writing its number to the
// export file.
// Exporting a pin that is already exported is not an error.
func (pin *Pin) Export() error {
	err := writeFile(filepath.Join(pin.root, "export"), strconv.Itoa(pin.pin))
	if errors.Is(err, unix.EBUSY) {
		return nil // EBUSY -> the pin has already been exported
	}
	if err != nil {
		return err
	}
	// wait for pin to be exported on sysfs - udev can take > 100ms to fix
	// the permissions.
	return pin.waitExported()
}

// Unexport removes the pin from sysfs.
func (pin *Pin) Unexport() error {
	return writeFile(filepath.Join(pin.root, "unexport"), strconv.Itoa(pin.pin))
}

func (pin *Pin) path(file string) string {
	return filepath.Join(pin.root, fmt.Sprintf("gpio%d", pin.pin), file)
}

// Wait for the sysfs GPIO files to become writable.
func (pin *Pin) waitExported() error {
	if err := waitWriteable(pin.path("direction")); err != nil {
		return err
	}
	return waitWriteable(pin.path("value"))
}

func waitWriteable(path string) error {
	for try := 0; ; try++ {
		if unix.Access(path, unix.W_OK) == nil {
			return nil
		}
		if try >= 10 {
			return errors.Wrap(ErrTimeout, path)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func writeFile(path, value string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	_, err = file.WriteString(value)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

/*package io contains the configuration files read by the spinfpe command and
the text and image formats it writes.
*/
package io

import (
	"github.com/pkg/errors"
	"gopkg.in/gcfg.v1"
)

// Checker is implemented by every *Config type.
type Checker interface {
	CheckInit() error
}

// ReadConfig reads the gcfg file fname into wrap, which should be created by
// one of the Default*Wrapper functions, and checks con, the config inside
// wrap.
func ReadConfig(fname string, wrap interface{}, con Checker) error {
	if err := gcfg.ReadFileInto(wrap, fname); err != nil {
		return errors.Wrapf(err, "reading config '%s'", fname)
	}
	if err := con.CheckInit(); err != nil {
		return errors.Wrapf(err, "config '%s'", fname)
	}
	return nil
}

// ReadConfigString is ReadConfig for a config held in memory.
func ReadConfigString(text string, wrap interface{}, con Checker) error {
	if err := gcfg.ReadStringInto(wrap, text); err != nil {
		return errors.Wrap(err, "reading config")
	}
	return con.CheckInit()
}

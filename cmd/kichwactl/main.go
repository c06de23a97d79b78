// kichwactl drives the Kichwa learning API from a terminal. Credentials are
// kept in a local BoltDB file, optionally sealed with a passphrase.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("kichwactl failed")
		os.Exit(1)
	}
}

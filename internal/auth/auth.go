// Package auth gates the dashboard behind a launch-time password.
package auth

import (
	"crypto/subtle"
	"errors"
	"os"
)

// EnvPassword names the environment variable holding the dashboard password.
const EnvPassword = "BASEDASH_PASSWORD"

// ErrWrongPassword is returned when the entered password does not match.
var ErrWrongPassword = errors.New("incorrect password")

// Source records where the password came from.
type Source string

// Password sources in precedence order.
const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceConfig Source = "config"
	SourceNone   Source = ""
)

// Gate checks entered passwords against the configured one.
type Gate struct {
	password string
	source   Source
}

// Resolve picks the password from the flag, then the environment, then the
// config file. An empty result leaves the gate disabled.
func Resolve(flag, config string) *Gate {
	return resolve(flag, os.Getenv(EnvPassword), config)
}

func resolve(flag, env, config string) *Gate {
	switch {
	case flag != "":
		return &Gate{password: flag, source: SourceFlag}
	case env != "":
		return &Gate{password: env, source: SourceEnv}
	case config != "":
		return &Gate{password: config, source: SourceConfig}
	default:
		return &Gate{}
	}
}

// Enabled reports whether a password is configured.
func (g *Gate) Enabled() bool {
	return g != nil && g.password != ""
}

// Source reports where the password came from.
func (g *Gate) Source() Source {
	if g == nil {
		return SourceNone
	}
	return g.source
}

// Check compares input to the configured password in constant time.
func (g *Gate) Check(input string) error {
	if !g.Enabled() {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(input), []byte(g.password)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

package fetch

import (
	"fmt"
	"strings"
)

// Environment selects which upstream deployment a client talks to.
type Environment string

const (
	EnvInt  Environment = "int"
	EnvTest Environment = "test"
	EnvLive Environment = "live"
)

// SupportedEnvironments lists the accepted environments in display order.
var SupportedEnvironments = []Environment{EnvInt, EnvTest, EnvLive}

// ParseEnvironment validates an environment name. An empty name means live.
func ParseEnvironment(name string) (Environment, error) {
	if name == "" {
		return EnvLive, nil
	}

	for _, env := range SupportedEnvironments {
		if string(env) == name {
			return env, nil
		}
	}

	names := make([]string, len(SupportedEnvironments))
	for i, env := range SupportedEnvironments {
		names[i] = string(env)
	}

	return "", &ConfigurationError{
		Field: "env",
		Value: name,
		Message: fmt.Sprintf("invalid environment supplied, expected one of %q but got %q",
			strings.Join(names, ", "), name),
	}
}

// IsLive reports whether the environment is production.
func (e Environment) IsLive() bool {
	return e == EnvLive
}

// ValidateCacheTime rejects negative cache time overrides. Nil means
// freshness is derived from response headers.
func ValidateCacheTime(cacheTime *int) error {
	if cacheTime == nil || *cacheTime >= 0 {
		return nil
	}

	return &ConfigurationError{
		Field:   "cacheTime",
		Value:   fmt.Sprint(*cacheTime),
		Message: fmt.Sprintf("invalid cacheTime supplied, expected a positive integer but got \"%d\"", *cacheTime),
	}
}

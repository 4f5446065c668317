package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)
		if len(pair) != 2 {
			continue
		}

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// LookupEnvironmentVariable returns the value of key from env, or fallback when it is unset or empty
func LookupEnvironmentVariable(env map[string]string, key string, fallback string) string {
	if value := env[key]; value != "" {
		return value
	}

	return fallback
}

package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Errors is a list of errors that reports as a single error. Useful for
// collecting every missing environment variable instead of bailing on
// the first one.
type Errors []error

func (e Errors) Error() string {
	messages := []string{}
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, ", ")
}

// Add appends an error to the list if it is non-nil.
func (e *Errors) Add(err error) {
	if err != nil {
		*e = append(*e, err)
	}
}

// RequireEnv retrieves an environment variable, appending an error to
// errs if it is unset.
func RequireEnv(varName string, errs *Errors) string {
	envVar := os.Getenv(varName)
	if len(envVar) == 0 {
		errs.Add(fmt.Errorf("environment variable %s must be set", varName))
	}
	return envVar
}

// ValidPort transforms a port number into a valid input for net.Listen.
func ValidPort(port string) (string, error) {
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("given portstring %s is invalid", port)
	}
	return fmt.Sprintf(":%s", port), nil
}

package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/lifeflow/internal/logger"
	"github.com/julianstephens/lifeflow/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("Error: %v (check the id with the matching list command)", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

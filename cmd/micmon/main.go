package main

import (
	"errors"
	"fmt"
	"os"

	"micmon/internal/adapter/primary/cli"
	"micmon/internal/domain"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps user errors to 1 and OS I/O failures to 2.
func exitCode(err error) int {
	var (
		enumErr    *domain.EnumerationError
		openErr    *domain.StoreOpenError
		ioErr      *domain.PropertyIOError
		partialErr *domain.PartialWriteError
	)
	if errors.As(err, &enumErr) || errors.As(err, &openErr) ||
		errors.As(err, &ioErr) || errors.As(err, &partialErr) {
		return 2
	}
	return 1
}

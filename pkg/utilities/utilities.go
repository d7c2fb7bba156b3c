package utilities

import "proof-inscriber/pkg/logger"

func FailOnError(err error, msg string) {
	if err != nil {
		logger.Default().Fatal(err, msg)
	}
}

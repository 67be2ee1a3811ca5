// Package logging builds the zap logger shared across the transcriptor CLI.
// main starts with a production logger; Setup replaces it when --debug asks
// for development output, and installs the result as the zap global so
// library-level code logs consistently.
package logging

import (
	"go.uber.org/zap"
)

// Logger is the process-wide logger, rebuilt by Setup.
var Logger *zap.Logger

// Setup configures Logger for the requested verbosity and tags every record
// with the application identity.
func Setup(debug bool, appName, appVersion string) error {
	var err error
	var cfg zap.Config

	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	Logger, err = cfg.Build()
	if err != nil {
		Logger = zap.NewExample()
		return err
	}

	zap.ReplaceGlobals(Logger)
	return nil
}

// Package config provides configuration loading, validation, and hot reload
// for the case retention service.
//
// Configuration is loaded from a YAML file with defaults applied for missing
// fields, then overridden by CUSTODIAN_* environment variables, and finally
// validated. The loaded configuration is held in a process-wide singleton
// initialized once at startup.
//
// Basic usage:
//
//	if err := config.Initialize("custodian.yaml"); err != nil {
//		log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// A FileWatcher can be attached to the configuration file to reload the
// retention policy at runtime without restarting the process. Reload failures
// leave the previous configuration in place.
package config

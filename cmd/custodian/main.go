// Custodian is the case retention cleanup service for Pepper.
//
// It sweeps closed legal cases past their retention period, deleting their
// document folders from disk on a cron schedule or on demand through an
// authenticated HTTP API.
//
// Usage:
//
//	# Start the service with default configuration
//	custodian run
//
//	# Start with a custom configuration file
//	custodian run --config /etc/custodian/custodian.yaml
//
//	# Run a single sweep and exit
//	custodian sweep
//
//	# List eligible cases without deleting anything
//	custodian sweep --dry-run
//
//	# Show version information
//	custodian version
package main

func main() {
	Execute()
}

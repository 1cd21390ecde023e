/*
Package cli provides command-line interface utilities for the custodian
command: output formatters for sweep results, signal handling helpers, and
common error types.

Output Formatting:

The cli package supports text and JSON output for displaying command
results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}
*/
package cli

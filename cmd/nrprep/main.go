// Package main provides the entry point for the nrprep CLI.
//
// nrprep prepares New Relic accounts for deletion: exporting managed
// account IDs per region, deleting AI notification destinations and
// channels, deleting alert policies, and granting a temporary admin
// group access to every target account.
//
// Usage:
//
//	nrprep accounts --out ids/
//	nrprep destinations --ids account_ids_us01.csv
//	nrprep channels --ids account_ids_us01.csv
//	nrprep policies --ids account_ids_us01.csv
//	nrprep grants --ids account_ids_us01.csv
//
// See --help for all available options.
package main

// main is the entry point for nrprep.
func main() {
	Execute()
}

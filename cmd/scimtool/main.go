// Package main provides the entry point for the scimtool CLI.
//
// scimtool deletes New Relic users through the SCIM provisioning API and
// filters exported user metadata by account age ahead of bulk deletes.
//
// Usage:
//
//	scimtool delete --csv emails.csv
//	scimtool filter --input users.json --days 30 --output old_users.json
//	scimtool delete --ids old_users.json
//
// See --help for all available options.
package main

// main is the entry point for scimtool.
func main() {
	Execute()
}

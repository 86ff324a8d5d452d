// Package main provides the entry point for the suppress CLI.
//
// suppress manages SendGrid suppression lists across every configured
// account: checking where an address is suppressed and removing it from
// bounces, blocks, spam reports, invalid emails, and the global list.
//
// Usage:
//
//	suppress check <email>
//	suppress sweep --email <email>
//	suppress sweep --csv <file>
//	suppress sweep --domain <domain>
//
// See --help for all available options.
package main

// main is the entry point for suppress.
func main() {
	Execute()
}

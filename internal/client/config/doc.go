// Package config loads runtime configuration for the Loanwise CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path of the local client database
//	-t int      request timeout (seconds)
//	-m float    minimum accepted loan amount
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080/api",
//	  "database_path": "loanwise.db",
//	  "request_timeout": "15s",
//	  "min_loan_amount": 1000
//	}
//
// This package does not read environment variables; use the JSON file or
// flags to configure values.
package config

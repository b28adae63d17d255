// Package config loads, validates and writes the fleetdesk configuration
// file.
//
// The file is YAML with a versioned header:
//
//	apiVersion: fleetdesk.macropower.dev/v1beta1
//	kind: Configuration
//	api:
//	  baseURL: http://localhost:8080
//	ui:
//	  pageSize: 10
//
// It is checked against a JSON schema reflected from [Config] before it is
// decoded, so that errors point at the offending line of the file.
package config

// Package config provides configuration management for rxpool.
//
// # Sources
//
// Values are resolved in this order, later sources winning:
//
//  1. Default(), the built-in defaults
//  2. a YAML file passed to Load, after ${VAR_NAME} substitution
//  3. RXPOOL_* environment variables, with dots in the key replaced by
//     underscores (RXPOOL_POOL_RETRIES, RXPOOL_SCAN_WORKERS, ...)
//
// # File layout
//
//	log:
//	  level: debug
//	  encoding: console
//	pool:
//	  retries: 10
//	regex:
//	  caseless: true
//	  extended: false
//	scan:
//	  workers: 8
//	  max_line_bytes: 1048576
//	  compression: auto
//	metrics:
//	  enabled: true
//	  addr: ${METRICS_ADDR}
//	tracing:
//	  exporter: stdout
//	  sampling_rate: 0.1
//
// Load validates the result; Save writes a Config back as YAML.
package config

// Package config loads the pumpsim configuration from the `pumpsim:`
// section of config.yaml. The simulator can share a config file with
// dripguard-server; each binary reads its own section and ignores the rest.
package config

// Package config holds the synchronization core's tunables and their
// JSON serialization.
//
// Values are loaded leniently: unknown keys are ignored and missing keys
// keep their defaults, so a host can ship a partial configuration file.
package config

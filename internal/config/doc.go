// Package config defines the format-agnostic launch configuration model,
// its defaults and validation, environment overrides, and the Loader
// interface implemented by the file format packages.
//
// The `config.Model` is the single source of truth for the `launch` and
// `diag` packages. Concrete loaders, for HCL and YAML, live in separate
// packages.
package config

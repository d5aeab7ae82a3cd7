// SPDX-License-Identifier: MPL-2.0

// Package config loads docstage configuration from two sources: the required
// process environment variables naming the template project and its output
// directory, and an optional CUE config file (validated against an embedded
// schema) holding the renderer command and UI defaults.
package config

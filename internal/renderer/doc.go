// SPDX-License-Identifier: MPL-2.0

// Package renderer invokes the external rendering tool as a subprocess and
// builds the environment it runs with. The renderer is opaque to docstage:
// its exit code is the only success signal trusted, its stdio is inherited
// directly, and no timeout is imposed on it.
package renderer

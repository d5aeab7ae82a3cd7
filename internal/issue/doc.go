// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting for docstage.
//
// It contains two layers: ActionableError, a structured error type carrying
// the failed operation, the resource involved, and fix suggestions; and a
// small catalog of markdown issue pages rendered with glamour for the fatal
// conditions a user is most likely to hit (missing environment variables,
// staging collisions, renderer failures).
package issue

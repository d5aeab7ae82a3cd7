// SPDX-License-Identifier: MPL-2.0

// Package staging implements the core document-staging workflow: resolving
// resource glob patterns into a deduplicated file set, collision-checking the
// target project directory, copying files in, retrieving the rendered output
// tree, and discharging the cleanup obligation that restores the project
// directory afterwards.
//
// The package is deliberately free of CLI and subprocess concerns; the cmd
// layer composes it with the renderer invoker. All mutations of the project
// directory happen between Plan.Stage and Obligation.Discharge, and Discharge
// is designed to run on every exit path once staging has begun.
package staging

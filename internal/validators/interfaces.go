// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request payloads before they reach storage.
//
// [StructValidator] runs the go-playground rules declared in `validate` struct
// tags and reports failures as a [ValidationError] keyed by JSON field path
// (for example "items[0].quantity").
package validators

import "context"

// Validator validates v. When fields are given, only those struct fields are
// checked.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks protocol requests and catalog records before
// they reach the sync services.
//
// A Validator dispatches on the dynamic type of its input and may be
// restricted to a subset of named fields. Services call it first and wrap
// any failure into their validation error, so transport layers never need
// to know the individual rules.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}

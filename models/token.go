// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Token wraps a JWT issued in exchange for the shared API key.
//
// The subject claim carries the client label supplied at exchange time so
// that log lines of authenticated requests can be attributed to a device.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`
}

// Subject returns the client label stored in the "sub" claim.
func (t *Token) Subject() string {
	sub, err := t.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

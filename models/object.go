// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// BinaryObject describes an image stored in the object store.
// The payload itself is not part of the struct.
type BinaryObject struct {
	Path        string    `json:"path"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Digest      string    `json:"digest"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

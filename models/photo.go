// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Photo is one catalog record. The fixed fields are the schema every
// client agrees on; anything else a client wants to keep goes into Extra.
type Photo struct {
	// ID is assigned by the client and is the join key between catalog,
	// binary objects and verification requests.
	ID string `json:"id"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	FileName    string `json:"fileName,omitempty"`

	// Path locates the binary object in the object store. When empty the
	// object is looked up by the id based naming convention.
	Path string `json:"path,omitempty"`

	MediaType string     `json:"mediaType,omitempty"`
	Width     int        `json:"width,omitempty"`
	Height    int        `json:"height,omitempty"`
	SizeBytes int64      `json:"sizeBytes,omitempty"`
	TakenAt   *time.Time `json:"takenAt,omitempty"`
	Latitude  *float64   `json:"latitude,omitempty"`
	Longitude *float64   `json:"longitude,omitempty"`
	Favorite  bool       `json:"favorite,omitempty"`
	Checksum  string     `json:"checksum,omitempty"`

	// Extra holds client-defined attributes outside the fixed schema.
	Extra map[string]any `json:"extra,omitempty"`

	// AddTimestamp and ModifiedTimestamp are stamped by the server.
	// Values sent by clients are ignored.
	AddTimestamp      time.Time `json:"addTimestamp"`
	ModifiedTimestamp time.Time `json:"modifiedTimestamp"`
}

// TableName returns the name of the database table
// associated with the Photo model.
func (p *Photo) TableName() string {
	return "photos"
}

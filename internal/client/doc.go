// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command line client runtime.
//
// It wires client configuration, the server adapter and the client services
// into a cobra command tree. Every protocol operation has its own command;
// push runs the whole workflow once or on an interval.
package client

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from APP_*, STORAGE_*, SERVER_*, ADAPTER_* and
// WORKERS_* variables following the env and envPrefix tags of
// [StructuredConfig]. Durations use Go syntax, e.g. WORKERS_SESSION_TTL=30m.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}

// SPDX-License-Identifier: MPL-2.0

package renderer

import (
	"fmt"
	"strings"

	"docstage/internal/pyenv"

	"github.com/joho/godotenv"
)

// BuildEnv constructs the renderer subprocess environment. Precedence, lower
// to higher: the host environment, each dotenv file in order (later files
// win), and finally the virtual-environment overlay when one was probed.
func BuildEnv(environ []string, envFiles []string, overlay *pyenv.Overlay) ([]string, error) {
	if len(envFiles) == 0 {
		return overlay.Apply(environ), nil
	}

	env := make(map[string]string, len(environ))
	order := make([]string, 0, len(environ))
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if _, exists := env[key]; !exists {
			order = append(order, key)
		}
		env[key] = val
	}

	for _, file := range envFiles {
		vars, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("load env file %q: %w", file, err)
		}
		for key, val := range vars {
			if _, exists := env[key]; !exists {
				order = append(order, key)
			}
			env[key] = val
		}
	}

	merged := make([]string, 0, len(order))
	for _, key := range order {
		merged = append(merged, key+"="+env[key])
	}

	return overlay.Apply(merged), nil
}

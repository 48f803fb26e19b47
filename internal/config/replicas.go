// Package config loads the two configuration surfaces a replica or client
// process needs: the fixed replica address list, and process-level settings
// read from the environment.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadReplicaList reads a line-oriented replica address file: one
// "host:port" per non-empty, non-"#"-prefixed line, surrounding whitespace
// trimmed. Order is preserved — it becomes each replica's index for the
// quorum fan-out engine and for restricting fan-out to a locked subset.
func LoadReplicaList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replica list %q: %w", path, err)
	}
	defer f.Close()

	var addresses []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read replica list %q: %w", path, err)
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("no replica addresses found in %q", path)
	}
	return addresses, nil
}

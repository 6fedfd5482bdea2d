package config

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"
)

// MigrationResult contains the result of a configuration migration.
type MigrationResult struct {
	FromVersion int
	ToVersion   int
	Backup      string
	Changes     []string
}

// MigrateConfig upgrades cfg in memory to the current version.
func MigrateConfig(cfg *Config) (*MigrationResult, error) {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if cfg.Version >= Version {
		return nil, nil
	}

	result := &MigrationResult{FromVersion: cfg.Version, ToVersion: Version}
	for cfg.Version < Version {
		var changes []string
		switch cfg.Version {
		case 0, 1:
			changes = migrateV1ToV2(cfg)
			cfg.Version = 2
		default:
			return result, fmt.Errorf("unknown version %d", cfg.Version)
		}
		result.Changes = append(result.Changes, changes...)
	}
	return result, nil
}

// Version 1 silently used fewer candidates when the page was larger than
// the selection keys, and allowed longer buffers.
func migrateV1ToV2(cfg *Config) []string {
	var changes []string

	if n := utf8.RuneCountInString(cfg.Engine.SelKeys); cfg.Engine.CandPerPage > n && n > 0 {
		changes = append(changes, fmt.Sprintf("engine.cand_per_page %d -> %d", cfg.Engine.CandPerPage, n))
		cfg.Engine.CandPerPage = n
	}
	if cfg.Engine.MaxChiSymbolLen > 39 {
		changes = append(changes, fmt.Sprintf("engine.max_chi_symbol_len %d -> 39", cfg.Engine.MaxChiSymbolLen))
		cfg.Engine.MaxChiSymbolLen = 39
	}
	return changes
}

// MigrateFile rewrites an outdated file at path in the current format,
// keeping a timestamped copy of the original next to it. It returns nil
// when the file is missing or already current.
func MigrateFile(path string) (*MigrationResult, error) {
	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}
	if cfg.Version >= Version {
		return nil, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	backup, err := backupConfig(path)
	if err != nil {
		return nil, err
	}
	result, err := MigrateConfig(cfg)
	if err != nil {
		return result, err
	}
	result.Backup = backup

	if err := ValidateConfig(cfg); err != nil {
		return result, fmt.Errorf("migrated config is invalid: %w", err)
	}
	if err := SaveConfig(cfg, path); err != nil {
		return result, err
	}
	return result, nil
}

func backupConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config for backup: %w", err)
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, data, 0600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backup, nil
}

package config

import "fmt"

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade crmboard)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
	2: migrateV2ToV3,
}

// migrateV1ToV2 introduces the column palette and the storage file name.
func migrateV1ToV2(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if len(cfg.Palette) == 0 {
		cfg.Palette = append([]string{}, DefaultPalette...)
	}
	if cfg.StorageFile == "" {
		cfg.StorageFile = DefaultStorageFile
	}
	cfg.Version = 2
	return nil
}

// migrateV2ToV3 adds comment_author, log_level and the tui section.
func migrateV2ToV3(cfg *Config) error { //nolint:unparam // signature must match migrations map type
	if cfg.CommentAuthor == "" {
		cfg.CommentAuthor = DefaultCommentAuthor
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.TUI.TitleLines == 0 {
		cfg.TUI.TitleLines = DefaultTitleLines
	}
	cfg.Version = 3
	return nil
}

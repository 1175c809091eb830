package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"shareit/internal/config"
)

const backupPrefix = "shareit_"

// BackupService периодически снимает копию базы через VACUUM INTO и
// подчищает копии старше срока хранения.
type BackupService struct {
	dbPath string
	cfg    config.BackupConfig
	logger *zerolog.Logger
}

func NewBackupService(dbPath string, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{dbPath: dbPath, cfg: cfg, logger: logger}
}

func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("backups disabled")
		return
	}

	interval := s.interval()
	s.logger.Info().Dur("interval", interval).Str("dir", s.cfg.StoragePath).Msg("backup loop started")

	// Первую копию снимаем сразу, не дожидаясь тикера
	if err := s.PerformBackup(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PerformBackup(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.CleanupOldBackups()
		}
	}
}

func (s *BackupService) interval() time.Duration {
	if s.cfg.Schedule != "" {
		if d, err := time.ParseDuration(s.cfg.Schedule); err == nil {
			return d
		}
		s.logger.Warn().Str("schedule", s.cfg.Schedule).Msg("bad backup schedule, falling back to 24h")
	}
	return 24 * time.Hour
}

func (s *BackupService) PerformBackup() error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := backupPrefix + time.Now().Format("20060102_150405") + ".db"
	target := filepath.Join(s.cfg.StoragePath, name)

	if err := s.vacuumInto(target); err != nil {
		// VACUUM INTO недоступен или сорвался: копируем файл как есть
		s.logger.Warn().Err(err).Msg("vacuum backup failed, copying the database file")
		return s.copyDatabase(target)
	}

	s.logger.Info().Str("path", target).Msg("backup written")
	return nil
}

// vacuumInto делает целостную копию базы средствами sqlite.
func (s *BackupService) vacuumInto(target string) error {
	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("open source database: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf("VACUUM INTO '%s'", target))
	return err
}

// copyDatabase — запасной путь; при одновременной записи копия может
// оказаться несогласованной.
func (s *BackupService) copyDatabase(target string) error {
	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(target)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", target).Msg("fallback backup written")
	return nil
}

// CleanupOldBackups удаляет только собственные файлы с истёкшим сроком,
// чужое содержимое каталога не трогает.
func (s *BackupService) CleanupOldBackups() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("read backup directory")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, file := range files {
		if file.IsDir() || !strings.HasPrefix(file.Name(), backupPrefix) {
			continue
		}
		info, err := file.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		s.logger.Info().Str("file", file.Name()).Msg("removing expired backup")
		os.Remove(filepath.Join(s.cfg.StoragePath, file.Name()))
	}
}

package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/kameqazi1/Manaakhah-sub002/pkg/dbmetrics"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

const dir = "postgres"

// Files возвращает имена миграций в порядке применения
func Files() ([]string, error) {
	entries, err := postgresFS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: read dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run применяет все миграции по порядку.
// Скрипты идемпотентны (IF NOT EXISTS), поэтому повторный запуск безопасен.
func Run(ctx context.Context, db dbmetrics.DBExecutor, logger Logger) error {
	files, err := Files()
	if err != nil {
		return err
	}

	for _, file := range files {
		script, err := postgresFS.ReadFile(dir + "/" + file)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", file, err)
		}

		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("migrations: apply %s: %w", file, err)
		}
		logger.Info("migrations: applied %s", file)
	}

	return nil
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// dailyFile is an io.Writer over app-YYYY-MM-DD.log that switches files when
// the date changes and prunes files older than the retention window.
type dailyFile struct {
	mu            sync.Mutex
	dir           string
	retentionDays int
	now           func() time.Time
	date          string
	file          *os.File
}

func openDailyFile(dir string, retentionDays int, now func() time.Time) (*dailyFile, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	d := &dailyFile{dir: dir, retentionDays: retentionDays, now: now}
	d.date = now().Format("2006-01-02")
	file, err := openLogFile(dir, d.date)
	if err != nil {
		return nil, err
	}
	d.file = file
	cleanupOldLogs(dir, retentionDays, now())
	return d, nil
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Write(p)
}

// rotate opens the file for the current date if it differs from the open one.
func (d *dailyFile) rotate() error {
	date := d.now().Format("2006-01-02")
	d.mu.Lock()
	defer d.mu.Unlock()
	if date == d.date {
		return nil
	}
	newFile, err := openLogFile(d.dir, date)
	if err != nil {
		return err
	}
	_ = d.file.Close()
	d.file = newFile
	d.date = date
	cleanupOldLogs(d.dir, d.retentionDays, d.now())
	return nil
}

func (d *dailyFile) run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = d.rotate()
		case <-ctx.Done():
			return
		}
	}
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file.Close()
}

func openLogFile(logDir, date string) (*os.File, error) {
	filename := filepath.Join(logDir, fmt.Sprintf("app-%s.log", date))
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func cleanupOldLogs(logDir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -(retentionDays - 1)).Format("2006-01-02")
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		if _, err := time.Parse("2006-01-02", datePart); err != nil {
			continue
		}
		if datePart < cutoff {
			_ = os.Remove(filepath.Join(logDir, name))
		}
	}
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// setupLogger installs a JSON slog logger writing to stdout and the daily
// log file. The returned func stops rotation and closes the file.
func setupLogger(logDir string, retentionDays int, level string) (*slog.Logger, func(), error) {
	file, err := openDailyFile(logDir, retentionDays, time.Now)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	go file.run(ctx)

	handler := slog.NewJSONHandler(io.MultiWriter(os.Stdout, file), &slog.HandlerOptions{Level: parseLevel(level)})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, func() {
		cancel()
		_ = file.Close()
	}, nil
}

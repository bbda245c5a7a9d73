package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iho/sochitieu/internal/usecase"
)

const (
	appPrefix = "SoChiTieu"
	backupExt = ".sct"
)

// FileStore writes and discovers backup files in a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on the first write, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// BackupFileName builds the conventional timestamp-qualified name, e.g.
// SoChiTieu_Backup_1714651200000.sct.
func BackupFileName(at time.Time) string {
	return fmt.Sprintf("%s_Backup_%d%s", appPrefix, at.UnixMilli(), backupExt)
}

// ParseBackupTime recovers the export time from a backup file name or path.
func ParseBackupTime(name string) (time.Time, error) {
	base := filepath.Base(name)
	trimmed := strings.TrimSuffix(base, backupExt)
	if trimmed == base {
		return time.Time{}, fmt.Errorf("not a backup file name: %s", base)
	}
	prefix := appPrefix + "_Backup_"
	millis := strings.TrimPrefix(trimmed, prefix)
	if millis == trimmed {
		return time.Time{}, fmt.Errorf("not a backup file name: %s", base)
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse backup timestamp: %w", err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// WriteBackup writes encoded backup content to a timestamp-qualified file
// and returns its path.
func (s *FileStore) WriteBackup(content string, at time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	path := filepath.Join(s.dir, BackupFileName(at))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return path, nil
}

// Read returns the raw content of a backup file.
func (s *FileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read backup file: %w", err)
	}
	return string(data), nil
}

// List returns the backup files in the store directory, newest first.
// A missing directory simply means no backups yet.
func (s *FileStore) List() ([]usecase.BackupFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backup directory: %w", err)
	}

	var files []usecase.BackupFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}
		exportedAt, err := ParseBackupTime(entry.Name())
		if err != nil {
			// Foreign .sct files without the timestamp convention are
			// still listed, just without a parsed time.
			exportedAt = time.Time{}
		}
		files = append(files, usecase.BackupFile{
			Path:       filepath.Join(s.dir, entry.Name()),
			ExportedAt: exportedAt,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path > files[j].Path
	})
	return files, nil
}

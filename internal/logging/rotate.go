package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// rotateFiles shifts name.N.ext to name.N+1.ext, drops backups beyond
// maxBackups and moves the live file to name.1.ext.
func rotateFiles(basePath string, maxBackups int) error {
	dir := filepath.Dir(basePath)
	ext := filepath.Ext(basePath)
	name := strings.TrimSuffix(filepath.Base(basePath), ext)
	backupPath := func(n int) string {
		return filepath.Join(dir, fmt.Sprintf("%s.%d%s", name, n, ext))
	}

	backups, err := findBackups(dir, name, ext)
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.IntSlice(backups)))

	for _, n := range backups {
		if n >= maxBackups {
			os.Remove(backupPath(n))
			continue
		}
		if err := os.Rename(backupPath(n), backupPath(n+1)); err != nil {
			return fmt.Errorf("failed to rotate backup %d: %w", n, err)
		}
	}

	if _, err := os.Stat(basePath); err == nil {
		if err := os.Rename(basePath, backupPath(1)); err != nil {
			return fmt.Errorf("failed to rotate current log: %w", err)
		}
	}
	return nil
}

func findBackups(dir, name, ext string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var backups []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rest, ok := strings.CutPrefix(entry.Name(), name+".")
		if !ok {
			continue
		}
		rest, ok = strings.CutSuffix(rest, ext)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil {
			backups = append(backups, n)
		}
	}
	return backups, nil
}

package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// Backup copies the store file at srcPath into an xz-compressed archive
// at dstPath.
func Backup(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("backup dir: %w", err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	zw, err := xz.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("xz writer: %w", err)
	}
	if _, err := io.Copy(zw, src); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish backup: %w", err)
	}
	return dst.Close()
}

// Restore decompresses an xz backup into dstPath, replacing any existing
// store file. The write goes through a temp file so a failed restore never
// clobbers the current store.
func Restore(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer src.Close()

	zr, err := xz.NewReader(src)
	if err != nil {
		return fmt.Errorf("xz reader: %w", err)
	}

	tmp := dstPath + ".restore"
	dst, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}

	if _, err := io.Copy(dst, zr); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fmt.Errorf("decompress: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dstPath)
}

package site

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/forumsite/internal/foundation/errors"
	"git.home.luguber.info/inful/forumsite/internal/logfields"
)

func stageCopyAssets(_ context.Context, rc *RenderContext) error {
	if dir := rc.cfg.AssetsDir; dir != "" {
		if _, err := os.Stat(dir); err != nil {
			rc.warn(StageCopyAssets, "assets directory not found", logfields.Path(dir))
		} else {
			n, err := copyDir(dir, filepath.Join(rc.out, "assets"))
			if err != nil {
				return errors.WrapError(err, errors.CategoryFileSystem, "copy assets").
					Fatal().WithContext("path", dir).Build()
			}
			rc.report.Pages["asset"] += n
			rc.recorder.AddPagesWritten("asset", n)
			rc.logger.Info("Copied assets", logfields.Path(dir), logfields.Count(n))
		}
	}
	if robots := rc.cfg.RobotsFile; robots != "" {
		if err := copyFile(robots, filepath.Join(rc.out, "robots.txt")); err != nil {
			rc.warn(StageCopyAssets, "cannot copy robots file", logfields.Path(robots), logfields.Error(err))
		} else {
			rc.report.Pages["asset"]++
			rc.recorder.AddPagesWritten("asset", 1)
		}
	}
	return nil
}

// copyDir mirrors src into dst, overwriting existing files, and returns the number of files copied.
func copyDir(src, dst string) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}
	copied := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			n, err := copyDir(srcPath, dstPath)
			copied += n
			if err != nil {
				return copied, err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

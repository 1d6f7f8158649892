package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ironsheep/icon-dataset-synth/internal/dataset"
)

// ArchivePath returns the default archive location for a dataset root:
// the root path with ".zip" appended.
func ArchivePath(root string) string {
	return filepath.Clean(root) + ".zip"
}

// Archive packs every regular file under dir into a deflate zip at dest.
//
// Entry names are relative to dir's parent, so the archive unpacks into a
// single top-level folder named like dir. The zip is assembled in a
// temporary file and renamed to dest only when complete; on failure nothing
// is left at dest. It returns the number of files archived.
func Archive(dir, dest string) (int, error) {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return 0, &dataset.ArchiveError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return 0, &dataset.ArchiveError{Path: dir, Err: fmt.Errorf("not a directory")}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return 0, &dataset.ArchiveError{Path: dest, Err: err}
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, &dataset.ArchiveError{Path: dest, Err: err}
	}

	zw := zip.NewWriter(tmp)
	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return fail(err)
	}
	if err := zw.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, &dataset.ArchiveError{Path: dest, Err: err}
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return 0, &dataset.ArchiveError{Path: dest, Err: err}
	}
	return count, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

package seal

import (
	"archive/zip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// archive writes the sealed deliverable next to the project directory as
// <project>_Sealed_<timestamp>.zip. Enumeration is sorted so the archive is
// deterministic for a given tree; a pre-existing archive of the same name is
// replaced.
func (s Sealer) archive() (string, float64, error) {
	name := fmt.Sprintf("%s_Sealed_%s.zip", filepath.Base(s.Paths.Root), s.now().Format("20060102-150405"))
	archivePath := filepath.Join(filepath.Dir(s.Paths.Root), name)

	files, err := enumerateFiles(s.Paths.Root)
	if err != nil {
		return "", 0, err
	}
	sort.Strings(files)

	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return "", 0, fmt.Errorf("replace existing archive: %w", err)
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return "", 0, fmt.Errorf("create archive: %w", err)
	}

	writer := zip.NewWriter(out)
	for _, file := range files {
		if err := addToArchive(writer, s.Paths.Root, file); err != nil {
			writer.Close()
			out.Close()
			_ = os.Remove(archivePath)
			return "", 0, err
		}
	}
	if err := writer.Close(); err != nil {
		out.Close()
		return "", 0, fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", 0, fmt.Errorf("close archive: %w", err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return "", 0, fmt.Errorf("stat archive: %w", err)
	}
	sizeMB := math.Round(float64(info.Size())/(1024*1024)*100) / 100
	return archivePath, sizeMB, nil
}

// enumerateFiles lists every regular file under root iteratively.
func enumerateFiles(root string) ([]string, error) {
	var files []string
	queue := []string{root}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				queue = append(queue, full)
				continue
			}
			if entry.Type().IsRegular() {
				files = append(files, full)
			}
		}
	}
	return files, nil
}

// addToArchive stores one file under its project-root-relative slash path.
func addToArchive(writer *zip.Writer, root, file string) error {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return fmt.Errorf("relativize %s: %w", file, err)
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("archive header %s: %w", file, err)
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate

	dest, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", rel, err)
	}
	source, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer source.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("archive copy %s: %w", rel, err)
	}
	return nil
}

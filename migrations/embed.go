// Package migrations embeds the Postgres schema and drives
// golang-migrate over it. Files follow NNN_name.(up|down).sql; the set
// is validated for naming, pairing, and sequence gaps before any
// state-changing operation runs
package migrations

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

//go:embed *.sql
var embedded embed.FS

// 001_create_thing.up.sql / 001_create_thing.down.sql
var nameRegex = regexp.MustCompile(`^(\d{3})_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// FileInfo is one parsed migration filename
type FileInfo struct {
	Sequence  int
	Name      string
	Direction string // "up" | "down"
	Filename  string
}

// Set is a validated collection of migration files
type Set struct {
	fsys      fs.FS
	checksums map[string]string // filename -> sha256 hex, pinned on first Validate
}

// NewSet wraps fsys as a migration set. nil means the embedded files
func NewSet(fsys fs.FS) *Set {
	if fsys == nil {
		fsys = embedded
	}
	return &Set{fsys: fsys, checksums: make(map[string]string)}
}

// FS exposes the underlying filesystem for the iofs source driver
func (s *Set) FS() fs.FS { return s.fsys }

// Files lists conforming migration filenames in lexicographic order.
// Non-conforming .sql files are ignored, not errors; Validate catches
// structural problems
func (s *Set) Files() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migrations: read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) == ".sql" && nameRegex.MatchString(name) {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Content returns the raw SQL of one migration file
func (s *Set) Content(name string) ([]byte, error) {
	return fs.ReadFile(s.fsys, name)
}

// MaxSequence is the highest sequence number in the set (0 when empty)
func (s *Set) MaxSequence() int {
	files, err := s.Files()
	if err != nil {
		return 0
	}
	highest := 0
	for _, f := range files {
		if info, err := parseName(f); err == nil && info.Sequence > highest {
			highest = info.Sequence
		}
	}
	return highest
}

// Validate checks the whole set: every file readable and well named,
// every up paired with a down, sequences contiguous from 001, and
// contents unchanged since the first validation in this process
func (s *Set) Validate() error {
	files, err := s.Files()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("migrations: no migration files embedded")
	}

	pairs := make(map[string]map[string]bool, len(files)/2)
	seqs := make(map[int]bool, len(files)/2)
	for _, f := range files {
		info, err := parseName(f)
		if err != nil {
			return err
		}
		content, err := s.Content(f)
		if err != nil {
			return fmt.Errorf("migrations: read %s: %w", f, err)
		}
		sum := fmt.Sprintf("%x", sha256.Sum256(content))
		if pinned, ok := s.checksums[f]; ok && pinned != sum {
			return fmt.Errorf("migrations: %s changed since validation (checksum mismatch)", f)
		}
		s.checksums[f] = sum

		key := fmt.Sprintf("%03d_%s", info.Sequence, info.Name)
		if pairs[key] == nil {
			pairs[key] = make(map[string]bool, 2)
		}
		pairs[key][info.Direction] = true
		seqs[info.Sequence] = true
	}

	for key, dirs := range pairs {
		if !dirs["up"] {
			return fmt.Errorf("migrations: %s has a down file but no up", key)
		}
		if !dirs["down"] {
			return fmt.Errorf("migrations: %s has an up file but no down", key)
		}
	}

	ordered := make([]int, 0, len(seqs))
	for n := range seqs {
		ordered = append(ordered, n)
	}
	sort.Ints(ordered)
	if ordered[0] != 1 {
		return fmt.Errorf("migrations: sequence must start at 001, found %03d", ordered[0])
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i] != ordered[i-1]+1 {
			return fmt.Errorf("migrations: gap in sequence, expected %03d found %03d",
				ordered[i-1]+1, ordered[i])
		}
	}
	return nil
}

func parseName(filename string) (FileInfo, error) {
	m := nameRegex.FindStringSubmatch(filename)
	if len(m) != 4 {
		return FileInfo{}, fmt.Errorf(
			"migrations: bad filename %s (want NNN_name.up.sql / NNN_name.down.sql)", filename)
	}
	seq, err := strconv.Atoi(m[1])
	if err != nil {
		return FileInfo{}, fmt.Errorf("migrations: bad sequence in %s: %w", filename, err)
	}
	return FileInfo{Sequence: seq, Name: m[2], Direction: m[3], Filename: filename}, nil
}

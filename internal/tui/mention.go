package tui

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

const (
	mentionMaxFiles = 500
	mentionMaxRows  = 10
)

// mentionState drives the @-file picker: it holds the workspace file
// list and fuzzy-filters it as the user types.
type mentionState struct {
	open     bool
	query    string
	paths    []string
	matches  []string
	selected int
}

func (m *mentionState) openWith(paths []string) {
	m.open = true
	m.query = ""
	m.paths = paths
	m.selected = 0
	m.refilter()
}

func (m *mentionState) close() {
	*m = mentionState{}
}

func (m *mentionState) typeRune(r rune) {
	m.query += string(r)
	m.refilter()
}

func (m *mentionState) backspace() bool {
	if m.query == "" {
		return false
	}
	runes := []rune(m.query)
	m.query = string(runes[:len(runes)-1])
	m.refilter()
	return true
}

func (m *mentionState) moveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *mentionState) moveDown() {
	if m.selected < len(m.matches)-1 {
		m.selected++
	}
}

func (m *mentionState) selection() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return "", false
	}
	return m.matches[m.selected], true
}

func (m *mentionState) refilter() {
	if strings.TrimSpace(m.query) == "" {
		n := len(m.paths)
		if n > mentionMaxRows {
			n = mentionMaxRows
		}
		m.matches = append([]string(nil), m.paths[:n]...)
	} else {
		ranked := fuzzy.Find(m.query, m.paths)
		m.matches = m.matches[:0]
		for i, match := range ranked {
			if i >= mentionMaxRows {
				break
			}
			m.matches = append(m.matches, match.Str)
		}
	}
	if m.selected >= len(m.matches) {
		m.selected = len(m.matches) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *mentionState) view() string {
	var sb strings.Builder
	sb.WriteString("@" + m.query + "\n")
	if len(m.matches) == 0 {
		sb.WriteString("  (no matches)")
		return sb.String()
	}
	for i, path := range m.matches {
		marker := "  "
		if i == m.selected {
			marker = "❯ "
		}
		sb.WriteString(marker + path)
		if i < len(m.matches)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// findFiles walks root collecting up to limit relative paths, skipping
// common ignore directories.
func findFiles(root string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = mentionMaxFiles
	}
	paths := make([]string, 0, limit)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "node_modules" || name == ".idea" || name == "target" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		if len(paths) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return paths, err
}

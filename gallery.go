package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qrscan/internal/decode"
)

const maxRecentDirs = 9

// browserModel picks an image from the gallery directory tree.
type browserModel struct {
	currentPath string
	entries     []os.DirEntry
	selected    int
	err         string
	recentDirs  []string
}

type browserErrorMsg struct{ err error }
type browserLoadedMsg struct {
	path    string
	entries []os.DirEntry
}

// Fake DirEntry for parent directory
type parentDirEntry struct{}

func (p *parentDirEntry) Name() string               { return ".." }
func (p *parentDirEntry) IsDir() bool                { return true }
func (p *parentDirEntry) Type() os.FileMode          { return os.ModeDir }
func (p *parentDirEntry) Info() (os.FileInfo, error) { return nil, nil }

// loadGalleryEntries lists directories first, then images, skipping
// hidden entries.
func loadGalleryEntries(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := os.ReadDir(path)
		if err != nil {
			return browserErrorMsg{err: err}
		}

		var dirs, images []os.DirEntry
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			if entry.IsDir() {
				dirs = append(dirs, entry)
			} else if decode.IsImage(entry.Name()) {
				images = append(images, entry)
			}
		}
		sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
		sort.Slice(images, func(i, j int) bool { return images[i].Name() < images[j].Name() })

		var all []os.DirEntry
		if parent := filepath.Dir(path); parent != path {
			all = append(all, &parentDirEntry{})
		}
		all = append(all, dirs...)
		all = append(all, images...)
		return browserLoadedMsg{path: path, entries: all}
	}
}

// pathStatus classifies a configured path for the startup access check.
type pathStatus int

const (
	pathUnknown pathStatus = iota
	pathValid
	pathPartial
	pathInvalid
)

func validatePath(path string) pathStatus {
	if path == "" {
		return pathUnknown
	}

	path = strings.TrimSpace(path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return pathValid
	}

	// Parent exists: the directory may simply not be created yet.
	if _, err := os.Stat(filepath.Dir(path)); err == nil {
		return pathPartial
	}
	return pathInvalid
}

// Add path to recent dirs, maintaining uniqueness and max count
func addToRecentDirs(paths []string, newPath string, maxRecent int) []string {
	if newPath == "" {
		return paths
	}

	filtered := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != newPath {
			filtered = append(filtered, p)
		}
	}

	result := append([]string{newPath}, filtered...)
	if len(result) > maxRecent {
		result = result[:maxRecent]
	}
	return result
}

func (m model) viewGallery() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", headingStyle.Render("▧ Scan from gallery"))

	pathWidth := m.getWidth() - 12
	fmt.Fprintf(&b, "%s %s\n\n",
		labelStyle.Render("Current:"),
		lipgloss.NewStyle().Foreground(secondary).Render(singleLine(m.browser.currentPath, pathWidth)))

	if m.browser.err != "" {
		fmt.Fprintf(&b, "%s %s\n\n", errorStyle.Render("⚠ Error:"), m.browser.err)
		fmt.Fprintf(&b, "%s\n", subtitleStyle.Render("Press ESC to go back"))
		return b.String()
	}

	if len(m.browser.entries) == 0 {
		fmt.Fprintf(&b, "%s\n", subtitleStyle.Render("No folders or images here"))
	} else {
		maxDisplay := m.getListLines()
		start := 0
		if m.browser.selected >= maxDisplay {
			start = m.browser.selected - maxDisplay + 1
		}
		end := min(start+maxDisplay, len(m.browser.entries))

		for i := start; i < end; i++ {
			entry := m.browser.entries[i]
			prefix := "  "
			if i == m.browser.selected {
				prefix = selectedStyle.Render("▸ ")
			}

			switch {
			case entry.Name() == "..":
				fmt.Fprintf(&b, "%s%s\n", prefix, subtitleStyle.Render("../"))
			case entry.IsDir():
				fmt.Fprintf(&b, "%s%s\n", prefix, accentStyle.Render(entry.Name()+"/"))
			default:
				fmt.Fprintf(&b, "%s%s\n", prefix, valueStyle.Render(entry.Name()))
			}
		}

		if len(m.browser.entries) > maxDisplay {
			fmt.Fprintf(&b, "\n%s\n",
				subtitleStyle.Render(fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.browser.entries))))
		}
	}

	if len(m.browser.recentDirs) > 0 {
		fmt.Fprintf(&b, "\n%s\n", labelStyle.Render("Recent folders (press 1-9)"))
		for i, dir := range m.browser.recentDirs {
			fmt.Fprintf(&b, "  %s %s\n",
				renderBadge(fmt.Sprintf("%d", i+1), primary),
				subtitleStyle.Render(singleLine(dir, pathWidth)))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", m.help.ShortHelpView(m.keys.galleryHelp()))
	return b.String()
}

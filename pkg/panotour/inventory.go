package panotour

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/karrick/godirwalk"
)

// Inventory counts the tiles on disk for a scene, keyed by on-disk level number (1-based).
func Inventory(outDir string, sceneID string) (map[int]int, error) {
	root := filepath.Join(outDir, sceneID)
	counts := map[int]int{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() || !strings.HasSuffix(path, ".jpg") {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			parts := strings.Split(rel, string(filepath.Separator))
			if len(parts) != 2 {
				return nil
			}

			level, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil
			}
			counts[level]++
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return counts, nil
}

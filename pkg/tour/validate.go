package tour

import (
	"fmt"
	"strings"
)

// Reason describes why a tour failed validation.
type Reason int

const (
	ReasonNoOutput Reason = iota + 1
	ReasonDuplicateScene
	ReasonNoTitle
	ReasonBadStartScene
	ReasonBadSceneID
)

// ValidationError is returned by Validate. Scene names the offending scene where relevant.
type ValidationError struct {
	Reason Reason
	Scene  string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonNoOutput:
		return "output folder not defined"
	case ReasonDuplicateScene:
		return fmt.Sprintf("scene name is not unique: %q", e.Scene)
	case ReasonNoTitle:
		return "tour title not defined"
	case ReasonBadStartScene:
		return fmt.Sprintf("invalid starting scene: %q", e.Scene)
	case ReasonBadSceneID:
		return fmt.Sprintf("scene name is not a usable folder name: %q", e.Scene)
	}
	return "validation failed"
}

// Validate checks that a tour can be exported into outDir, returning the first problem found.
func Validate(t *Tour, outDir string) error {
	if outDir == "" {
		return &ValidationError{Reason: ReasonNoOutput}
	}

	counts := map[string]int{}
	for _, s := range t.Scenes {
		if !ValidID(s.ID) {
			return &ValidationError{Reason: ReasonBadSceneID, Scene: s.ID}
		}
		counts[s.ID]++
	}
	for _, s := range t.Scenes {
		if counts[s.ID] != 1 {
			return &ValidationError{Reason: ReasonDuplicateScene, Scene: s.ID}
		}
	}

	if t.Title == "" {
		return &ValidationError{Reason: ReasonNoTitle}
	}

	if t.StartScene == "" || t.Scene(t.StartScene) == nil {
		return &ValidationError{Reason: ReasonBadStartScene, Scene: t.StartScene}
	}

	return nil
}

// ValidID reports whether a scene identifier can be used as a single output folder name.
func ValidID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

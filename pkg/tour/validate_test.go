package tour

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func validTour() *Tour {
	return &Tour{
		Title:      "Demo",
		StartScene: "lobby",
		Scenes: []*Scene{
			{ID: "lobby", Title: "Lobby"},
			{ID: "deck", Title: "Deck"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tour)
		outDir string
		reason Reason
		scene  string
	}{
		{name: "ok", outDir: "/tmp/out"},
		{name: "no output", outDir: "", reason: ReasonNoOutput},
		{
			name:   "duplicate",
			outDir: "/tmp/out",
			mutate: func(t *Tour) {
				t.Scenes = append(t.Scenes, &Scene{ID: "beach"}, &Scene{ID: "beach"})
			},
			reason: ReasonDuplicateScene,
			scene:  "beach",
		},
		{name: "no title", outDir: "/tmp/out", mutate: func(t *Tour) { t.Title = "" }, reason: ReasonNoTitle},
		{name: "no start", outDir: "/tmp/out", mutate: func(t *Tour) { t.StartScene = "" }, reason: ReasonBadStartScene},
		{
			name:   "unknown start",
			outDir: "/tmp/out",
			mutate: func(t *Tour) { t.StartScene = "attic" },
			reason: ReasonBadStartScene,
			scene:  "attic",
		},
		{name: "empty id", outDir: "/tmp/out", mutate: func(t *Tour) { t.Scenes[1].ID = "" }, reason: ReasonBadSceneID},
		{name: "dot id", outDir: "/tmp/out", mutate: func(t *Tour) { t.Scenes[1].ID = "." }, reason: ReasonBadSceneID, scene: "."},
		{name: "dotdot id", outDir: "/tmp/out", mutate: func(t *Tour) { t.Scenes[1].ID = ".." }, reason: ReasonBadSceneID, scene: ".."},
		{name: "escaping id", outDir: "/tmp/out", mutate: func(t *Tour) { t.Scenes[1].ID = "../x" }, reason: ReasonBadSceneID, scene: "../x"},
		{name: "nested id", outDir: "/tmp/out", mutate: func(t *Tour) { t.Scenes[1].ID = "a/b" }, reason: ReasonBadSceneID, scene: "a/b"},
		{name: "backslash id", outDir: "/tmp/out", mutate: func(t *Tour) { t.Scenes[1].ID = `a\b` }, reason: ReasonBadSceneID, scene: `a\b`},
		{
			name:   "bad id checked before duplicates",
			outDir: "/tmp/out",
			mutate: func(t *Tour) {
				t.Scenes = append(t.Scenes, &Scene{ID: "lobby"}, &Scene{ID: ""})
			},
			reason: ReasonBadSceneID,
		},
		{
			name:   "output checked before duplicates",
			outDir: "",
			mutate: func(t *Tour) { t.Scenes = append(t.Scenes, &Scene{ID: "lobby"}) },
			reason: ReasonNoOutput,
		},
		{
			name:   "duplicates checked before title",
			outDir: "/tmp/out",
			mutate: func(t *Tour) {
				t.Title = ""
				t.Scenes = append(t.Scenes, &Scene{ID: "deck"})
			},
			reason: ReasonDuplicateScene,
			scene:  "deck",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTour()
			if tt.mutate != nil {
				tt.mutate(tr)
			}

			err := Validate(tr, tt.outDir)
			if tt.reason == 0 {
				require.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			require.Equal(t, tt.reason, ve.Reason)
			require.Equal(t, tt.scene, ve.Scene)
		})
	}
}

func TestValidateDuplicateMessage(t *testing.T) {
	tr := validTour()
	tr.Scenes = append(tr.Scenes, &Scene{ID: "beach"}, &Scene{ID: "beach"})

	err := Validate(tr, "/tmp/out")
	require.Error(t, err)
	require.Contains(t, err.Error(), "beach")
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"lobby", "deck-2", "beach_house", "..hidden", "a.b"} {
		require.True(t, ValidID(id), id)
	}
	for _, id := range []string{"", ".", "..", "../x", "a/b", "/abs", `a\b`} {
		require.False(t, ValidID(id), id)
	}
}

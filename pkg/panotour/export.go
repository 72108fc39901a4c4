package panotour

import (
	"context"
	"fmt"

	"github.com/tstromberg/panotour/pkg/tour"
	"k8s.io/klog/v2"
)

// Export validates a tour, writes every scene's tiles and then the scene-graph.
// It returns ErrCancelled if the context or progress sink asked it to stop.
func (e *Exporter) Export(ctx context.Context, t *tour.Tour) (*Document, error) {
	c := e.Config
	p := e.Progress

	if err := tour.Validate(t, c.OutDir); err != nil {
		return nil, err
	}

	klog.Infof("export: %q (%d scenes) -> %s", t.Title, len(t.Scenes), c.OutDir)
	p.SetMaximum(200 + len(t.Scenes)*sceneUnits)

	p.SetText1("Saving Viewer Files")
	if err := ProvisionAssets(c, t.Title, t.OverwriteLibrary); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	p.SetValue(100)

	results := map[string]*SceneResult{}
	for i, s := range t.Scenes {
		if cancelled(ctx, p) {
			klog.Infof("export cancelled before scene %q", s.ID)
			return nil, ErrCancelled
		}

		p.SetText1("Exporting " + s.Title)
		r, err := e.ExportScene(ctx, t, s)
		if err != nil {
			return nil, err
		}
		results[s.ID] = r
		p.SetValue(100 + (i+1)*sceneUnits)
	}

	p.SetText1("Saving Tour Configuration")
	d := BuildDocument(c, t, results)
	if err := WriteDocument(c.OutDir, d); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	p.SetValue(p.Value() + 100)

	klog.Infof("export complete: %d scenes", len(results))
	return d, nil
}

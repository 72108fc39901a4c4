package panotour

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

//go:embed assets/tour.tmpl
var tourTmpl string

// viewerFiles are the viewer runtime files copied into <out>/pannellum.
var viewerFiles = []string{
	"pannellum.js",
	"pannellum.css",
	"pannellum.htm",
	"changelog.md",
	"COPYING",
	"readme.md",
	"VERSION",
}

// ProvisionAssets writes tour.html and copies the viewer runtime into the output directory.
// Existing viewer files are kept unless overwrite is set.
func ProvisionAssets(c *Config, title string, overwrite bool) error {
	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	if err := writePage(c.OutDir, title); err != nil {
		return fmt.Errorf("write page: %w", err)
	}

	if c.ViewerDir == "" {
		klog.Warningf("no viewer directory given; %s will need the viewer runtime copied in by hand", c.OutDir)
		return nil
	}

	return copyViewer(c.ViewerDir, filepath.Join(c.OutDir, "pannellum"), overwrite)
}

func writePage(outDir string, title string) error {
	tmpl, err := template.New("tour").Parse(tourTmpl)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	data := struct {
		Title    string
		Document string
	}{
		Title:    title,
		Document: DocumentName,
	}

	var tpl bytes.Buffer
	if err = tmpl.Execute(&tpl, data); err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	p := filepath.Join(outDir, "tour.html")
	klog.V(1).Infof("Writing tour page to %s", p)
	return os.WriteFile(p, tpl.Bytes(), 0o644)
}

func copyViewer(inDir string, outDir string, overwrite bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	copied := 0
	for _, name := range viewerFiles {
		src := filepath.Join(inDir, name)
		dest := filepath.Join(outDir, name)

		if _, err := os.Stat(src); err != nil {
			klog.V(1).Infof("viewer file %s not found, skipping", src)
			continue
		}

		if _, err := os.Stat(dest); err == nil && !overwrite {
			klog.V(1).Infof("%s exists, keeping it", dest)
			continue
		}

		if err := copy.Copy(src, dest); err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}
		copied++
	}

	klog.V(1).Infof("copied %d viewer files to %s", copied, outDir)
	return nil
}

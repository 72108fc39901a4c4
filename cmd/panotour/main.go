// panotour exports a panorama tour project as a multi-resolution viewer site.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/fsnotify/fsnotify"
	"github.com/tstromberg/panotour/pkg/panotour"
	"github.com/tstromberg/panotour/pkg/tour"
)

var (
	project         = flag.String("project", "", "Location of tour project file (.yaml or .toml)")
	outDir          = flag.String("out", "", "Location of output directory")
	viewerDir       = flag.String("viewer", "", "directory holding the pannellum runtime files")
	tileSize        = flag.Int("tile-size", panotour.DefaultTileSize, "tile size in pixels")
	quality         = flag.Int("quality", panotour.DefaultQuality, "JPEG quality of tiles")
	workers         = flag.Int("workers", 1, "number of faces to tile at once")
	exifFlag        = flag.Bool("exif", false, "fill missing scene titles and north offsets from image metadata")
	titleFromAuthor = flag.Bool("title-from-author", false, "write the author as the tour title, as older exports did")
	listen          = flag.Bool("listen", false, "serve content via HTTP")
	addr            = flag.String("addr", "localhost:12801", "host:port to bind to in listen mode")
	watchFlag       = flag.Bool("watch", false, "watch for changes to the project and rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *project == "" {
		klog.Exitf("--project is a required flag")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := &panotour.Config{
		OutDir:          *outDir,
		TileSize:        *tileSize,
		Quality:         *quality,
		Workers:         *workers,
		ViewerDir:       *viewerDir,
		TitleFromAuthor: *titleFromAuthor,
	}

	t, err := build(ctx, c)
	if err != nil {
		klog.Exitf("export failed: %v", err)
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(ctx, c, t); err != nil {
				klog.Errorf("watch: %v", err)
			}
		}()
	}

	if *listen {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := serve(ctx, *outDir, *addr); err != nil {
				klog.Errorf("serve: %v", err)
			}
		}()
	}

	wg.Wait()
}

// build loads the project and exports it. A cancelled export is logged, not returned.
func build(ctx context.Context, c *panotour.Config) (*tour.Tour, error) {
	t, err := tour.Load(*project)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	if *exifFlag {
		if err := tour.FillFromMetadata(t); err != nil {
			klog.Warningf("metadata: %v", err)
		}
	}

	e := panotour.New(c, panotour.NewLogProgress(ctx))
	if _, err := e.Export(ctx, t); err != nil {
		if errors.Is(err, panotour.ErrCancelled) {
			klog.Warningf("export cancelled; partial tiles left in %s", c.OutDir)
			return t, nil
		}
		return nil, err
	}

	for _, s := range t.Scenes {
		counts, err := panotour.Inventory(c.OutDir, s.ID)
		if err != nil {
			klog.Warningf("inventory %s: %v", s.ID, err)
			continue
		}
		klog.Infof("%s: tiles per level: %v", s.ID, counts)
	}
	return t, nil
}

// serve serves the output directory via HTTP until ctx is done.
func serve(ctx context.Context, dir string, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	klog.Infof("Listening on %s (open /tour.html) ...", ln.Addr())
	return serveListener(ctx, ln, dir)
}

func serveListener(ctx context.Context, ln net.Listener, dir string) error {
	srv := &http.Server{Handler: http.FileServer(http.Dir(dir))}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	klog.Infof("shutting down server on %s", ln.Addr())
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// inDir reports whether path is within dir.
func inDir(path string, dir string) bool {
	ap, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	ad, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(ad, ap)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// watchDirs returns the directories whose changes should trigger a rebuild.
// Face directories are watched themselves so edits to individual faces are seen.
func watchDirs(projectPath string, t *tour.Tour) []string {
	dirs := []string{filepath.Dir(projectPath)}
	for _, s := range t.Scenes {
		if s.Source == "" {
			continue
		}
		if fi, err := os.Stat(s.Source); err == nil && fi.IsDir() {
			dirs = append(dirs, s.Source)
			continue
		}
		dirs = append(dirs, filepath.Dir(s.Source))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// watch watches the project file and scene sources for changes and rebuilds
func watch(ctx context.Context, c *panotour.Config, t *tour.Tour) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	dirs := watchDirs(*project, t)
	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %v", event)
			if inDir(event.Name, c.OutDir) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				if _, err := build(ctx, c); err != nil {
					klog.Errorf("rebuild failed: %v", err)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}

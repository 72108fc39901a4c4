package tour

import (
	"fmt"
	"math"
	"os"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// FillFromMetadata fills blank scene titles and zero north offsets from image metadata.
// Requires the exiftool binary.
func FillFromMetadata(t *Tour) error {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	for _, s := range t.Scenes {
		if s.Source == "" {
			continue
		}
		fi, err := os.Stat(s.Source)
		if err != nil || fi.IsDir() {
			klog.V(1).Infof("%s: skipping metadata for %q", s.ID, s.Source)
			continue
		}

		fis := et.ExtractMetadata(s.Source)
		if len(fis) == 0 {
			continue
		}
		if fis[0].Err != nil {
			klog.Warningf("extract fail for %q: %v", s.Source, fis[0].Err)
			continue
		}
		applyMetadata(s, fis[0])
	}
	return nil
}

func applyMetadata(s *Scene, fm exiftool.FileMetadata) {
	for k, v := range fm.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	if s.Title == "" {
		for _, key := range []string{"Headline", "Title"} {
			title, err := fm.GetString(key)
			if err == nil && title != "" {
				s.Title = title
				break
			}
		}
	}

	if s.NorthOffset == 0 {
		heading, err := fm.GetFloat("PoseHeadingDegrees")
		if err != nil {
			klog.V(1).Infof("unable to get heading for %s: %v", s.ID, err)
			return
		}
		s.NorthOffset = int(math.Round(heading * 1000))
	}
}

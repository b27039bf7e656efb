// Package images converts uploaded tour photos into the fixed-size JPEGs the
// site serves: the cover first, then the gallery images concurrently.
package images

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "trailbook/pkg/errors"
	"trailbook/pkg/logger"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

const (
	targetWidth  = 2000
	targetHeight = 1333
	jpegQuality  = 90
)

type Processor struct {
	dir string
	log *logger.Logger
}

func NewProcessor(dir string, log *logger.Logger) *Processor {
	return &Processor{dir: dir, log: log}
}

// Process writes the resized cover and gallery files and returns their
// generated names. The cover is written before the gallery batch starts;
// gallery images are processed concurrently and awaited jointly.
func (p *Processor) Process(tourID string, cover *multipart.FileHeader, gallery []*multipart.FileHeader) (string, []string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	stamp := time.Now().UnixMilli()

	coverName := fmt.Sprintf("tour-%s-%d-cover.jpeg", tourID, stamp)
	if err := p.convert(cover, coverName); err != nil {
		return "", nil, err
	}

	names := make([]string, len(gallery))
	var g errgroup.Group
	for i, fh := range gallery {
		names[i] = fmt.Sprintf("tour-%s-%d-%d.jpeg", tourID, stamp, i+1)
		g.Go(func() error {
			return p.convert(fh, names[i])
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, err
	}

	p.log.Info("tour images processed", "tour_id", tourID, "cover", coverName, "gallery", len(names))
	return coverName, names, nil
}

func (p *Processor) convert(fh *multipart.FileHeader, name string) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image") {
		return apperrors.BadRequest("Not an image! Please upload only images.")
	}

	file, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return apperrors.BadRequest("Not an image! Please upload only images.")
	}

	resized := imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)
	if err := imaging.Save(resized, filepath.Join(p.dir, name), imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

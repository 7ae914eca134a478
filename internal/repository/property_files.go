package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
)

// Dataset file names inside the data directory
const (
	BasicsFile          = "property_basics.json"
	CharacteristicsFile = "property_characteristics.json"
	ImagesFile          = "property_images.json"
)

// rawProperty is the union of the fields that appear across the three files.
// Pointer fields distinguish "absent" from zero so later files only override
// what they actually carry.
type rawProperty struct {
	ID            model.FlexString   `json:"id"`
	Title         *model.FlexString  `json:"title"`
	Price         *model.FlexFloat   `json:"price"`
	Location      *model.FlexString  `json:"location"`
	Bedrooms      *model.FlexInt     `json:"bedrooms"`
	BedroomsCount *model.FlexInt     `json:"bedrooms_count"`
	BHK           *model.FlexInt     `json:"bhk"`
	Bathrooms     *model.FlexInt     `json:"bathrooms"`
	SizeSqft      *model.FlexFloat   `json:"size_sqft"`
	Amenities     *model.FlexStrings `json:"amenities"`
	ImageURL      *model.FlexString  `json:"image_url"`
	Image         *model.FlexString  `json:"image"`
}

// overlay copies every field present in src onto r
func (r *rawProperty) overlay(src rawProperty) {
	if src.Title != nil {
		r.Title = src.Title
	}
	if src.Price != nil {
		r.Price = src.Price
	}
	if src.Location != nil {
		r.Location = src.Location
	}
	if src.Bedrooms != nil {
		r.Bedrooms = src.Bedrooms
	}
	if src.BedroomsCount != nil {
		r.BedroomsCount = src.BedroomsCount
	}
	if src.BHK != nil {
		r.BHK = src.BHK
	}
	if src.Bathrooms != nil {
		r.Bathrooms = src.Bathrooms
	}
	if src.SizeSqft != nil {
		r.SizeSqft = src.SizeSqft
	}
	if src.Amenities != nil {
		r.Amenities = src.Amenities
	}
	if src.ImageURL != nil {
		r.ImageURL = src.ImageURL
	}
	if src.Image != nil {
		r.Image = src.Image
	}
}

func (r rawProperty) toModel() model.Property {
	p := model.Property{ID: strings.TrimSpace(r.ID.String())}
	if r.Title != nil {
		p.Title = strings.TrimSpace(r.Title.String())
	}
	if r.Price != nil {
		p.Price = float64(*r.Price)
	}
	if r.Location != nil {
		p.Location = strings.TrimSpace(r.Location.String())
	}
	// first non-zero of the bedroom spellings
	for _, b := range []*model.FlexInt{r.Bedrooms, r.BedroomsCount, r.BHK} {
		if b != nil && *b > 0 {
			p.Bedrooms = int(*b)
			break
		}
	}
	if r.Bathrooms != nil {
		p.Bathrooms = int(*r.Bathrooms)
	}
	if r.SizeSqft != nil {
		p.SizeSqft = float64(*r.SizeSqft)
	}
	if r.Amenities != nil {
		p.Amenities = []string(*r.Amenities)
	}
	switch {
	case r.ImageURL != nil && r.ImageURL.String() != "":
		p.ImageURL = r.ImageURL.String()
	case r.Image != nil:
		p.ImageURL = r.Image.String()
	}
	return p
}

// LoadProperties reads the three dataset files concurrently and merges them on id.
// Basics define the listing set and its order; characteristics and images
// enrich matching ids. Missing or corrupt files are logged and treated as empty.
func LoadProperties(ctx context.Context, dir string, logger *slog.Logger) ([]model.Property, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "property-files")

	files := []string{BasicsFile, CharacteristicsFile, ImagesFile}
	records := make([][]rawProperty, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs, err := readRecords(filepath.Join(dir, name))
			if err != nil {
				logger.Warn("property file unavailable, treating as empty", "file", name, "error", err)
				return nil
			}
			records[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	extras := make([]map[string]rawProperty, 0, 2)
	for _, recs := range records[1:] {
		byID := make(map[string]rawProperty, len(recs))
		for _, r := range recs {
			if id := strings.TrimSpace(r.ID.String()); id != "" {
				byID[id] = r
			}
		}
		extras = append(extras, byID)
	}

	properties := make([]model.Property, 0, len(records[0]))
	for _, base := range records[0] {
		id := strings.TrimSpace(base.ID.String())
		if id == "" {
			logger.Warn("skipping property without id")
			continue
		}
		merged := base
		for _, byID := range extras {
			if extra, ok := byID[id]; ok {
				merged.overlay(extra)
			}
		}
		properties = append(properties, merged.toModel())
	}

	logger.Debug("loaded properties", "count", len(properties), "dir", dir)
	return properties, nil
}

func readRecords(path string) ([]rawProperty, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s not found", filepath.Base(path))
		}
		return nil, err
	}
	var recs []rawProperty
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("invalid json in %s: %w", filepath.Base(path), err)
	}
	return recs, nil
}

package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mosaic-folio/backend/models"
	"github.com/rs/zerolog/log"
)

// Migrate creates or updates the schema and seeds the category table.
func (d Database) Migrate(ctx context.Context, categories []models.Category) error {
	if err := d.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := d.categoryRepo.Seed(ctx, categories); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	log.Info().Int("categories", len(categories)).Msg("Database schema up to date")
	return nil
}

// ParseCategories reads a "1:Portfolio,2:Landing page" list. An empty value
// yields models.DefaultCategories.
func ParseCategories(raw string) ([]models.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DefaultCategories, nil
	}

	var categories []models.Category
	seen := make(map[uint]bool)
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		idPart, name, ok := strings.Cut(item, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid category %q, expected id:name", item)
		}
		id, err := strconv.ParseUint(strings.TrimSpace(idPart), 10, 32)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid category id in %q", item)
		}
		if seen[uint(id)] {
			return nil, fmt.Errorf("duplicate category id %d", id)
		}
		seen[uint(id)] = true
		categories = append(categories, models.Category{ID: uint(id), Name: strings.TrimSpace(name)})
	}
	return categories, nil
}

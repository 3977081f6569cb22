package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog/log"
)

// ImportIngredientsCSV loads reference ingredients from a
// "name,measurement_unit" CSV dump. Idempotent: names already present
// are skipped, so the import can be re-run against the same file.
func ImportIngredientsCSV(path string, repo *database.IngredientRepo) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening ingredients CSV: %w", err)
	}
	defer file.Close()

	ingredients, err := parseIngredientsCSV(file)
	if err != nil {
		return 0, err
	}

	inserted, err := repo.AddMissing(ingredients)
	if err != nil {
		return 0, fmt.Errorf("inserting ingredients: %w", err)
	}

	log.Info().
		Str("path", path).
		Int("parsed", len(ingredients)).
		Int64("inserted", inserted).
		Msg("ingredient import finished")
	return inserted, nil
}

func parseIngredientsCSV(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var ingredients []models.Ingredient
	seen := make(map[string]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ingredients CSV: %w", err)
		}
		name, unit := record[0], record[1]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ingredients = append(ingredients, models.Ingredient{
			Name:            name,
			MeasurementUnit: unit,
		})
	}
	return ingredients, nil
}

package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ShoppingListFilename is the attachment name for the rendered list.
const ShoppingListFilename = "shopping_cart.txt"

// ShoppingListService builds the merged purchase list for a user's
// cart. A pure read: no row is mutated, and an empty cart yields an
// empty list rather than an error.
type ShoppingListService struct {
	logger           zerolog.Logger
	shoppingListRepo *database.ShoppingListRepo
}

func NewShoppingListService(shoppingListRepo *database.ShoppingListRepo) *ShoppingListService {
	logger := log.With().Str("serviceName", "shoppingListService").Logger()

	return &ShoppingListService{
		logger:           logger,
		shoppingListRepo: shoppingListRepo,
	}
}

// Build returns one record per (ingredient name, measurement unit) with
// the amounts summed across every recipe in the user's cart.
func (s *ShoppingListService) Build(userID uuid.UUID) ([]database.ShoppingListRow, error) {
	rows, err := s.shoppingListRepo.Aggregate(userID)
	if err != nil {
		return nil, errs.NewStorageError("aggregate", "shopping list", err)
	}
	return rows, nil
}

// RenderText flattens the aggregated rows into the downloadable
// text/plain body: a header naming the user, then one line per
// ingredient as "{name} ({unit}) - {total}".
func RenderText(username string, rows []database.ShoppingListRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, fmt.Sprintf("Shopping list for %s\n", username))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", row.Name, row.MeasurementUnit, row.TotalAmount))
	}
	return strings.Join(lines, "\n")
}

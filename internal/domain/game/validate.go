package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the document is complete enough to publish: an event id, a
// timestamp, and teams with unique non-empty ids carrying stats maps.
func Validate(ctx context.Context, g Game) error {
	if err := validatorInstance().StructCtx(ctx, g); err != nil {
		return fmt.Errorf("invalid game %q: %w", g.EventID, err)
	}
	if g.Teams == nil {
		return fmt.Errorf("invalid game %q: teams must not be null", g.EventID)
	}
	return nil
}

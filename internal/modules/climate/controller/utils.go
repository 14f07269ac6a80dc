package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// statsParams holds the path parameters of the temperature stats routes.
type statsParams struct {
	Start string `validate:"required,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

func parseStatsParams(start, end string) (statsParams, error) {
	p := statsParams{
		Start: strings.TrimSpace(start),
		End:   strings.TrimSpace(end),
	}
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return statsParams{}, fmt.Errorf("invalid '%s' date %q (expected YYYY-MM-DD)",
				strings.ToLower(fe.Field()), fe.Value())
		}
		return statsParams{}, err
	}
	return p, nil
}

package util

import (
	"fmt"
	"strconv"

	"github.com/mpapenbr/gp-playoffs/pkg/config"
)

// ParseYears converts the command arguments into season years.
// No arguments yield the default seasons.
func ParseYears(args []string) ([]int, error) {
	if len(args) == 0 {
		return config.DefaultSeasons, nil
	}
	ret := make([]int, 0, len(args))
	for _, arg := range args {
		year, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", arg, err)
		}
		ret = append(ret, year)
	}
	return ret, nil
}

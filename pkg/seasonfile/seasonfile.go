// Package seasonfile reads and writes season snapshots as json files.
package seasonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mpapenbr/gp-playoffs/pkg/model"
)

func Load(file string) (*model.Season, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var ret model.Season
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	if ret.Races == nil {
		ret.Races = []model.Race{}
	}
	return &ret, nil
}

func Save(file string, s *model.Season) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o600)
}

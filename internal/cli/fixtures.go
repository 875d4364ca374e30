package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

// loadDataset reads the three facility collections from a JSON or YAML file.
// Format is chosen by extension; anything other than .json is parsed as YAML.
func loadDataset(path string) (models.FacilityDataset, error) {
	var data models.FacilityDataset
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &data)
	} else {
		err = yaml.Unmarshal(raw, &data)
	}
	if err != nil {
		return data, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}

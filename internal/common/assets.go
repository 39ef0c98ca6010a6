package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// AssetConfig is one custody asset the tools may submit against
type AssetConfig struct {
	Id      string `yaml:"id"`
	Symbol  string `yaml:"symbol"`
	Network string `yaml:"network"`
}

type AssetsConfig struct {
	Assets []AssetConfig `yaml:"assets"`
}

func LoadAssetConfig(assetsFile string) ([]AssetConfig, error) {
	var assetsPath string
	if filepath.IsAbs(assetsFile) {
		assetsPath = assetsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		assetsPath = filepath.Join(wd, assetsFile)
	}

	data, err := os.ReadFile(assetsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", assetsFile, err)
	}

	var config AssetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", assetsFile, err)
	}
	if len(config.Assets) == 0 {
		return nil, fmt.Errorf("no assets defined in %s", assetsFile)
	}

	seen := make(map[string]bool, len(config.Assets))
	for i, asset := range config.Assets {
		if asset.Id == "" {
			return nil, fmt.Errorf("asset at index %d missing id", i)
		}
		if asset.Network == "" {
			return nil, fmt.Errorf("asset %s missing network", asset.Id)
		}
		if seen[asset.Id] {
			return nil, fmt.Errorf("duplicate asset id %s", asset.Id)
		}
		seen[asset.Id] = true
	}

	return config.Assets, nil
}

// LoadAssetIds returns the custody asset ids listed in assetsFile
func LoadAssetIds(assetsFile string) ([]string, error) {
	assets, err := LoadAssetConfig(assetsFile)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(assets))
	for i, asset := range assets {
		ids[i] = asset.Id
	}

	return ids, nil
}

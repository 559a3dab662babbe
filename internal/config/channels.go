package config

import (
	"fmt"
	"os"
	"sort"

	"centraldoconsumidor/backend/internal/models"

	"gopkg.in/yaml.v3"
)

// External channel names as shown to consumers.
const (
	ChannelProcon           = "Procon"
	ChannelReclameAqui      = "Reclame Aqui"
	ChannelAnatel           = "Anatel"
	ChannelBancoCentral     = "Banco Central"
	ChannelANS              = "ANS"
	ChannelMEC              = "MEC"
	ChannelOuvidoria        = "Ouvidoria da Empresa"
	ChannelOuvidoriaBanco   = "Ouvidoria do Banco"
	ChannelOuvidoriaEnsino  = "Ouvidoria da Instituição"
	ChannelMinisterioPublic = "Ministério Público"
	ChannelDefensoria       = "Defensoria Pública"
)

// ChannelTable maps a channel name to its historical effectiveness.
// A loaded table is never mutated.
type ChannelTable map[string]models.ChannelEffectiveness

// Lookup returns the effectiveness of a channel.
func (t ChannelTable) Lookup(channel string) (models.ChannelEffectiveness, bool) {
	eff, ok := t[channel]
	return eff, ok
}

// Names returns the channel names in alphabetical order.
func (t ChannelTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultChannelTable returns a fresh copy of the built-in effectiveness data.
func DefaultChannelTable() ChannelTable {
	return ChannelTable{
		ChannelProcon:           {SuccessRate: 0.75, AvgTime: 45},
		ChannelReclameAqui:      {SuccessRate: 0.65, AvgTime: 30},
		ChannelAnatel:           {SuccessRate: 0.80, AvgTime: 60},
		ChannelBancoCentral:     {SuccessRate: 0.85, AvgTime: 90},
		ChannelANS:              {SuccessRate: 0.78, AvgTime: 75},
		ChannelMEC:              {SuccessRate: 0.70, AvgTime: 120},
		ChannelOuvidoria:        {SuccessRate: 0.55, AvgTime: 15},
		ChannelMinisterioPublic: {SuccessRate: 0.90, AvgTime: 180},
		ChannelDefensoria:       {SuccessRate: 0.88, AvgTime: 150},
	}
}

// CategoryAffinity holds the score multipliers a category gives to its
// specialised channels. Pairs not listed use a multiplier of 1.
var CategoryAffinity = map[models.Category]map[string]float64{
	models.CategoryTelecom:   {ChannelAnatel: 1.3, ChannelProcon: 1.1},
	models.CategoryBanking:   {ChannelBancoCentral: 1.4, ChannelProcon: 1.2},
	models.CategoryHealth:    {ChannelANS: 1.3, ChannelProcon: 1.1},
	models.CategoryEducation: {ChannelMEC: 1.3, ChannelProcon: 1.1},
}

// Affinity returns the multiplier for a (category, channel) pair.
func Affinity(category models.Category, channel string) float64 {
	if m, ok := CategoryAffinity[category][channel]; ok {
		return m
	}
	return 1
}

type channelTableFile struct {
	Channels map[string]models.ChannelEffectiveness `yaml:"channels"`
}

// LoadChannelTable returns the default table with the entries of the YAML
// file at path merged over it. An empty path returns the defaults.
//
//	channels:
//	  Procon:
//	    success_rate: 0.75
//	    avg_time_days: 45
func LoadChannelTable(path string) (ChannelTable, error) {
	table := DefaultChannelTable()
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel table %s: %w", path, err)
	}

	var file channelTableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse channel table %s: %w", path, err)
	}

	for name, eff := range file.Channels {
		if name == "" {
			return nil, fmt.Errorf("channel table %s: empty channel name", path)
		}
		if eff.SuccessRate < 0 || eff.SuccessRate > 1 {
			return nil, fmt.Errorf("channel table %s: %s success_rate %.2f out of [0,1]", path, name, eff.SuccessRate)
		}
		if eff.AvgTime < 0 {
			return nil, fmt.Errorf("channel table %s: %s avg_time_days must not be negative", path, name)
		}
		table[name] = eff
	}
	return table, nil
}

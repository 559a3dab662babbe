package models

// ChannelEffectiveness is the historical performance of an external channel.
type ChannelEffectiveness struct {
	SuccessRate float64 `yaml:"success_rate" json:"success_rate"`
	AvgTime     int     `yaml:"avg_time_days" json:"avg_time"`
	Cost        float64 `yaml:"cost" json:"cost"`
}

// ChannelRecommendation is a scored, explained candidate channel for a complaint.
type ChannelRecommendation struct {
	Channel       string               `json:"channel"`
	Score         int                  `json:"score"`
	Explanation   string               `json:"explanation"`
	Effectiveness ChannelEffectiveness `json:"effectiveness"`
	Recommended   bool                 `json:"recommended"`
}

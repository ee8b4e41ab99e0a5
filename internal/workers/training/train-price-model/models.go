// internal/workers/training/train-price-model/models.go
package trainpricemodel

type Input struct {
	// RequestedBy is logged with the run.
	RequestedBy string `json:"requestedBy,omitempty"`
}

type Output struct {
	ModelVersion string         `json:"modelVersion"`
	RecordsIn    int            `json:"recordsIn"`
	RecordsUsed  int            `json:"recordsUsed"`
	Dropped      map[string]int `json:"dropped"`
	CVR2         float64        `json:"cvR2"`
	TestR2       float64        `json:"testR2"`
	TestMAE      float64        `json:"testMae"`
	TestRMSE     float64        `json:"testRmse"`
	DurationMs   int64          `json:"durationMs"`
}

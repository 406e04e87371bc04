package models

// Sound represents a captured sound sample attached to a request
type Sound struct {
	ID         int    `json:"id"`
	Frequency  int    `json:"frequency"`   // Hz
	NoiseLevel string `json:"noise_level"` // "low", "medium", "high"
}

// SensorData represents a sensor snapshot attached to a request
type SensorData struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Purpose   string `json:"purpose"`
}

// Request represents a user request entering the analysis pipeline
type Request struct {
	ID                  string `json:"id"`
	Language            string `json:"language"`
	Purpose             string `json:"purpose"`
	RecognitionAccuracy int    `json:"recognition_accuracy"` // percent
}

// Analysis represents the output of an analysis strategy
type Analysis struct {
	ID         string  `json:"id"`
	Result     string  `json:"result"`
	Confidence float64 `json:"confidence"` // 0-1
}

// Decision represents the decision derived from an analysis
type Decision struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

// Response represents the reply generated for a decision
type Response struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Message  string `json:"message"`
}

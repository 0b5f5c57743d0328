package entities

// ScoreBundle carries the four rubric scores for one scoring request.
// Completeness and Accuracy are integers; Fluency and Pronunciation keep two
// decimal places. All values lie in [0, 100].
type ScoreBundle struct {
	Completeness  int     `json:"Completeness"`
	Accuracy      int     `json:"Accuracy"`
	Fluency       float64 `json:"Fluency"`
	Pronunciation float64 `json:"Pronunciation"`
}

// ScoreRequest is the semantic scoring request: two base64-wrapped audio
// payloads with their declared container formats, and the target phrase.
type ScoreRequest struct {
	Pronunciation             string `json:"Pronunciation"`
	PronunciationFormat       string `json:"PronunciationFormat"`
	PronunciationNative       string `json:"PronunciationNative"`
	PronunciationNativeFormat string `json:"PronunciationNativeFormat"`
	Phrase                    string `json:"Phrase"`
}

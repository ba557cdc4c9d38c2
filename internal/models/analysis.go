package models

// SingleKeywordStat is one row of the density table produced by the remote
// analyzer. Density is a percentage in [0, 100].
type SingleKeywordStat struct {
	Keyword        string  `json:"keyword"`
	Density        float64 `json:"density"`
	TimesUsed      int     `json:"timesUsed"`
	IsStopword     bool    `json:"isStopword"`
	IsOverFrequent bool    `json:"isOverFrequent,omitempty"`
}

// PhraseStat is a repeated multi-word phrase reported by the analyzer.
type PhraseStat struct {
	Phrase    string `json:"phrase"`
	TimesUsed int    `json:"timesUsed"`
}

// AnalysisResult is the opaque output of the analyze endpoint.
type AnalysisResult struct {
	SingleKeywords []SingleKeywordStat `json:"singleKeywords"`
	Stopwords      []SingleKeywordStat `json:"stopwords"`
	Phrases        []PhraseStat        `json:"phrases"`
	TotalWords     int                 `json:"totalWords"`
	UniqueWords    int                 `json:"uniqueWords"`
}

// AllKeywords returns single keywords followed by stopwords. Entries from
// the stopword list are always flagged IsStopword, whatever the analyzer
// sent, so the highlighter drops them again.
func (r *AnalysisResult) AllKeywords() []SingleKeywordStat {
	if r == nil {
		return nil
	}
	all := make([]SingleKeywordStat, 0, len(r.SingleKeywords)+len(r.Stopwords))
	all = append(all, r.SingleKeywords...)
	for _, s := range r.Stopwords {
		s.IsStopword = true
		all = append(all, s)
	}
	return all
}

// SpamRiskDetail is one finding in a spam-risk report.
type SpamRiskDetail struct {
	Word    string  `json:"word,omitempty"`
	Count   int     `json:"count,omitempty"`
	Density float64 `json:"density,omitempty"`
	Message string  `json:"message,omitempty"`
}

// SpamRiskResult is the outcome of the spam-check endpoint.
type SpamRiskResult struct {
	Success bool             `json:"success"`
	Risk    float64          `json:"risk"`
	Level   string           `json:"level"`
	Details []SpamRiskDetail `json:"details"`
	Link    string           `json:"link,omitempty"`
	Error   string           `json:"error,omitempty"`
}

package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type SweepFinishedMailData struct {
	Name           string  `json:"name"`
	SweepID        string  `json:"sweepID"`
	Status         string  `json:"status"`
	Error          string  `json:"error"`
	Combinations   int     `json:"combinations"`
	FailedTrials   int     `json:"failedTrials"`
	BestMutation   string  `json:"bestMutation"`
	BestCrossover  string  `json:"bestCrossover"`
	BestSelection  string  `json:"bestSelection"`
	BestEliteCount int     `json:"bestEliteCount"`
	BestAvgFitness float64 `json:"bestAvgFitness"`
	BestFitness    float64 `json:"bestFitness"`
}

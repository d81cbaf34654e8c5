package domain

type OutcomeStatus string

const (
	OutcomeTranslated OutcomeStatus = "translated"
	OutcomeSkipped    OutcomeStatus = "skipped"
	OutcomeFailed     OutcomeStatus = "failed"
)

func (s OutcomeStatus) String() string {
	return string(s)
}

// TranslationAttempt records one request/validate cycle of the retry loop.
type TranslationAttempt struct {
	Locale           string   `json:"locale"`
	Field            FieldKey `json:"field"`
	AttemptNumber    int      `json:"attempt_number"`
	RawModelOutput   string   `json:"raw_model_output"`
	ExtractedText    string   `json:"extracted_text"`
	Considerations   string   `json:"considerations"`
	PassedConstraint bool     `json:"passed_constraint"`
}

// TranslationOutcome is the terminal classification of one locale/field pair.
type TranslationOutcome struct {
	Locale         string        `json:"locale"`
	Field          FieldKey      `json:"field"`
	FinalText      string        `json:"final_text,omitempty"`
	Considerations string        `json:"considerations"`
	Status         OutcomeStatus `json:"status"`
	Reason         string        `json:"reason"`
	Attempts       int           `json:"attempts,omitempty"`
}

// Label formats the pair as "folder/file".
func (o TranslationOutcome) Label() string {
	return o.Locale + "/" + o.Field.FileName()
}

type CampaignReport struct {
	Outcomes []TranslationOutcome
}

func (r *CampaignReport) Add(outcome TranslationOutcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

func (r *CampaignReport) Succeeded() []TranslationOutcome {
	return r.filter(OutcomeTranslated)
}

func (r *CampaignReport) Skipped() []TranslationOutcome {
	return r.filter(OutcomeSkipped)
}

func (r *CampaignReport) Failed() []TranslationOutcome {
	return r.filter(OutcomeFailed)
}

func (r *CampaignReport) filter(status OutcomeStatus) []TranslationOutcome {
	out := make([]TranslationOutcome, 0)
	for _, o := range r.Outcomes {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// AuditEntry is one field inside full_translation.json.
type AuditEntry struct {
	Translation    string `json:"translation"`
	Considerations string `json:"considerations"`
}

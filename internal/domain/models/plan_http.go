package models

// Requests for the planning HTTP endpoints.

type TargetRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=64"`
	Price       float64 `json:"price" validate:"gt=0,lte=100000"`
	LaunchMonth string  `json:"launch_month" validate:"omitempty,datetime=2006-01"`
	Upcoming    bool    `json:"upcoming"`
}

type SnippetRequest struct {
	Title       string `json:"title" validate:"max=2000"`
	Description string `json:"description" validate:"max=20000"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source" default:"unknown" validate:"max=64"`
}

// OptionsRequest leaves unset knobs at zero so the configured engine defaults apply.
type OptionsRequest struct {
	LookbackMonths          int                `json:"lookback_months" validate:"omitempty,gte=1,lte=120"`
	HorizonMonths           int                `json:"horizon_months" validate:"omitempty,gte=1,lte=60"`
	TopN                    int                `json:"top_n" validate:"omitempty,gte=1,lte=100"`
	IncompatibilitySeverity float64            `json:"incompatibility_severity" validate:"omitempty,gt=0,lte=1"`
	VarianceAmplitude       float64            `json:"variance_amplitude" validate:"omitempty,gt=0,lte=0.5"`
	Seed                    int64              `json:"seed"`
	FutureProducts          []string           `json:"future_products" validate:"max=50,dive,max=200"`
	InterestScores          map[string]float64 `json:"interest_scores" validate:"max=100,dive,gte=0,lte=100"`
}

type PlanRequest struct {
	Target   TargetRequest    `json:"target"`
	Snippets []SnippetRequest `json:"snippets" validate:"max=500,dive"`
	Options  OptionsRequest   `json:"options"`
	Discover bool             `json:"discover"`
}

// ToInput converts a validated request into planner input.
func (r *PlanRequest) ToInput() PlanInput {
	snippets := make([]RawCandidateSnippet, 0, len(r.Snippets))
	for _, s := range r.Snippets {
		snippets = append(snippets, RawCandidateSnippet{
			Title:       s.Title,
			Description: s.Description,
			PublishedAt: s.PublishedAt,
			Source:      s.Source,
		})
	}
	return PlanInput{
		Target: TargetProduct{
			Name:        r.Target.Name,
			Category:    r.Target.Category,
			Price:       r.Target.Price,
			LaunchMonth: r.Target.LaunchMonth,
			Upcoming:    r.Target.Upcoming,
		},
		Snippets: snippets,
		Options: EngineOptions{
			LookbackMonths:          r.Options.LookbackMonths,
			HorizonMonths:           r.Options.HorizonMonths,
			TopN:                    r.Options.TopN,
			IncompatibilitySeverity: r.Options.IncompatibilitySeverity,
			VarianceAmplitude:       r.Options.VarianceAmplitude,
			Seed:                    r.Options.Seed,
			FutureProducts:          r.Options.FutureProducts,
			InterestScores:          r.Options.InterestScores,
		},
		Discover: r.Discover,
	}
}

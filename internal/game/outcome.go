package game

type Verdict int

const (
	VerdictGood Verdict = iota
	VerdictGrim
)

func (v Verdict) String() string {
	switch v {
	case VerdictGood:
		return "good"
	case VerdictGrim:
		return "grim"
	default:
		return "unknown"
	}
}

type Assessment struct {
	Verdict      Verdict
	Saved        int
	Deaths       int
	SurvivalRate float64 // percent, 100 when no bird has been counted
	Description  string
}

// SurvivalRate returns saved/(saved+deaths) as a percentage, or 100 when no
// bird has been counted yet.
func SurvivalRate(saved, deaths int) float64 {
	total := saved + deaths
	if total <= 0 {
		return 100
	}
	return float64(saved) / float64(total) * 100
}

func DetermineVerdict(saved, deaths int) Assessment {
	a := Assessment{
		Verdict:      VerdictGood,
		Saved:        saved,
		Deaths:       deaths,
		SurvivalRate: SurvivalRate(saved, deaths),
	}

	switch {
	case saved == 0 && deaths == 0:
		a.Description = "no_birds_counted"
	case deaths > saved:
		a.Verdict = VerdictGrim
		a.Description = "deaths_exceed_saves"
	case deaths == 0:
		a.Description = "no_casualties"
	case deaths == saved:
		a.Description = "even_losses"
	default:
		a.Description = "saves_exceed_deaths"
	}
	return a
}

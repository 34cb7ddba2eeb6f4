// Package planning generates the four-week production cycles of the
// acquisition pole.
package planning

// Step is one week of the production workflow.
type Step struct {
	Week  int      `json:"week"`
	Phase string   `json:"phase"`
	Color string   `json:"color"`
	Icon  string   `json:"icon"`
	Tasks []string `json:"tasks"`
}

var workflow = []Step{
	{
		Week:  4,
		Phase: "Réunion et validation stratégie client",
		Color: "#8B5CF6",
		Icon:  "🤝",
		Tasks: []string{
			"Réunion stratégie avec client",
			"Validation des objectifs",
			"Définition du budget",
			"Planning timeline",
			"Briefing équipes",
		},
	},
	{
		Week:  1,
		Phase: "Brief créative et mailing",
		Color: "#3B82F6",
		Icon:  "🎯",
		Tasks: []string{
			"Brief créatif détaillé",
			"Stratégie mailing automation",
			"Définition personas",
			"Moodboard et références",
			"Validation brief créatif",
		},
	},
	{
		Week:  2,
		Phase: "Design",
		Color: "#EF4444",
		Icon:  "🎨",
		Tasks: []string{
			"Création visuels publicitaires",
			"Design vidéos créatives",
			"Maquettes emailing",
			"Validation designs",
			"Déclinaisons formats",
		},
	},
	{
		Week:  3,
		Phase: "Intégration",
		Color: "#10B981",
		Icon:  "⚙️",
		Tasks: []string{
			"Setup campagnes publicitaires",
			"Intégration emailings",
			"Tests techniques",
			"Configuration tracking",
			"Validation finale",
		},
	},
}

// Workflow returns the workflow steps in display order.
func Workflow() []Step {
	out := make([]Step, len(workflow))
	for i, s := range workflow {
		s.Tasks = append([]string(nil), s.Tasks...)
		out[i] = s
	}
	return out
}

// StepForWeek returns the step scheduled for workflow week n.
func StepForWeek(n int) (Step, bool) {
	for _, s := range Workflow() {
		if s.Week == n {
			return s, true
		}
	}
	return Step{}, false
}

package roster

// Pole identifies the functional team an activity is billed against.
type Pole string

const (
	PoleAds         Pole = "ADS"
	PoleCreative    Pole = "CREATIVE"
	PoleIntegration Pole = "INTEGRATION"
	PoleSocial      Pole = "SOCIAL"
)

// Poles lists every pole in canonical display order.
func Poles() []Pole {
	return []Pole{PoleAds, PoleCreative, PoleIntegration, PoleSocial}
}

// Valid reports whether p belongs to the closed pole set.
func (p Pole) Valid() bool {
	switch p {
	case PoleAds, PoleCreative, PoleIntegration, PoleSocial:
		return true
	}
	return false
}

// ActivityType further categorises an activity for display.
type ActivityType string

const (
	TypeAdsManagement   ActivityType = "ADS_MANAGEMENT"
	TypeAdsStrategy     ActivityType = "ADS_STRATEGY"
	TypeAdsMailing      ActivityType = "ADS_MAILING"
	TypeAdsReporting    ActivityType = "ADS_REPORTING"
	TypeCreativeDesign  ActivityType = "CREATIVE_DESIGN"
	TypeCreativeMailing ActivityType = "CREATIVE_MAILING"
	TypeIntegration     ActivityType = "INTEGRATION"
	TypeSocial          ActivityType = "SOCIAL"
)

// Priority is display-only.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ClientType is the only dimension projects are filtered on.
type ClientType string

const (
	ClientEcommerce    ClientType = "ecommerce"
	ClientNonEcommerce ClientType = "non-ecommerce"
)

// Activity is one unit of recurring monthly work.
type Activity struct {
	Name string  `json:"name" validate:"required"`
	Days float64 `json:"days" validate:"gte=0"`
	// Hours is an annotation only and never enters a total.
	Hours *float64     `json:"hours,omitempty" validate:"omitempty,gte=0"`
	Type  ActivityType `json:"type" validate:"required,oneof=ADS_MANAGEMENT ADS_STRATEGY ADS_MAILING ADS_REPORTING CREATIVE_DESIGN CREATIVE_MAILING INTEGRATION SOCIAL"`
	Pole  Pole         `json:"pole" validate:"required,oneof=ADS CREATIVE INTEGRATION SOCIAL"`
}

// Project is one client engagement. TotalDaysSold is supplied by the data
// source and is not required to match the sum of activity days.
type Project struct {
	Client        string     `json:"client" validate:"required"`
	TotalDaysSold float64    `json:"totalDaysSold" validate:"gte=0"`
	TotalAdsCount float64    `json:"totalAdsCount" validate:"gte=0"`
	Priority      Priority   `json:"priority" validate:"required,oneof=HIGH MEDIUM LOW"`
	ClientType    ClientType `json:"clientType" validate:"required,oneof=ecommerce non-ecommerce"`
	Activities    []Activity `json:"activities" validate:"dive"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	if p.Activities != nil {
		out.Activities = make([]Activity, len(p.Activities))
		for i, a := range p.Activities {
			out.Activities[i] = a.Clone()
		}
	}
	return out
}

// Clone returns a copy that does not share the Hours pointer.
func (a Activity) Clone() Activity {
	out := a
	if a.Hours != nil {
		h := *a.Hours
		out.Hours = &h
	}
	return out
}

// ActivityDays sums the days of every activity regardless of the stored total.
func (p Project) ActivityDays() float64 {
	var sum float64
	for _, a := range p.Activities {
		sum += a.Days
	}
	return sum
}

package kin

// Gender is used only to pick gendered kinship labels; it carries no other
// meaning in the engine.
type Gender string

// Recognized genders. Anything else is treated as GenderUnknown and maps to
// neutral label variants.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = ""
)

// Legitimacy records how a person relates to their house's main line.
// It drives layout line-system selection (bastard and adopted children hang
// from offset connector lines) and nothing else.
type Legitimacy string

// Recognized legitimacy statuses.
const (
	Legitimate        Legitimacy = "legitimate"
	Bastard           Legitimacy = "bastard"
	Adopted           Legitimacy = "adopted"
	Foster            Legitimacy = "foster"
	LegitimacyUnknown Legitimacy = "unknown"
)

// Person is one individual in the kinship graph. The engine treats Person
// records as read-only input; they are owned by the store.
type Person struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Gender     Gender      `json:"gender,omitempty" yaml:"gender,omitempty"`
	Birth      PartialDate `json:"birth,omitempty" yaml:"birth,omitempty"`
	Death      PartialDate `json:"death,omitempty" yaml:"death,omitempty"`
	Legitimacy Legitimacy  `json:"legitimacy,omitempty" yaml:"legitimacy,omitempty"`
	HouseID    string      `json:"house_id,omitempty" yaml:"house_id,omitempty"`
}

// DisplayName returns the person's name, falling back to the ID.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// House groups people into a named line. A cadet house carries a link to the
// parent house and the bastard who founded it; the link matters only for
// scope resolution, never for the kinship algorithms.
type House struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	ParentHouseID string `json:"parent_house_id,omitempty" yaml:"parent_house_id,omitempty"`
	FounderID     string `json:"founder_id,omitempty" yaml:"founder_id,omitempty"`
}

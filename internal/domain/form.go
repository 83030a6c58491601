package domain

import "strings"

// Form is a user's land profile, filled in through the forms endpoints.
// The agent treats it as an immutable snapshot for the duration of one turn.
type Form struct {
	ID     FormID
	UserID UserID

	Location   string // District / City / Village
	AreaType   string // Plain / Hilly / River-side / Dry
	SoilType   string // Loamy / Sandy / Clay / Don't know
	WaterSrc   string // Rain-fed / Tube well / Canal / River
	Irrigation string // Yes / No / Sometimes

	Temperature string // Cold / Moderate / Hot
	Rainfall    string // Low / Medium / High
	Sunlight    string // Few / Moderate / Long hours

	LandSize      string // acres or hectares, free text
	Goal          Goal   // Profit / Climate-safe / Organic / Experiment
	CropDuration  string // 2-3 months / 6-12 months
	SpecificCrop  string
	Fertilizers   string // use fertilizers or prefer organic methods
	LastPlantedAt string

	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// IsEmpty reports whether the form carries no usable profile data.
// A nil form and a zero form are both valid "no profile yet" states.
func (f *Form) IsEmpty() bool {
	if f == nil {
		return true
	}
	return strings.TrimSpace(f.Location) == "" &&
		strings.TrimSpace(f.SoilType) == "" &&
		strings.TrimSpace(f.LandSize) == ""
}

// Fields returns the form's prompt-visible fields in a stable order.
// Empty fields are skipped so a sparse form does not pad the prompt.
func (f *Form) Fields() []FormField {
	if f == nil {
		return nil
	}
	all := []FormField{
		{"location", f.Location},
		{"area_type", f.AreaType},
		{"soil_type", f.SoilType},
		{"water_source", f.WaterSrc},
		{"irrigation", f.Irrigation},
		{"temperature", f.Temperature},
		{"rainfall", f.Rainfall},
		{"sunlight", f.Sunlight},
		{"land_size", f.LandSize},
		{"goal", string(f.Goal)},
		{"crop_duration", f.CropDuration},
		{"specific_crop", f.SpecificCrop},
		{"fertilizers_preference", f.Fertilizers},
		{"last_planted_at", f.LastPlantedAt},
	}
	out := make([]FormField, 0, len(all))
	for _, fld := range all {
		if strings.TrimSpace(fld.Value) != "" {
			out = append(out, fld)
		}
	}
	return out
}

// FormField is one key/value pair of a serialized form.
type FormField struct {
	Key   string
	Value string
}

package domain

// Ingredient is reference data. (Name, MeasurementUnit) is unique.
type Ingredient struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

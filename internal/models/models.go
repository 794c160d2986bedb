package models

// City is one row of the directory. Key is assigned when the working set is
// loaded and is unique even when names collide.
type City struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

// Weather is the readout shown in the detail panel.
type Weather struct {
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Pressure    float64 `json:"pressure"`
}

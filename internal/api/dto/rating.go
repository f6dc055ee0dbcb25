package dto

type RateDTO struct {
	Overall    int8  `json:"overall" validate:"required,min=1,max=5"`
	Longevity  *int8 `json:"longevity,omitempty" validate:"omitempty,min=1,max=5"`
	Sillage    *int8 `json:"sillage,omitempty" validate:"omitempty,min=1,max=5"`
	Gender     *int8 `json:"gender,omitempty" validate:"omitempty,min=1,max=5"`
	PriceValue *int8 `json:"price_value,omitempty" validate:"omitempty,min=1,max=5"`
}

type RatingSummaryDTO struct {
	Overall    float64 `json:"overall"`
	Longevity  float64 `json:"longevity"`
	Sillage    float64 `json:"sillage"`
	Gender     float64 `json:"gender"`
	PriceValue float64 `json:"price_value"`
	Count      int64   `json:"count"`
}

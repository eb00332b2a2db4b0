package transport

type CreateVillaRequest struct {
	Name      string  `json:"name"      form:"name"`
	Details   string  `json:"details"   form:"details"`
	Rate      float64 `json:"rate"      form:"rate"`
	Occupancy int     `json:"occupancy" form:"occupancy"`
	Sqft      int     `json:"sqft"      form:"sqft"`
	Amenity   string  `json:"amenity"   form:"amenity"`
}

type UpdateVillaRequest struct {
	Name      *string  `json:"name"      form:"name"`
	Details   *string  `json:"details"   form:"details"`
	Rate      *float64 `json:"rate"      form:"rate"`
	Occupancy *int     `json:"occupancy" form:"occupancy"`
	Sqft      *int     `json:"sqft"      form:"sqft"`
	Amenity   *string  `json:"amenity"   form:"amenity"`
}

type CreateVillaNumberRequest struct {
	VillaNo        int    `json:"villaNo"`
	VillaID        uint   `json:"villaId"`
	SpecialDetails string `json:"specialDetails"`
}

type UpdateVillaNumberRequest struct {
	VillaID        *uint   `json:"villaId"`
	SpecialDetails *string `json:"specialDetails"`
}

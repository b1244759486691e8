package models

// Floor is a deliverable floor inside a building.
type Floor struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// Building is a delivery building and its floors (a tree of depth two).
type Building struct {
	Code   string  `json:"code"`
	Title  string  `json:"title"`
	Floors []Floor `json:"floors"`
}

// HasFloor reports whether the floor code belongs to this building.
func (b Building) HasFloor(code string) bool {
	for _, f := range b.Floors {
		if f.Code == code {
			return true
		}
	}
	return false
}

// DeliveryPlace is a chosen (building, floor) pair.
type DeliveryPlace struct {
	BuildingCode string `json:"buildingCode"`
	FloorCode    string `json:"floorCode"`
}

// IsSet reports whether both levels of the place are chosen.
func (p DeliveryPlace) IsSet() bool {
	return p.BuildingCode != "" && p.FloorCode != ""
}

// PendingIntent is the single deferred add-item intent captured when an add
// is attempted before any delivery place is known. One slot only; a newer
// intent overwrites an older one.
type PendingIntent struct {
	ItemID int      `json:"itemId"`
	Date   Date     `json:"date"`
	Meal   MealType `json:"meal"`
}

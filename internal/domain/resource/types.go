package resource

type Category string

const (
	CategoryRoom      Category = "room"
	CategoryDesk      Category = "desk"
	CategoryEquipment Category = "equipment"
	CategoryVehicle   Category = "vehicle"
	CategoryOther     Category = "other"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryRoom, CategoryDesk, CategoryEquipment, CategoryVehicle, CategoryOther:
		return true
	default:
		return false
	}
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

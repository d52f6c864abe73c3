package mapstate

// Field is one user-editable input paired with its latest validation result.
// An empty ErrorMessage means the field is valid or has never been validated;
// the two cases are not distinguished.
type Field struct {
	Value        string
	ErrorMessage string
}

// Valid reports whether the field carries no validation error.
func (f Field) Valid() bool {
	return f.ErrorMessage == ""
}

// WithValue returns a copy of f with Value replaced and ErrorMessage kept.
func (f Field) WithValue(value string) Field {
	f.Value = value
	return f
}

// WithError returns a copy of f with ErrorMessage replaced.
func (f Field) WithError(msg string) Field {
	f.ErrorMessage = msg
	return f
}

// PointField selects one input of the go-to-point dialog.
type PointField int

const (
	PointLatitude PointField = iota
	PointLongitude
)

func (f PointField) String() string {
	switch f {
	case PointLatitude:
		return "latitude"
	case PointLongitude:
		return "longitude"
	default:
		return "unknown"
	}
}

// ParsePointField maps a field token ("latitude", "longitude") to a
// PointField. ok is false for any other token.
func ParsePointField(token string) (PointField, bool) {
	switch token {
	case "latitude":
		return PointLatitude, true
	case "longitude":
		return PointLongitude, true
	}
	return 0, false
}

// FavoriteField selects one input of the add-to-favorites dialog.
type FavoriteField int

const (
	FavoriteName FavoriteField = iota
	FavoriteLatitude
	FavoriteLongitude
)

func (f FavoriteField) String() string {
	switch f {
	case FavoriteName:
		return "name"
	case FavoriteLatitude:
		return "latitude"
	case FavoriteLongitude:
		return "longitude"
	default:
		return "unknown"
	}
}

// ParseFavoriteField maps a field token ("name", "latitude", "longitude")
// to a FavoriteField. ok is false for any other token.
func ParseFavoriteField(token string) (FavoriteField, bool) {
	switch token {
	case "name":
		return FavoriteName, true
	case "latitude":
		return FavoriteLatitude, true
	case "longitude":
		return FavoriteLongitude, true
	}
	return 0, false
}

// GoToPointState holds the inputs of the go-to-point dialog.
type GoToPointState struct {
	Latitude  Field
	Longitude Field
}

// WithField returns a copy of s with the selected field's value replaced.
// Unknown selectors leave s unchanged.
func (s GoToPointState) WithField(field PointField, value string) GoToPointState {
	switch field {
	case PointLatitude:
		s.Latitude = s.Latitude.WithValue(value)
	case PointLongitude:
		s.Longitude = s.Longitude.WithValue(value)
	}
	return s
}

// FavoritesInputState holds the inputs of the add-to-favorites dialog.
type FavoritesInputState struct {
	Name      Field
	Latitude  Field
	Longitude Field
}

// WithField returns a copy of s with the selected field's value replaced.
// Unknown selectors leave s unchanged.
func (s FavoritesInputState) WithField(field FavoriteField, value string) FavoritesInputState {
	switch field {
	case FavoriteName:
		s.Name = s.Name.WithValue(value)
	case FavoriteLatitude:
		s.Latitude = s.Latitude.WithValue(value)
	case FavoriteLongitude:
		s.Longitude = s.Longitude.WithValue(value)
	}
	return s
}

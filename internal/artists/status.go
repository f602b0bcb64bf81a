package artists

// ProfileStatus represents the lifecycle status of an artist profile
type ProfileStatus string

const (
	ProfileStatusDraft     ProfileStatus = "DRAFT"
	ProfileStatusPublished ProfileStatus = "PUBLISHED"
)

func (s ProfileStatus) IsValid() bool {
	switch s {
	case ProfileStatusDraft, ProfileStatusPublished:
		return true
	}
	return false
}

func (s ProfileStatus) String() string {
	return string(s)
}

// VisibilityMode controls how much of the artist's base area is exposed
// on the public profile.
type VisibilityMode string

const (
	VisibilityApproximate VisibilityMode = "APPROXIMATE"
	VisibilityHidden      VisibilityMode = "HIDDEN"
)

func (v VisibilityMode) IsValid() bool {
	switch v {
	case VisibilityApproximate, VisibilityHidden:
		return true
	}
	return false
}

func (v VisibilityMode) String() string {
	return string(v)
}

// Orientation of a demo video
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

func (o Orientation) String() string {
	return string(o)
}

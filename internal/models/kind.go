package models

// Kind names one of the record collections the site stores.
type Kind string

const (
	KindTeamMembers Kind = "team_members"
	KindProjects    Kind = "projects"
	KindComments    Kind = "comments"
)

// AllKinds returns every kind in migration order.
func AllKinds() []Kind {
	return []Kind{KindTeamMembers, KindProjects, KindComments}
}

func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTeamMembers, KindProjects, KindComments:
		return true
	}
	return false
}

// Record is a canonical row of one kind.
type Record interface {
	RecordKind() Kind
}

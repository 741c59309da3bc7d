package model

type UserRole string

const (
	Student    UserRole = "student"
	Supervisor UserRole = "supervisor"
	Admin      UserRole = "admin"
	Internal   UserRole = "internal"
	External   UserRole = "external"
)

type ProjectStatus string

const (
	ProjectNone     ProjectStatus = "None"
	ProjectPending  ProjectStatus = "Pending"
	ProjectApproved ProjectStatus = "Approved"
	ProjectRejected ProjectStatus = "Rejected"
)

// UintList is stored as a JSON array column.
type UintList []uint

// Contains reports whether id is already in the list.
func (l UintList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Union appends id if absent and returns the (possibly new) list.
func (l UintList) Union(id uint) UintList {
	if l.Contains(id) {
		return l
	}
	return append(l, id)
}

// SupervisorSnapshot is the denormalized copy of a supervisor's identity
// taken at approval time. It does not track later profile edits; see
// SupervisionService.ResyncSnapshots.
type SupervisorSnapshot struct {
	SupervisorID         *uint  `gorm:"index" json:"supervisorId,omitempty"`
	SupervisorName       string `gorm:"size:100" json:"supervisorName,omitempty"`
	SupervisorDepartment string `gorm:"size:100" json:"supervisorDepartment,omitempty"`
	SupervisorEmail      string `gorm:"size:100" json:"supervisorEmail,omitempty"`
}

// swagger:model User
type User struct {
	BaseModel
	Name       string   `gorm:"size:100;not null" json:"name"`
	Email      string   `gorm:"size:100;unique;not null" json:"email"`
	Password   string   `gorm:"size:100;not null" json:"-"`
	Role       UserRole `gorm:"type:enum('student','supervisor','admin','internal','external');default:'student'" json:"role"`
	Department string   `gorm:"size:100" json:"department"`

	// Group membership. GroupID is nil until the student joins a group and is
	// then shared by every member; TeamMembers holds the ids of the other
	// members and is kept symmetric by GroupService.
	GroupID     *string  `gorm:"size:64;index" json:"groupID,omitempty"`
	TeamMembers UintList `gorm:"serializer:json;type:json" json:"teamMembers"`

	SupervisorSnapshot `gorm:"embedded"`
	ProjectStatus      ProjectStatus `gorm:"size:20;default:'None'" json:"projectStatus"`
	ProposalStatus     string        `gorm:"size:20" json:"proposalStatus"`

	// Supervisor-role fields.
	MaxGroups int      `gorm:"default:0" json:"maxGroups"` // 0 = unlimited
	Roster    UintList `gorm:"serializer:json;type:json" json:"roster"`

	Disabled bool `gorm:"default:false" json:"disabled"`
}

func (User) TableName() string {
	return "users"
}

package model

// SupervisorRequest is a student(-group)'s application to a supervisor.
// A student may hold at most one request in state pending or approved.
type SupervisorRequest struct {
	UUIDBase
	StudentID          uint          `gorm:"index;not null" json:"studentId"`
	Student            User          `gorm:"foreignKey:StudentID;references:ID;constraint:false" json:"student,omitempty"`
	SupervisorID       uint          `gorm:"index;not null" json:"supervisorId"`
	ProjectTitle       string        `gorm:"size:255;not null" json:"projectTitle"`
	ProjectDescription string        `gorm:"type:text" json:"projectDescription"`
	Status             RequestStatus `gorm:"type:enum('pending','approved','rejected');default:'pending'" json:"status"`
}

func (SupervisorRequest) TableName() string {
	return "supervisor_requests"
}

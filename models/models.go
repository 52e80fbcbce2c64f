package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// School model - tenant scope for every other record
type School struct {
	BaseModel
	Name    string `json:"name" gorm:"size:255;not null"`
	Code    string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Address string `json:"address" gorm:"size:500"`
	Phone   string `json:"phone" gorm:"size:20"`
	Active  bool   `json:"active" gorm:"default:true"`

	// Relationships
	Users    []User    `json:"users,omitempty" gorm:"foreignKey:SchoolID"`
	Classes  []Class   `json:"classes,omitempty" gorm:"foreignKey:SchoolID"`
	Teachers []Teacher `json:"teachers,omitempty" gorm:"foreignKey:SchoolID"`
	Rooms    []Room    `json:"rooms,omitempty" gorm:"foreignKey:SchoolID"`
	Subjects []Subject `json:"subjects,omitempty" gorm:"foreignKey:SchoolID"`
}

// User model
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'student';type:enum('owner','admin','teacher','student')"` // owner, admin, teacher, student
	SchoolID uint   `json:"school_id" gorm:"not null"`
	Status   string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"` // active, inactive, suspended
	Avatar   string `json:"avatar" gorm:"size:500"`

	// Relationships
	School  School   `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:UserID"`
	Student *Student `json:"student,omitempty" gorm:"foreignKey:UserID"`
}

// Teacher model - directory entry referenced by schedule slots
type Teacher struct {
	BaseModel
	UserID     *uint  `json:"user_id" gorm:"uniqueIndex"`
	SchoolID   uint   `json:"school_id" gorm:"not null"`
	FirstName  string `json:"first_name" gorm:"size:100;not null"`
	LastName   string `json:"last_name" gorm:"size:100;not null"`
	Nickname   string `json:"nickname" gorm:"size:100"`
	Department string `json:"department" gorm:"size:100"`
	Phone      string `json:"phone" gorm:"size:20"`
	Active     bool   `json:"active" gorm:"default:true"`

	// Relationships
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	School School `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
}

// Student model - roster entry used by class administration and person search
type Student struct {
	BaseModel
	UserID    *uint  `json:"user_id" gorm:"uniqueIndex"`
	SchoolID  uint   `json:"school_id" gorm:"not null"`
	ClassID   *uint  `json:"class_id"`
	FirstName string `json:"first_name" gorm:"size:100;not null"`
	LastName  string `json:"last_name" gorm:"size:100;not null"`
	Status    string `json:"status" gorm:"size:50;not null;default:'enrolled';type:enum('enrolled','transferred','graduated','withdrawn')"` // enrolled, transferred, graduated, withdrawn

	// Relationships
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	School School `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
	Class  *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// Class model - a section within a grade level, owner of timeslots and schedules
type Class struct {
	BaseModel
	SchoolID          uint   `json:"school_id" gorm:"not null;uniqueIndex:idx_class_identity"`
	Name              string `json:"name" gorm:"size:100;not null;uniqueIndex:idx_class_identity"`
	GradeLevel        string `json:"grade_level" gorm:"size:50;not null"`
	Section           string `json:"section" gorm:"size:50;not null;uniqueIndex:idx_class_identity"`
	AcademicYear      string `json:"academic_year" gorm:"size:20;not null;uniqueIndex:idx_class_identity"`
	Capacity          int    `json:"capacity" gorm:"default:40"`
	HomeroomTeacherID *uint  `json:"homeroom_teacher_id"`
	Status            string `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive')"` // active, inactive

	// Relationships
	School          School     `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
	HomeroomTeacher *Teacher   `json:"homeroom_teacher,omitempty" gorm:"foreignKey:HomeroomTeacherID"`
	Timeslots       []Timeslot `json:"timeslots,omitempty" gorm:"foreignKey:ClassID"`
	Schedules       []Schedule `json:"schedules,omitempty" gorm:"foreignKey:ClassID"`
	Students        []Student  `json:"students,omitempty" gorm:"foreignKey:ClassID"`
}

// Subject model
type Subject struct {
	BaseModel
	SchoolID uint   `json:"school_id" gorm:"not null;uniqueIndex:idx_subject_code"`
	Name     string `json:"name" gorm:"size:255;not null"`
	Code     string `json:"code" gorm:"size:50;not null;uniqueIndex:idx_subject_code"`
	Active   bool   `json:"active" gorm:"default:true"`

	// Relationships
	School School `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
}

// Room model
type Room struct {
	BaseModel
	SchoolID uint   `json:"school_id" gorm:"not null"`
	Name     string `json:"name" gorm:"size:100;not null"`
	Capacity int    `json:"capacity" gorm:"not null"`
	Status   string `json:"status" gorm:"size:50;not null;default:'available';type:enum('available','occupied','maintenance')"` // available, occupied, maintenance

	// Relationships
	School School `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
}

// Timeslot model - a recurring (day, start, end) period definition for a class.
// Start and end times are zero-padded "HH:MM" strings so lexical comparison
// matches chronological order. The unique index serializes concurrent creates
// of identical ranges; duplicates surface as a storage-level duplicate key.
type Timeslot struct {
	BaseModel
	ClassID   uint   `json:"class_id" gorm:"not null;uniqueIndex:idx_timeslot_range"`
	Day       string `json:"day" gorm:"size:20;not null;uniqueIndex:idx_timeslot_range"`
	StartTime string `json:"start_time" gorm:"size:5;not null;uniqueIndex:idx_timeslot_range"`
	EndTime   string `json:"end_time" gorm:"size:5;not null;uniqueIndex:idx_timeslot_range"`
	Type      string `json:"type" gorm:"size:50;not null;default:'period';type:enum('period','break','assembly')"` // period, break, assembly
	DeletedBy *uint  `json:"deleted_by,omitempty"`

	// Relationships
	Class         Class          `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	ScheduleSlots []ScheduleSlot `json:"schedule_slots,omitempty" gorm:"foreignKey:TimeslotID"`
}

// Schedule model - a named, dated container of slot assignments for a class.
// At most one active schedule per class, enforced by the activation flow.
type Schedule struct {
	BaseModel
	ClassID       uint      `json:"class_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	AcademicYear  string    `json:"academic_year" gorm:"size:20;not null"`
	StartDate     time.Time `json:"start_date" gorm:"not null"`
	EndDate       time.Time `json:"end_date" gorm:"not null"`
	EffectiveFrom time.Time `json:"effective_from" gorm:"not null"`
	Status        string    `json:"status" gorm:"size:50;not null;default:'inactive';type:enum('active','inactive')"` // active, inactive
	DeletedBy     *uint     `json:"deleted_by,omitempty"`

	// Relationships
	Class Class          `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Slots []ScheduleSlot `json:"slots,omitempty" gorm:"foreignKey:ScheduleID"`
}

// ScheduleSlot model - the binding of a Timeslot into a Schedule, optionally
// assigned a subject/teacher/room. Hard-deleted: no DeletedAt column, cascade
// deletes remove rows for real. Day always mirrors the referenced Timeslot.
type ScheduleSlot struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ScheduleID  uint      `json:"schedule_id" gorm:"not null;uniqueIndex:idx_slot_binding"`
	TimeslotID  uint      `json:"timeslot_id" gorm:"not null;uniqueIndex:idx_slot_binding"`
	Day         string    `json:"day" gorm:"size:20;not null;index"`
	Type        string    `json:"type" gorm:"size:50;not null;default:'period'"`
	SubjectID   *uint     `json:"subject_id"`
	TeacherID   *uint     `json:"teacher_id" gorm:"index"`
	RoomID      *uint     `json:"room_id"`
	HasConflict bool      `json:"has_conflict" gorm:"default:false"`

	// Relationships
	Schedule Schedule `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
	Timeslot Timeslot `json:"timeslot,omitempty" gorm:"foreignKey:TimeslotID"`
	Subject  *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Teacher  *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Room     *Room    `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"` // info, warning, error, success
	Data    JSON       `json:"data,omitempty" gorm:"type:json"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}

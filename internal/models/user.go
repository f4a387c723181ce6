package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "superadmin"
	RoleCollege    UserRole = "college"
	RoleTeacher    UserRole = "teacher"
	RoleStudent    UserRole = "student"
)

// ValidRoles is the closed role enumeration; anything else fails closed.
var ValidRoles = []UserRole{RoleSuperAdmin, RoleCollege, RoleTeacher, RoleStudent}

func (r UserRole) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User is a credential record in one of the four role partitions.
// Email is unique within a partition, not globally: a college account and a
// teacher account may share an address. PasswordHash never reaches clients.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Role         UserRole `json:"role" gorm:"uniqueIndex:idx_users_role_email;not null;size:20"`
	Email        string   `json:"email" gorm:"uniqueIndex:idx_users_role_email;not null;size:255"`
	Name         string   `json:"name" gorm:"not null;size:100"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`

	// Student fields
	CollegeID  *uint   `json:"college_id,omitempty" gorm:"index"`
	RollNumber *string `json:"roll_number,omitempty" gorm:"uniqueIndex;size:50"`
	Department *string `json:"department,omitempty" gorm:"size:100"`

	// College fields
	Address       *string `json:"address,omitempty" gorm:"size:255"`
	ContactNumber *string `json:"contact_number,omitempty" gorm:"size:20"`
	Website       *string `json:"website,omitempty" gorm:"size:255"`
	IsVerified    bool    `json:"is_verified" gorm:"default:false"`

	// Teacher fields
	AssignedEventID *uint `json:"assigned_event_id,omitempty" gorm:"index"`

	PasswordChangedAt *time.Time `json:"-"`
	IsActive          bool       `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	College *User `json:"college,omitempty" gorm:"foreignKey:CollegeID"`
}

func (User) TableName() string {
	return "users"
}

// bcrypt cost 12 matches the hash parameters of existing records.
const passwordHashCost = 12

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a candidate password against the stored hash.
// bcrypt's comparison is constant time for equal-cost hashes.
func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// PasswordChangedAfter reports whether the password changed after the given
// token issue time. Tokens issued before a password change are stale and
// must not authenticate.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// JWT iat has second precision; truncate so a token minted in the same
	// second as the change is not rejected spuriously.
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt)
}
